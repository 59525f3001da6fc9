package system

import (
	"reflect"
	"testing"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
)

func TestActionOptionsFromGrantedActions(t *testing.T) {
	ws := world.NewState()
	cat := testCatalog()
	opts := NewActionOptionSystem(ws, cat.Actions, CatalogTargeting{}, nopLog())
	room := ws.NewEntity()
	hero := spawn(ws, room, 10, data.StatBlock{Actions: []data.ActionID{actStrike, actWarCry, actMend, actStrike, 404}})
	rat := spawn(ws, room, 10, data.StatBlock{})
	ws.Targets.Insert(component.Target{EntityID: hero, TargetID: rat})

	opts.Update(tickAt(1))

	row, ok := ws.Options.Get(hero)
	if !ok {
		t.Fatal("expected options for hero")
	}
	want := []component.ActionOption{
		{ActionID: actStrike, TargetID: rat},
		{ActionID: actWarCry, TargetID: hero},
		{ActionID: actMend, TargetID: hero},
		{ActionID: actMend, TargetID: rat},
	}
	if !reflect.DeepEqual(row.Options, want) {
		t.Fatalf("options %+v, want %+v", row.Options, want)
	}
	if ws.Options.Has(rat) {
		t.Fatal("entity without granted actions must get no options row")
	}
}

func TestActionOptionsRebuiltEachTick(t *testing.T) {
	ws := world.NewState()
	cat := testCatalog()
	opts := NewActionOptionSystem(ws, cat.Actions, CatalogTargeting{}, nopLog())
	room := ws.NewEntity()
	hero := spawn(ws, room, 10, data.StatBlock{Actions: []data.ActionID{actStrike}})
	rat := spawn(ws, room, 10, data.StatBlock{})
	ws.Targets.Insert(component.Target{EntityID: hero, TargetID: rat})

	opts.Update(tickAt(1))
	if !ws.Options.Has(hero) {
		t.Fatal("expected strike option")
	}

	ws.Targets.Delete(hero)
	opts.Update(tickAt(2))
	if ws.Options.Has(hero) {
		t.Fatal("expected options dropped once the target is gone")
	}

	ws.Targets.Insert(component.Target{EntityID: hero, TargetID: rat})
	ws.MarkTotalDirty(hero)
	opts.Update(tickAt(3))
	if ws.Options.Has(hero) {
		t.Fatal("dirty total must grant nothing")
	}
}
