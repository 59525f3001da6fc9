package system

import (
	"testing"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
)

func TestStaleTargetsAreDropped(t *testing.T) {
	ws := world.NewState()
	validate := NewTargetValidationSystem(ws)
	room, yard := ws.NewEntity(), ws.NewEntity()
	hero := spawn(ws, room, 10, data.StatBlock{})
	near := spawn(ws, room, 10, data.StatBlock{})
	far := spawn(ws, yard, 10, data.StatBlock{})
	lost := ws.NewEntity()
	a, b := spawn(ws, room, 10, data.StatBlock{}), spawn(ws, room, 10, data.StatBlock{})

	ws.Targets.Insert(component.Target{EntityID: hero, TargetID: near})
	ws.Targets.Insert(component.Target{EntityID: near, TargetID: far})
	ws.Targets.Insert(component.Target{EntityID: a, TargetID: lost})
	ws.Targets.Insert(component.Target{EntityID: b, TargetID: hero})
	ws.Locations.Delete(b)

	validate.Update(tickAt(1))

	if !ws.Targets.Has(hero) {
		t.Fatal("co-located target must survive")
	}
	if ws.Targets.Has(near) || ws.Targets.Has(a) || ws.Targets.Has(b) {
		t.Fatal("expected stale targets removed")
	}
}
