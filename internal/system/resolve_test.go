package system

import (
	"testing"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
)

func TestEffectiveDamage(t *testing.T) {
	tests := []struct {
		name                  string
		base, attack, defense int32
		want                  int32
	}{
		{"attack and defense", 10, 5, 3, 12},
		{"defense exceeds", 1, 0, 10, 0},
		{"bare", 7, 0, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveDamage(tt.base, tt.attack, tt.defense); got != tt.want {
				t.Fatalf("EffectiveDamage(%d, %d, %d) = %d, want %d", tt.base, tt.attack, tt.defense, got, tt.want)
			}
		})
	}
}

func TestAttackUsesAggregatedStats(t *testing.T) {
	ws := world.NewState()
	resolve := NewEventResolutionSystem(ws, nopLog())
	room := ws.NewEntity()
	hero := spawn(ws, room, 50, data.StatBlock{Attack: 5})
	rat := spawn(ws, room, 30, data.StatBlock{Defense: 3})

	ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: event.KindAttack, Target: rat, Amount: 10})
	resolve.Update(tickAt(1))

	hp, _ := ws.HP.Get(rat)
	if hp.Damage != 12 {
		t.Fatalf("expected damage 12, got %d", hp.Damage)
	}
	obs := ws.ObservedEvents()
	if len(obs) != 1 || obs[0].Amount != 12 {
		t.Fatalf("expected archived attack with effective amount, got %+v", obs)
	}
}

func TestResolutionFollowsPhaseOrder(t *testing.T) {
	ws := world.NewState()
	resolve := NewEventResolutionSystem(ws, nopLog())
	room := ws.NewEntity()
	hero := spawn(ws, room, 50, data.StatBlock{})

	push := func(k event.Kind) {
		ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: k, Target: hero, Amount: 1, TraitID: uint32(traitCry)})
	}
	push(event.KindRest)
	push(event.KindAttack)
	push(event.KindBuff)
	push(event.KindHeal)
	push(event.KindStartAction)

	resolve.Update(tickAt(1))

	var got []event.Kind
	for _, e := range ws.ObservedEvents() {
		got = append(got, e.Kind)
	}
	want := []event.Kind{event.KindBuff, event.KindAttack, event.KindHeal, event.KindRest, event.KindStartAction}
	if len(got) != len(want) {
		t.Fatalf("expected %d observations, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s (all %v)", i, want[i], got[i], got)
		}
	}
	if ws.Events.Len() != 0 {
		t.Fatalf("expected queue drained, %d left", ws.Events.Len())
	}
}

func TestFailedEventsAreNotArchived(t *testing.T) {
	ws := world.NewState()
	resolve := NewEventResolutionSystem(ws, nopLog())
	hero := ws.NewEntity()
	ghost := ws.NewEntity() // no HP row

	ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: event.KindAttack, Target: ghost, Amount: 5})
	ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: event.KindMove, Target: hero})
	resolve.Update(tickAt(1))

	if n := len(ws.ObservedEvents()); n != 0 {
		t.Fatalf("expected no observations, got %d", n)
	}
	if ws.Locations.Has(hero) {
		t.Fatal("move onto self must not apply")
	}
}

func TestBuffAddsTraitAndFlagsCache(t *testing.T) {
	ws := world.NewState()
	resolve := NewEventResolutionSystem(ws, nopLog())
	hero := ws.NewEntity()

	ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: event.KindBuff, Target: hero, TraitID: uint32(traitCry)})
	resolve.Update(tickAt(1))

	row, ok := ws.Traits.Get(hero)
	if !ok || len(row.TraitIDs) != 1 || row.TraitIDs[0] != traitCry {
		t.Fatalf("expected war cry trait, got %+v", row)
	}
	if !ws.TraitsDirt.Has(hero) {
		t.Fatal("expected traits dirty flag")
	}
}

func TestItemHandling(t *testing.T) {
	ws := world.NewState()
	resolve := NewEventResolutionSystem(ws, nopLog())
	room := ws.NewEntity()
	hall := ws.NewEntity()
	hero := spawn(ws, room, 50, data.StatBlock{})
	sword := ws.NewEntity()
	ws.Locations.Insert(component.Location{EntityID: sword, LocationID: room})
	ws.Equippable.Insert(component.Equippable{EntityID: sword, TraitID: traitSword})

	apply := func(k event.Kind, target ecs.EntityID) bool {
		before := len(ws.ObservedEvents())
		ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: k, Target: target})
		resolve.Update(tickAt(1))
		return len(ws.ObservedEvents()) == before+1
	}
	swordAt := func() ecs.EntityID {
		loc, _ := ws.Locations.Get(sword)
		return loc.LocationID
	}

	if !apply(event.KindTake, sword) || swordAt() != hero {
		t.Fatal("expected sword carried by hero")
	}
	if !apply(event.KindEquip, sword) {
		t.Fatal("equip did not resolve")
	}
	if eq, ok := ws.Equipped.Get(sword); !ok || eq.HolderID != hero {
		t.Fatal("expected sword equipped")
	}
	if row, _ := ws.Traits.Get(hero); len(row.TraitIDs) != 1 || row.TraitIDs[0] != traitSword {
		t.Fatalf("expected sword trait granted, got %v", row.TraitIDs)
	}

	if apply(event.KindDrop, sword) || swordAt() != hero {
		t.Fatal("equipped sword must not be dropped")
	}

	if !apply(event.KindUnequip, sword) || ws.Equipped.Has(sword) {
		t.Fatal("expected sword unequipped")
	}
	if row, _ := ws.Traits.Get(hero); len(row.TraitIDs) != 0 {
		t.Fatalf("expected sword trait removed, got %v", row.TraitIDs)
	}

	if !apply(event.KindMove, hall) {
		t.Fatal("move did not resolve")
	}
	if !apply(event.KindDrop, sword) || swordAt() != hall {
		t.Fatal("expected sword dropped where hero stands")
	}
}

func TestRestAndHealAccumulate(t *testing.T) {
	ws := world.NewState()
	resolve := NewEventResolutionSystem(ws, nopLog())
	room := ws.NewEntity()
	hero := spawn(ws, room, 20, data.StatBlock{MaxHP: 40})

	ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: event.KindHeal, Target: hero, Amount: 8})
	ws.Events.Push(event.Event{ID: ws.NextEventID(), Owner: hero, Kind: event.KindRest, Target: hero, Amount: 3})
	resolve.Update(tickAt(1))

	hp, _ := ws.HP.Get(hero)
	ep, _ := ws.EP.Get(hero)
	if hp.Healing != 8 || hp.HP != 20 {
		t.Fatalf("expected healing accumulated but hp untouched, got %+v", hp)
	}
	if ep.EP != 3 {
		t.Fatalf("expected ep 3, got %d", ep.EP)
	}
}
