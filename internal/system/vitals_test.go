package system

import (
	"testing"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/world"
)

func TestHPFoldsAccumulatorsAndClamps(t *testing.T) {
	ws := world.NewState()
	hpSys := NewHPSystem(ws)
	a, b, c := ws.NewEntity(), ws.NewEntity(), ws.NewEntity()
	ws.HP.Insert(component.HP{EntityID: a, HP: 30, Max: 40, Damage: 12, Healing: 5})
	ws.HP.Insert(component.HP{EntityID: b, HP: 5, Max: 40, Damage: 50})
	ws.HP.Insert(component.HP{EntityID: c, HP: 38, Max: 40, Healing: 20})

	hpSys.Update(tickAt(1))

	want := map[uint64]int32{uint64(a): 23, uint64(b): 0, uint64(c): 40}
	for _, hp := range ws.HP.Iterate() {
		if hp.HP != want[uint64(hp.EntityID)] || hp.Damage != 0 || hp.Healing != 0 {
			t.Fatalf("entity %d: unexpected row %+v", hp.EntityID, hp)
		}
	}

	before := ws.HP.Iterate()
	hpSys.Update(tickAt(2))
	after := ws.HP.Iterate()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("second run changed %+v into %+v", before[i], after[i])
		}
	}
}

func TestEPClampsIntoRange(t *testing.T) {
	ws := world.NewState()
	epSys := NewEPSystem(ws)
	a, b := ws.NewEntity(), ws.NewEntity()
	ws.EP.Insert(component.EP{EntityID: a, EP: 30, Max: 20})
	ws.EP.Insert(component.EP{EntityID: b, EP: -4, Max: 20})

	epSys.Update(tickAt(1))

	if ep, _ := ws.EP.Get(a); ep.EP != 20 {
		t.Fatalf("expected ep clamped to 20, got %d", ep.EP)
	}
	if ep, _ := ws.EP.Get(b); ep.EP != 0 {
		t.Fatalf("expected ep clamped to 0, got %d", ep.EP)
	}
}
