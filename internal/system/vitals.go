package system

import (
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/world"
)

// HPSystem folds the damage/healing accumulators into HP, clamps into
// [0, Max] and zeroes the accumulators. Idempotent once accumulators are 0.
// Phase 6 (Vitals).
type HPSystem struct {
	world *world.State
}

func NewHPSystem(ws *world.State) *HPSystem {
	return &HPSystem{world: ws}
}

func (s *HPSystem) Name() string          { return "hp" }
func (s *HPSystem) Phase() coresys.Phase { return coresys.PhaseVitals }

func (s *HPSystem) Update(_ coresys.Tick) {
	for _, hp := range s.world.HP.Iterate() {
		next := clamp32(hp.HP+hp.Healing-hp.Damage, 0, hp.Max)
		if next == hp.HP && hp.Damage == 0 && hp.Healing == 0 {
			continue
		}
		hp.HP = next
		hp.Damage = 0
		hp.Healing = 0
		s.world.HP.Update(hp)
	}
}

// EPSystem clamps the resource pool into [0, Max]. Phase 6 (Vitals).
type EPSystem struct {
	world *world.State
}

func NewEPSystem(ws *world.State) *EPSystem {
	return &EPSystem{world: ws}
}

func (s *EPSystem) Name() string          { return "ep" }
func (s *EPSystem) Phase() coresys.Phase { return coresys.PhaseVitals }

func (s *EPSystem) Update(_ coresys.Tick) {
	for _, ep := range s.world.EP.Iterate() {
		next := clamp32(ep.EP, 0, ep.Max)
		if next == ep.EP {
			continue
		}
		ep.EP = next
		s.world.EP.Update(ep)
	}
}

func clamp32(v, lo, hi int32) int32 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
