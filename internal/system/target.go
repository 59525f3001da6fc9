package system

import (
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/world"
)

// TargetValidationSystem drops Target rows whose target no longer shares the
// actor's location (either side may have lost its location entirely).
// Phase 2 (Validate).
type TargetValidationSystem struct {
	world *world.State
}

func NewTargetValidationSystem(ws *world.State) *TargetValidationSystem {
	return &TargetValidationSystem{world: ws}
}

func (s *TargetValidationSystem) Name() string          { return "target_validation" }
func (s *TargetValidationSystem) Phase() coresys.Phase { return coresys.PhaseValidate }

func (s *TargetValidationSystem) Update(_ coresys.Tick) {
	for _, tg := range s.world.Targets.Iterate() {
		if !s.world.SameLocation(tg.EntityID, tg.TargetID) {
			s.world.Targets.Delete(tg.EntityID)
		}
	}
}
