package system

import (
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/world"
)

// ObservationResetSystem truncates last tick's observation log.
// Phase 0 (Reset).
type ObservationResetSystem struct {
	world *world.State
}

func NewObservationResetSystem(ws *world.State) *ObservationResetSystem {
	return &ObservationResetSystem{world: ws}
}

func (s *ObservationResetSystem) Name() string          { return "observation_reset" }
func (s *ObservationResetSystem) Phase() coresys.Phase { return coresys.PhaseReset }

func (s *ObservationResetSystem) Update(_ coresys.Tick) {
	s.world.ResetObservations()
}
