package system

import (
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// DeactivationSystem retires entities whose deactivation timer has passed:
// the timer row is dropped, a blob of the remaining rows is archived and the
// entity is deleted. One-way; archived entities are not resurrected.
// Phase 1 (Lifecycle).
type DeactivationSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewDeactivationSystem(ws *world.State, log *zap.Logger) *DeactivationSystem {
	return &DeactivationSystem{world: ws, log: log}
}

func (s *DeactivationSystem) Name() string          { return "entity_deactivation" }
func (s *DeactivationSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }

func (s *DeactivationSystem) Update(t coresys.Tick) {
	for _, timer := range s.world.Timers.Iterate() {
		if timer.At.After(t.Now) {
			continue
		}
		s.world.Timers.Delete(timer.EntityID)
		blob, err := s.world.Retire(timer.EntityID, t.Now)
		if err != nil {
			s.log.Warn("deactivation failed", zap.Uint64("entity", uint64(timer.EntityID)), zap.Error(err))
			continue
		}
		s.log.Debug("entity archived",
			zap.Uint64("entity", uint64(timer.EntityID)),
			zap.Strings("kinds", blob.Kinds()),
		)
	}
}
