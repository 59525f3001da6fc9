package system

import (
	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// ActionOptionSystem rebuilds every entity's valid (action, target) pairs.
// Candidates are the entity itself plus its current target; actions are the
// ones granted by its clean total aggregate. Phase 3 (Options).
type ActionOptionSystem struct {
	world     *world.State
	actions   *data.ActionTable
	predicate TargetPredicate
	log       *zap.Logger
}

func NewActionOptionSystem(ws *world.State, actions *data.ActionTable, predicate TargetPredicate, log *zap.Logger) *ActionOptionSystem {
	return &ActionOptionSystem{world: ws, actions: actions, predicate: predicate, log: log}
}

func (s *ActionOptionSystem) Name() string          { return "action_option" }
func (s *ActionOptionSystem) Phase() coresys.Phase { return coresys.PhaseOptions }

func (s *ActionOptionSystem) Update(_ coresys.Tick) {
	s.world.Options.Clear()
	ecs.Each2(s.world.Locations, s.world.TotalAgg, func(id ecs.EntityID, _ component.Location, agg component.TotalAggregate) {
		if s.world.TotalDirt.Has(id) {
			return
		}
		s.rebuild(id, agg.Stats)
	})
}

func (s *ActionOptionSystem) rebuild(id ecs.EntityID, stats data.StatBlock) {
	if len(stats.Actions) == 0 {
		return
	}

	candidates := []ecs.EntityID{id}
	if tg, ok := s.world.Targets.Get(id); ok && tg.TargetID != id {
		candidates = append(candidates, tg.TargetID)
	}

	var opts []component.ActionOption
	seen := make(map[data.ActionID]struct{}, len(stats.Actions))
	for _, actionID := range stats.Actions {
		if _, dup := seen[actionID]; dup {
			continue
		}
		seen[actionID] = struct{}{}
		action := s.actions.Get(actionID)
		if action == nil {
			s.log.Debug("granted action not in catalog",
				zap.Uint64("entity", uint64(id)), zap.Uint32("action", uint32(actionID)))
			continue
		}
		for _, cand := range candidates {
			if s.predicate.CanTarget(s.world, action, id, cand) {
				opts = append(opts, component.ActionOption{ActionID: actionID, TargetID: cand})
			}
		}
	}
	if len(opts) > 0 {
		s.world.Options.Insert(component.ActionOptions{EntityID: id, Options: opts})
	}
}
