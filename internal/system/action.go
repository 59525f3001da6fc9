package system

import (
	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// ActionSystem advances every running action by exactly one step per tick
// and stages the step's effect on the event queue. After the last step the
// Action-State is deleted, so an N-step action lives for N ticks. Queued
// actions are then promoted for idle entities. Phase 4 (Action).
type ActionSystem struct {
	world   *world.State
	actions *data.ActionTable
	log     *zap.Logger
}

func NewActionSystem(ws *world.State, actions *data.ActionTable, log *zap.Logger) *ActionSystem {
	return &ActionSystem{world: ws, actions: actions, log: log}
}

func (s *ActionSystem) Name() string          { return "action" }
func (s *ActionSystem) Phase() coresys.Phase { return coresys.PhaseAction }

func (s *ActionSystem) Update(t coresys.Tick) {
	for _, st := range s.world.Actions.Iterate() {
		s.advance(t, st)
	}
	for _, id := range ecs.Without(s.world.Queued, s.world.Actions) {
		s.promote(t, id)
	}
}

func (s *ActionSystem) advance(t coresys.Tick, st component.ActionState) {
	action := s.actions.Get(st.ActionID)
	if action == nil {
		s.log.Warn("action state references unknown action",
			zap.Uint64("entity", uint64(st.EntityID)), zap.Uint32("action", uint32(st.ActionID)))
		s.world.Actions.Delete(st.EntityID)
		return
	}
	step, ok := s.actions.Step(st.ActionID, st.Sequence)
	if !ok {
		// Completed: cursor already past the last step.
		if int(st.Sequence) > len(action.Steps) {
			s.log.Warn("action cursor beyond last step",
				zap.Uint64("entity", uint64(st.EntityID)),
				zap.Uint32("action", uint32(st.ActionID)),
				zap.Uint32("sequence", st.Sequence))
		}
		s.world.Actions.Delete(st.EntityID)
		return
	}

	target := st.TargetID
	if step.Self {
		target = st.EntityID
	}
	s.world.Events.Push(event.Event{
		ID:      s.world.NextEventID(),
		Time:    t.Now,
		Owner:   st.EntityID,
		Kind:    step.Kind,
		Target:  target,
		Amount:  step.Amount,
		TraitID: uint32(step.TraitID),
	})

	st.Sequence++
	if int(st.Sequence) >= len(action.Steps) {
		s.world.Actions.Delete(st.EntityID)
		return
	}
	s.world.Actions.Update(st)
}

func (s *ActionSystem) promote(t coresys.Tick, id ecs.EntityID) {
	st, err := s.world.PromoteQueued(id)
	if err != nil {
		s.log.Warn("promote queued action", zap.Uint64("entity", uint64(id)), zap.Error(err))
		return
	}
	s.world.Events.Push(event.Event{
		ID:       s.world.NextEventID(),
		Time:     t.Now,
		Owner:    id,
		Kind:     event.KindStartAction,
		Target:   st.TargetID,
		ActionID: uint32(st.ActionID),
	})
}
