package world

import (
	"fmt"
	"slices"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
)

// StartAction begins action on target right away when id is idle, otherwise
// queues it behind the running one. started reports which happened. A second
// queued action is rejected with ErrDuplicateKey.
func (s *State) StartAction(id ecs.EntityID, action data.ActionID, target ecs.EntityID) (started bool, err error) {
	if !s.Alive(id) {
		return false, fmt.Errorf("active entity %d: %w", id, ecs.ErrNotFound)
	}
	if !s.Actions.Has(id) {
		_, err := s.Actions.Insert(component.ActionState{EntityID: id, ActionID: action, TargetID: target})
		return err == nil, err
	}
	_, err = s.Queued.Insert(component.QueuedActionState{EntityID: id, ActionID: action, TargetID: target})
	return false, err
}

// PromoteQueued turns the queued action of id into its running action.
func (s *State) PromoteQueued(id ecs.EntityID) (component.ActionState, error) {
	q, err := s.Queued.Must(id)
	if err != nil {
		return component.ActionState{}, err
	}
	if s.Actions.Has(id) {
		return component.ActionState{}, fmt.Errorf("promote queued action of %d while one is running: %w", id, ecs.ErrInvariantViolation)
	}
	st, err := s.Actions.Insert(component.ActionState{EntityID: id, ActionID: q.ActionID, TargetID: q.TargetID})
	if err != nil {
		return st, err
	}
	s.Queued.Delete(id)
	return st, nil
}

// CombatStats returns attack and defense from the total aggregate. A missing
// or dirty cache reads as zero.
func (s *State) CombatStats(id ecs.EntityID) (attack, defense int32) {
	stats, ok := s.TotalStats(id)
	if !ok {
		return 0, 0
	}
	return stats.Attack, stats.Defense
}

// TotalStats returns the total aggregate of id when it exists and is clean.
func (s *State) TotalStats(id ecs.EntityID) (data.StatBlock, bool) {
	if s.TotalDirt.Has(id) {
		return data.StatBlock{}, false
	}
	agg, ok := s.TotalAgg.Get(id)
	if !ok {
		return data.StatBlock{}, false
	}
	return agg.Stats, true
}

// AddTrait appends trait to the traits of id and flags the traits cache.
func (s *State) AddTrait(id ecs.EntityID, trait data.TraitID) {
	row, _ := s.Traits.Get(id)
	row.EntityID = id
	row.TraitIDs = append(slices.Clone(row.TraitIDs), trait)
	s.Traits.Upsert(row)
	s.MarkTraitsDirty(id)
}

// RemoveTrait drops the first occurrence of trait and flags the traits
// cache. Reports whether the trait was present.
func (s *State) RemoveTrait(id ecs.EntityID, trait data.TraitID) bool {
	row, ok := s.Traits.Get(id)
	if !ok {
		return false
	}
	i := slices.Index(row.TraitIDs, trait)
	if i < 0 {
		return false
	}
	row.TraitIDs = slices.Delete(slices.Clone(row.TraitIDs), i, i+1)
	s.Traits.Update(row)
	s.MarkTraitsDirty(id)
	return true
}

// SetBaseline assigns a baseline and flags the total cache.
func (s *State) SetBaseline(id ecs.EntityID, baseline data.BaselineID) {
	s.Baselines.Upsert(component.Baseline{EntityID: id, BaselineID: baseline})
	s.MarkTotalDirty(id)
}

func (s *State) MarkTraitsDirty(id ecs.EntityID) {
	if !s.TraitsDirt.Has(id) {
		s.TraitsDirt.Insert(component.TraitsDirty{EntityID: id})
	}
}

func (s *State) MarkTotalDirty(id ecs.EntityID) {
	if !s.TotalDirt.Has(id) {
		s.TotalDirt.Insert(component.TotalDirty{EntityID: id})
	}
}

// SameLocation reports whether a and b both have a location and it matches.
func (s *State) SameLocation(a, b ecs.EntityID) bool {
	la, ok := s.Locations.Get(a)
	if !ok {
		return false
	}
	lb, ok := s.Locations.Get(b)
	return ok && la.LocationID == lb.LocationID
}
