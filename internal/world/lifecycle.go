package world

import (
	"fmt"
	"time"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
)

// NewEntity allocates a fresh id in the active partition.
func (s *State) NewEntity() ecs.EntityID {
	return s.CreateEntity()
}

// DeleteEntity removes every row keyed by id, plus the rows of other
// entities that point at it (targets, locations, equipped-by), then forgets
// the id.
func (s *State) DeleteEntity(id ecs.EntityID) error {
	if !s.Pool().Known(id) {
		return fmt.Errorf("entity %d: %w", id, ecs.ErrNotFound)
	}
	s.dropReferences(id)
	return s.DestroyEntity(id)
}

// Activate returns an inactive entity to the active partition. Archived rows
// are not restored.
func (s *State) Activate(id ecs.EntityID) error {
	return s.ActivateEntity(id)
}

// Deactivate moves an active entity to the inactive partition right away,
// archiving a snapshot of its rows when it has any.
func (s *State) Deactivate(id ecs.EntityID, now time.Time) error {
	if !s.Alive(id) {
		return fmt.Errorf("active entity %d: %w", id, ecs.ErrNotFound)
	}
	if b := s.Snapshot(id, now); !b.Empty() {
		s.archive(b)
	}
	return s.DeactivateEntity(id)
}

// ScheduleDeactivation arms (or re-arms) the deactivation timer of id.
func (s *State) ScheduleDeactivation(id ecs.EntityID, at time.Time) error {
	if !s.Alive(id) {
		return fmt.Errorf("active entity %d: %w", id, ecs.ErrNotFound)
	}
	s.Timers.Upsert(component.DeactivationTimer{EntityID: id, At: at})
	return nil
}

// Retire archives the snapshot of id and deletes the entity. The timer row
// is expected to be gone already so it does not show up in the blob.
func (s *State) Retire(id ecs.EntityID, now time.Time) (Blob, error) {
	if !s.Pool().Known(id) {
		return Blob{}, fmt.Errorf("entity %d: %w", id, ecs.ErrNotFound)
	}
	b := s.Snapshot(id, now)
	s.archive(b)
	return b, s.DeleteEntity(id)
}

func (s *State) dropReferences(id ecs.EntityID) {
	for _, t := range s.Targets.FindByIndex(id) {
		s.Targets.Delete(t.EntityID)
	}
	for _, l := range s.Locations.FindByIndex(id) {
		s.Locations.Delete(l.EntityID)
	}
	for _, e := range s.Equipped.FindByIndex(id) {
		s.Equipped.Delete(e.EntityID)
	}
}
