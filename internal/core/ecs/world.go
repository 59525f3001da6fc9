package ecs

import "fmt"

// World is the top-level ECS container. It owns the entity pool and the table
// registry; concrete tables live in the game state that embeds it.
type World struct {
	pool     *EntityPool
	registry *Registry
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// DestroyEntity removes the entity's rows from every registered table and
// forgets the id. Works on either partition.
func (w *World) DestroyEntity(id EntityID) error {
	if !w.pool.Known(id) {
		return fmt.Errorf("entity %d: %w", id, ErrNotFound)
	}
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
	return nil
}

// ActivateEntity moves an inactive entity back to the active partition.
// Rows removed on deactivation are not restored.
func (w *World) ActivateEntity(id EntityID) error {
	if !w.pool.Activate(id) {
		return fmt.Errorf("inactive entity %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeactivateEntity moves an active entity to the inactive partition and
// strips its rows from every registered table.
func (w *World) DeactivateEntity(id EntityID) error {
	if !w.pool.Deactivate(id) {
		return fmt.Errorf("active entity %d: %w", id, ErrNotFound)
	}
	w.registry.RemoveAll(id)
	return nil
}
