package component

import "github.com/tickworld/server/internal/core/ecs"

// Component rows are pure data, zero methods: every mutation happens in a
// system or a world.State operation. Each row is keyed by EntityID.

// Name is a display name.
type Name struct {
	EntityID ecs.EntityID `json:"-"`
	Name     string       `json:"name"`
}

// Location places an entity inside another entity (a room, a container, a
// holder). Indexed by LocationID.
type Location struct {
	EntityID   ecs.EntityID `json:"-"`
	LocationID ecs.EntityID `json:"location_id"`
}

// Target is the entity's current focus. Indexed by TargetID.
type Target struct {
	EntityID ecs.EntityID `json:"-"`
	TargetID ecs.EntityID `json:"target_id"`
}
