package component

import "github.com/tickworld/server/internal/core/ecs"

// HP holds hit points plus the per-tick accumulators filled by event
// resolution and folded in by the hp system.
type HP struct {
	EntityID ecs.EntityID `json:"-"`
	HP       int32        `json:"hp"`
	Max      int32        `json:"max"`
	Damage   int32        `json:"damage"`
	Healing  int32        `json:"healing"`
}

// EP is the resource pool.
type EP struct {
	EntityID ecs.EntityID `json:"-"`
	EP       int32        `json:"ep"`
	Max      int32        `json:"max"`
}
