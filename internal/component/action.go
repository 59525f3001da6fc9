package component

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
)

// ActionState is the cursor of the action an entity is executing.
// Sequence is the index of the next step to resolve.
type ActionState struct {
	EntityID ecs.EntityID  `json:"-"`
	ActionID data.ActionID `json:"action_id"`
	TargetID ecs.EntityID  `json:"target_id"`
	Sequence uint32        `json:"sequence"`
}

// QueuedActionState holds the next action to start (FIFO depth 1).
type QueuedActionState struct {
	EntityID ecs.EntityID  `json:"-"`
	ActionID data.ActionID `json:"action_id"`
	TargetID ecs.EntityID  `json:"target_id"`
}

// ActionOption is one valid (action, target) pair.
type ActionOption struct {
	ActionID data.ActionID `json:"action_id"`
	TargetID ecs.EntityID  `json:"target_id"`
}

// ActionOptions is the recomputed option list of an entity.
type ActionOptions struct {
	EntityID ecs.EntityID   `json:"-"`
	Options  []ActionOption `json:"options"`
}
