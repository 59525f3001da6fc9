package component

import (
	"time"

	"github.com/tickworld/server/internal/core/ecs"
)

// DeactivationTimer deletes and archives the entity once At has passed.
type DeactivationTimer struct {
	EntityID ecs.EntityID `json:"-"`
	At       time.Time    `json:"at"`
}

// Prominence is a per-tick score from the scripted scoring rule.
type Prominence struct {
	EntityID ecs.EntityID `json:"-"`
	Score    int64        `json:"score"`
}
