package component

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
)

// Traits lists the trait templates applied to an entity. Whoever changes the
// list must also insert TraitsDirty.
type Traits struct {
	EntityID ecs.EntityID   `json:"-"`
	TraitIDs []data.TraitID `json:"trait_ids"`
}

// Baseline assigns a baseline template. Whoever changes it must also insert
// TotalDirty.
type Baseline struct {
	EntityID   ecs.EntityID    `json:"-"`
	BaselineID data.BaselineID `json:"baseline_id"`
}

// TraitsAggregate caches the sum of the entity's trait blocks.
type TraitsAggregate struct {
	EntityID ecs.EntityID   `json:"-"`
	Stats    data.StatBlock `json:"stats"`
}

// TotalAggregate caches baseline + traits aggregate. Not to be read while
// TotalDirty exists for the entity.
type TotalAggregate struct {
	EntityID ecs.EntityID   `json:"-"`
	Stats    data.StatBlock `json:"stats"`
}

// TraitsDirty marks TraitsAggregate stale.
type TraitsDirty struct {
	EntityID ecs.EntityID `json:"-"`
}

// TotalDirty marks TotalAggregate stale.
type TotalDirty struct {
	EntityID ecs.EntityID `json:"-"`
}
