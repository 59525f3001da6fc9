package component

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
)

// Equippable marks an item that grants TraitID to its holder while equipped.
type Equippable struct {
	EntityID ecs.EntityID `json:"-"`
	TraitID  data.TraitID `json:"trait_id"`
}

// Equipped records who has the item equipped. Indexed by HolderID.
type Equipped struct {
	EntityID ecs.EntityID `json:"-"`
	HolderID ecs.EntityID `json:"holder_id"`
}
