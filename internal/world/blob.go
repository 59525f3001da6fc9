package world

import (
	"slices"
	"time"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
)

// Blob is the flattened snapshot of an entity: one optional field per
// component kind, set when the entity had a row of that kind.
type Blob struct {
	EntityID   ecs.EntityID `json:"entity_id"`
	ArchivedAt time.Time    `json:"archived_at"`

	Name       *component.Name              `json:"name,omitempty"`
	Location   *component.Location          `json:"location,omitempty"`
	Target     *component.Target            `json:"target,omitempty"`
	HP         *component.HP                `json:"hp,omitempty"`
	EP         *component.EP                `json:"ep,omitempty"`
	Traits     *component.Traits            `json:"traits,omitempty"`
	Baseline   *component.Baseline          `json:"baseline,omitempty"`
	TraitsAgg  *component.TraitsAggregate   `json:"traits_aggregate,omitempty"`
	TotalAgg   *component.TotalAggregate    `json:"total_aggregate,omitempty"`
	TraitsDirt *component.TraitsDirty       `json:"traits_dirty,omitempty"`
	TotalDirt  *component.TotalDirty        `json:"total_dirty,omitempty"`
	Action     *component.ActionState       `json:"action_state,omitempty"`
	Queued     *component.QueuedActionState `json:"queued_action_state,omitempty"`
	Options    *component.ActionOptions     `json:"action_options,omitempty"`
	Prominence *component.Prominence        `json:"prominence,omitempty"`
	Timer      *component.DeactivationTimer `json:"deactivation_timer,omitempty"`
	Equippable *component.Equippable        `json:"equippable,omitempty"`
	Equipped   *component.Equipped          `json:"equipped,omitempty"`
}

// Kinds lists the component kinds present in the blob, in registry order.
func (b Blob) Kinds() []string {
	var kinds []string
	add := func(present bool, name string) {
		if present {
			kinds = append(kinds, name)
		}
	}
	add(b.Name != nil, "name")
	add(b.Location != nil, "location")
	add(b.Target != nil, "target")
	add(b.HP != nil, "hp")
	add(b.EP != nil, "ep")
	add(b.Traits != nil, "traits")
	add(b.Baseline != nil, "baseline")
	add(b.TraitsAgg != nil, "traits_aggregate")
	add(b.TotalAgg != nil, "total_aggregate")
	add(b.TraitsDirt != nil, "traits_dirty")
	add(b.TotalDirt != nil, "total_dirty")
	add(b.Action != nil, "action_state")
	add(b.Queued != nil, "queued_action_state")
	add(b.Options != nil, "action_options")
	add(b.Prominence != nil, "prominence")
	add(b.Timer != nil, "deactivation_timer")
	add(b.Equippable != nil, "equippable")
	add(b.Equipped != nil, "equipped")
	return kinds
}

// Empty reports whether the entity had no rows at all.
func (b Blob) Empty() bool { return len(b.Kinds()) == 0 }

// Snapshot flattens every row of id into a blob without touching the tables.
// List fields are copied so the blob never aliases live rows.
func (s *State) Snapshot(id ecs.EntityID, at time.Time) Blob {
	b := Blob{
		EntityID:   id,
		ArchivedAt: at,
		Name:       pick(s.Names, id),
		Location:   pick(s.Locations, id),
		Target:     pick(s.Targets, id),
		HP:         pick(s.HP, id),
		EP:         pick(s.EP, id),
		Traits:     pick(s.Traits, id),
		Baseline:   pick(s.Baselines, id),
		TraitsAgg:  pick(s.TraitsAgg, id),
		TotalAgg:   pick(s.TotalAgg, id),
		TraitsDirt: pick(s.TraitsDirt, id),
		TotalDirt:  pick(s.TotalDirt, id),
		Action:     pick(s.Actions, id),
		Queued:     pick(s.Queued, id),
		Options:    pick(s.Options, id),
		Prominence: pick(s.Prominence, id),
		Timer:      pick(s.Timers, id),
		Equippable: pick(s.Equippable, id),
		Equipped:   pick(s.Equipped, id),
	}
	if b.Traits != nil {
		b.Traits.TraitIDs = slices.Clone(b.Traits.TraitIDs)
	}
	if b.TraitsAgg != nil {
		b.TraitsAgg.Stats = b.TraitsAgg.Stats.Clone()
	}
	if b.TotalAgg != nil {
		b.TotalAgg.Stats = b.TotalAgg.Stats.Clone()
	}
	if b.Options != nil {
		b.Options.Options = slices.Clone(b.Options.Options)
	}
	return b
}

func pick[T any](t ecs.ComponentTable[T], id ecs.EntityID) *T {
	row, ok := t.Get(id)
	if !ok {
		return nil
	}
	return &row
}

// archive stores b as the single archived blob of its entity.
func (s *State) archive(b Blob) {
	s.Archive.Upsert(b)
	if s.outboxEnabled {
		s.outbox = append(s.outbox, b)
	}
}
