package world

import (
	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
)

// State is the whole simulated world: entity registry, one table per
// component kind, the observation log and the deactivation archive.
// Accessed only from the tick loop goroutine, no locks needed.
type State struct {
	*ecs.World

	Names      ecs.ComponentTable[component.Name]
	Locations  ecs.ComponentTable[component.Location]
	Targets    ecs.ComponentTable[component.Target]
	HP         ecs.ComponentTable[component.HP]
	EP         ecs.ComponentTable[component.EP]
	Traits     ecs.ComponentTable[component.Traits]
	Baselines  ecs.ComponentTable[component.Baseline]
	TraitsAgg  ecs.ComponentTable[component.TraitsAggregate]
	TotalAgg   ecs.ComponentTable[component.TotalAggregate]
	TraitsDirt ecs.ComponentTable[component.TraitsDirty]
	TotalDirt  ecs.ComponentTable[component.TotalDirty]
	Actions    ecs.ComponentTable[component.ActionState]
	Queued     ecs.ComponentTable[component.QueuedActionState]
	Options    ecs.ComponentTable[component.ActionOptions]
	Prominence ecs.ComponentTable[component.Prominence]
	Timers     ecs.ComponentTable[component.DeactivationTimer]
	Equippable ecs.ComponentTable[component.Equippable]
	Equipped   ecs.ComponentTable[component.Equipped]

	// Observations is the resolved-event log of the current tick, keyed by
	// resolution sequence.
	Observations *ecs.Table[uint64, Observation]
	// Archive holds one blob per deactivated entity. Not part of the
	// registry: it outlives the entity.
	Archive *ecs.Table[ecs.EntityID, Blob]

	// Events is the staging queue filled by the action system and drained
	// by event resolution within the same tick.
	Events *event.Queue

	nextEventID  uint64
	nextObserved uint64

	outboxEnabled bool
	outbox        []Blob
}

func NewState() *State {
	s := &State{
		World: ecs.NewWorld(),

		Names: ecs.NewComponentTable("name", func(c component.Name) ecs.EntityID { return c.EntityID }),
		Locations: ecs.NewComponentTable("location", func(c component.Location) ecs.EntityID { return c.EntityID }).
			Indexed(func(c component.Location) ecs.EntityID { return c.LocationID }),
		Targets: ecs.NewComponentTable("target", func(c component.Target) ecs.EntityID { return c.EntityID }).
			Indexed(func(c component.Target) ecs.EntityID { return c.TargetID }),
		HP:         ecs.NewComponentTable("hp", func(c component.HP) ecs.EntityID { return c.EntityID }),
		EP:         ecs.NewComponentTable("ep", func(c component.EP) ecs.EntityID { return c.EntityID }),
		Traits:     ecs.NewComponentTable("traits", func(c component.Traits) ecs.EntityID { return c.EntityID }),
		Baselines:  ecs.NewComponentTable("baseline", func(c component.Baseline) ecs.EntityID { return c.EntityID }),
		TraitsAgg:  ecs.NewComponentTable("traits_aggregate", func(c component.TraitsAggregate) ecs.EntityID { return c.EntityID }),
		TotalAgg:   ecs.NewComponentTable("total_aggregate", func(c component.TotalAggregate) ecs.EntityID { return c.EntityID }),
		TraitsDirt: ecs.NewComponentTable("traits_dirty", func(c component.TraitsDirty) ecs.EntityID { return c.EntityID }),
		TotalDirt:  ecs.NewComponentTable("total_dirty", func(c component.TotalDirty) ecs.EntityID { return c.EntityID }),
		Actions:    ecs.NewComponentTable("action_state", func(c component.ActionState) ecs.EntityID { return c.EntityID }),
		Queued:     ecs.NewComponentTable("queued_action_state", func(c component.QueuedActionState) ecs.EntityID { return c.EntityID }),
		Options:    ecs.NewComponentTable("action_options", func(c component.ActionOptions) ecs.EntityID { return c.EntityID }),
		Prominence: ecs.NewComponentTable("prominence", func(c component.Prominence) ecs.EntityID { return c.EntityID }),
		Timers:     ecs.NewComponentTable("deactivation_timer", func(c component.DeactivationTimer) ecs.EntityID { return c.EntityID }),
		Equippable: ecs.NewComponentTable("equippable", func(c component.Equippable) ecs.EntityID { return c.EntityID }),
		Equipped: ecs.NewComponentTable("equipped", func(c component.Equipped) ecs.EntityID { return c.EntityID }).
			Indexed(func(c component.Equipped) ecs.EntityID { return c.HolderID }),

		Observations: ecs.NewTable[uint64, Observation]("observation", func(o Observation) uint64 { return o.Seq }),
		Archive:      ecs.NewTable[ecs.EntityID, Blob]("archive", func(b Blob) ecs.EntityID { return b.EntityID }),
		Events:       event.NewQueue(),
	}

	reg := s.Registry()
	for _, t := range []ecs.Removable{
		s.Names, s.Locations, s.Targets, s.HP, s.EP,
		s.Traits, s.Baselines, s.TraitsAgg, s.TotalAgg, s.TraitsDirt, s.TotalDirt,
		s.Actions, s.Queued, s.Options, s.Prominence, s.Timers,
		s.Equippable, s.Equipped,
	} {
		reg.Register(t)
	}
	return s
}

// NextEventID allocates a world-unique event id.
func (s *State) NextEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

// EnableArchiveOutbox makes every archived blob also land in the outbox
// drained by the archive persistence system.
func (s *State) EnableArchiveOutbox() {
	s.outboxEnabled = true
}

// DrainOutbox hands over the blobs archived since the last drain.
func (s *State) DrainOutbox() []Blob {
	out := s.outbox
	s.outbox = nil
	return out
}

// RequeueOutbox puts blobs back in front of the outbox after a failed write.
func (s *State) RequeueOutbox(blobs []Blob) {
	s.outbox = append(blobs, s.outbox...)
}
