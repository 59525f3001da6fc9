package system

import (
	"fmt"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// EventResolutionSystem drains the staged events Early, then Middle, then
// Late, applying each one's mutation and archiving a copy to the observation
// log. Events that cannot apply are skipped without being archived.
// Phase 5 (Resolve).
type EventResolutionSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewEventResolutionSystem(ws *world.State, log *zap.Logger) *EventResolutionSystem {
	return &EventResolutionSystem{world: ws, log: log}
}

func (s *EventResolutionSystem) Name() string          { return "event_resolution" }
func (s *EventResolutionSystem) Phase() coresys.Phase { return coresys.PhaseResolve }

func (s *EventResolutionSystem) Update(_ coresys.Tick) {
	s.world.Events.Drain(func(p event.Phase, e event.Event) {
		resolved, err := s.resolve(e)
		if err != nil {
			s.log.Debug("event skipped",
				zap.Uint64("event", e.ID),
				zap.Stringer("kind", e.Kind),
				zap.Stringer("phase", p),
				zap.Uint64("owner", uint64(e.Owner)),
				zap.Uint64("target", uint64(e.Target)),
				zap.Error(err),
			)
			return
		}
		s.world.Observe(resolved)
	})
}

// EffectiveDamage is max(0, base + attack - defense).
func EffectiveDamage(base, attack, defense int32) int32 {
	return max(0, base+attack-defense)
}

func (s *EventResolutionSystem) resolve(e event.Event) (event.Event, error) {
	ws := s.world
	switch e.Kind {
	case event.KindStartAction:
		return e, nil

	case event.KindBuff:
		if !ws.Alive(e.Target) {
			return e, fmt.Errorf("buff target %d: %w", e.Target, ecs.ErrNotFound)
		}
		ws.AddTrait(e.Target, data.TraitID(e.TraitID))
		return e, nil

	case event.KindAttack:
		hp, err := ws.HP.Must(e.Target)
		if err != nil {
			return e, err
		}
		attack, _ := ws.CombatStats(e.Owner)
		_, defense := ws.CombatStats(e.Target)
		e.Amount = EffectiveDamage(e.Amount, attack, defense)
		hp.Damage += e.Amount
		_, err = ws.HP.Update(hp)
		return e, err

	case event.KindHeal:
		hp, err := ws.HP.Must(e.Target)
		if err != nil {
			return e, err
		}
		hp.Healing += e.Amount
		_, err = ws.HP.Update(hp)
		return e, err

	case event.KindRest:
		ep, err := ws.EP.Must(e.Target)
		if err != nil {
			return e, err
		}
		ep.EP += e.Amount
		_, err = ws.EP.Update(ep)
		return e, err

	case event.KindMove:
		if !ws.Alive(e.Target) || e.Target == e.Owner {
			return e, fmt.Errorf("move destination %d: %w", e.Target, ecs.ErrNotFound)
		}
		ws.Locations.Upsert(component.Location{EntityID: e.Owner, LocationID: e.Target})
		return e, nil

	case event.KindTake:
		if e.Target == e.Owner || !ws.SameLocation(e.Owner, e.Target) {
			return e, fmt.Errorf("take %d: not within reach: %w", e.Target, ecs.ErrInvariantViolation)
		}
		ws.Locations.Upsert(component.Location{EntityID: e.Target, LocationID: e.Owner})
		return e, nil

	case event.KindDrop:
		if !s.holds(e.Owner, e.Target) {
			return e, fmt.Errorf("drop %d: not held: %w", e.Target, ecs.ErrInvariantViolation)
		}
		if ws.Equipped.Has(e.Target) {
			return e, fmt.Errorf("drop %d: still equipped: %w", e.Target, ecs.ErrInvariantViolation)
		}
		here, err := ws.Locations.Must(e.Owner)
		if err != nil {
			return e, err
		}
		ws.Locations.Upsert(component.Location{EntityID: e.Target, LocationID: here.LocationID})
		return e, nil

	case event.KindEquip:
		if !s.holds(e.Owner, e.Target) {
			return e, fmt.Errorf("equip %d: not held: %w", e.Target, ecs.ErrInvariantViolation)
		}
		item, err := ws.Equippable.Must(e.Target)
		if err != nil {
			return e, err
		}
		if _, err := ws.Equipped.Insert(component.Equipped{EntityID: e.Target, HolderID: e.Owner}); err != nil {
			return e, err
		}
		ws.AddTrait(e.Owner, item.TraitID)
		e.TraitID = uint32(item.TraitID)
		return e, nil

	case event.KindUnequip:
		eq, err := ws.Equipped.Must(e.Target)
		if err != nil {
			return e, err
		}
		if eq.HolderID != e.Owner {
			return e, fmt.Errorf("unequip %d: held by %d: %w", e.Target, eq.HolderID, ecs.ErrInvariantViolation)
		}
		ws.Equipped.Delete(e.Target)
		if item, ok := ws.Equippable.Get(e.Target); ok {
			ws.RemoveTrait(e.Owner, item.TraitID)
			e.TraitID = uint32(item.TraitID)
		}
		return e, nil
	}
	return e, fmt.Errorf("event kind %s: %w", e.Kind, ecs.ErrInvariantViolation)
}

func (s *EventResolutionSystem) holds(owner, item ecs.EntityID) bool {
	loc, ok := s.world.Locations.Get(item)
	return ok && loc.LocationID == owner
}
