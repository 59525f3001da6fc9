package system

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/scripting"
	"github.com/tickworld/server/internal/world"
)

// TargetPredicate decides whether actor may use action on target.
type TargetPredicate interface {
	CanTarget(ws *world.State, action *data.Action, actor, target ecs.EntityID) bool
}

// ProminenceRule scores one entity.
type ProminenceRule interface {
	Score(ws *world.State, id ecs.EntityID) int64
}

// CatalogTargeting applies the action's authored targets rule.
type CatalogTargeting struct{}

func (CatalogTargeting) CanTarget(_ *world.State, action *data.Action, actor, target ecs.EntityID) bool {
	switch action.Targets {
	case data.TargetSelf:
		return actor == target
	case data.TargetOther:
		return actor != target
	default:
		return true
	}
}

// StatProminence scores by clean total stats: attack + defense + max_hp/10.
// Entities without a clean total score 0.
type StatProminence struct{}

func (StatProminence) Score(ws *world.State, id ecs.EntityID) int64 {
	stats, ok := ws.TotalStats(id)
	if !ok {
		return 0
	}
	return int64(stats.Attack) + int64(stats.Defense) + int64(stats.MaxHP)/10
}

// ScriptedRules routes both rules through Lua, seeding each call with the
// built-in answer so scripts can refine rather than replace it.
type ScriptedRules struct {
	engine *scripting.Engine
}

func NewScriptedRules(engine *scripting.Engine) *ScriptedRules {
	return &ScriptedRules{engine: engine}
}

func (r *ScriptedRules) CanTarget(ws *world.State, action *data.Action, actor, target ecs.EntityID) bool {
	return r.engine.CanTarget(scripting.TargetContext{
		ActionID: uint32(action.ActionID),
		Rule:     string(action.Targets),
		Actor:    View(ws, actor),
		Target:   View(ws, target),
		Default:  CatalogTargeting{}.CanTarget(ws, action, actor, target),
	})
}

func (r *ScriptedRules) Score(ws *world.State, id ecs.EntityID) int64 {
	return r.engine.CalcProminence(scripting.ProminenceContext{
		Entity:  View(ws, id),
		Default: StatProminence{}.Score(ws, id),
	})
}

// View packs the script-visible state of id. Stats come from the clean
// total aggregate only.
func View(ws *world.State, id ecs.EntityID) scripting.EntityView {
	v := scripting.EntityView{ID: uint64(id)}
	if loc, ok := ws.Locations.Get(id); ok {
		v.HasLocation = true
		v.LocationID = uint64(loc.LocationID)
	}
	if hp, ok := ws.HP.Get(id); ok {
		v.HP, v.MaxHP = hp.HP, hp.Max
	}
	if ep, ok := ws.EP.Get(id); ok {
		v.EP, v.MaxEP = ep.EP, ep.Max
	}
	v.Attack, v.Defense = ws.CombatStats(id)
	if tr, ok := ws.Traits.Get(id); ok {
		v.Traits = len(tr.TraitIDs)
	}
	return v
}
