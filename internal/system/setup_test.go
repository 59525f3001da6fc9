package system

import (
	"time"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func tickAt(n uint64) coresys.Tick {
	return coresys.Tick{Number: n, Now: testEpoch.Add(time.Duration(n) * time.Second), DT: time.Second}
}

const (
	actStrike  data.ActionID = 1
	actFlurry  data.ActionID = 2
	actMend    data.ActionID = 3
	actWarCry  data.ActionID = 4
	actWalk    data.ActionID = 6
	actCharge  data.ActionID = 11
	actEmpty   data.ActionID = 12
	traitBrawl data.TraitID  = 1
	traitSword data.TraitID  = 50
	traitCry   data.TraitID  = 100
)

func testCatalog() *data.Catalog {
	return &data.Catalog{
		Actions: data.NewActionTable(
			data.Action{ActionID: actStrike, Name: "strike", Targets: data.TargetOther, Steps: []data.EffectStep{
				{Kind: event.KindAttack, Amount: 10},
			}},
			data.Action{ActionID: actFlurry, Name: "flurry", Targets: data.TargetOther, Steps: []data.EffectStep{
				{Kind: event.KindAttack, Amount: 4},
				{Kind: event.KindAttack, Amount: 4},
				{Kind: event.KindAttack, Amount: 6},
			}},
			data.Action{ActionID: actMend, Name: "mend", Targets: data.TargetAny, Steps: []data.EffectStep{
				{Kind: event.KindHeal, Amount: 15},
			}},
			data.Action{ActionID: actWarCry, Name: "war_cry", Targets: data.TargetSelf, Steps: []data.EffectStep{
				{Kind: event.KindBuff, TraitID: traitCry, Self: true},
			}},
			data.Action{ActionID: actWalk, Name: "walk", Targets: data.TargetOther, Steps: []data.EffectStep{
				{Kind: event.KindMove},
			}},
			data.Action{ActionID: actCharge, Name: "charge", Targets: data.TargetOther, Steps: []data.EffectStep{
				{Kind: event.KindRest, Amount: 1, Self: true},
				{Kind: event.KindAttack, Amount: 12},
			}},
			data.Action{ActionID: actEmpty, Name: "noop", Targets: data.TargetAny},
		),
		Traits: data.NewTraitTable(
			data.Template{ID: uint32(traitBrawl), Name: "brawler", Stats: data.StatBlock{Attack: 4, MaxHP: 10, Actions: []data.ActionID{actStrike, actMend}}},
			data.Template{ID: uint32(traitSword), Name: "sword", Stats: data.StatBlock{Attack: 6, Appearances: []data.AppearanceID{500}}},
			data.Template{ID: uint32(traitCry), Name: "war_cry", Stats: data.StatBlock{Attack: 2}},
		),
		Baselines: data.NewBaselineTable(
			data.Template{ID: 1, Name: "human", Stats: data.StatBlock{Attack: 1, MaxHP: 50, Defense: 1, MaxEP: 20, Actions: []data.ActionID{actWarCry}}},
		),
	}
}

// spawn creates an entity in room with hp/ep rows and a fixed clean total.
func spawn(ws *world.State, room ecs.EntityID, hp int32, stats data.StatBlock) ecs.EntityID {
	id := ws.NewEntity()
	ws.Locations.Insert(component.Location{EntityID: id, LocationID: room})
	ws.HP.Insert(component.HP{EntityID: id, HP: hp, Max: max(hp, stats.MaxHP)})
	ws.EP.Insert(component.EP{EntityID: id, EP: 0, Max: 20})
	ws.TotalAgg.Insert(component.TotalAggregate{EntityID: id, Stats: stats})
	return id
}

func nopLog() *zap.Logger { return zap.NewNop() }
