package main

import (
	"time"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/sim"
)

// Catalog ids used by the demo scene; see data/yaml.
const (
	actionStrike  data.ActionID   = 1
	actionPickUp  data.ActionID   = 7
	actionEquip   data.ActionID   = 9
	traitBrawler  data.TraitID    = 1
	traitMedic    data.TraitID    = 2
	traitTraveler data.TraitID    = 3
	traitSword    data.TraitID    = 50
	baselineHuman data.BaselineID = 1
	baselineRat   data.BaselineID = 2
)

// seedDemo builds a cellar with a fighter, a sword on the floor and a pack
// of rats that retire after a minute.
func seedDemo(eng *sim.Engine) error {
	ws := eng.World()
	cellar := eng.NewEntity()
	ws.Names.Insert(component.Name{EntityID: cellar, Name: "cellar"})

	hero, err := eng.Spawn(sim.Spawn{
		Name:     "hero",
		Location: cellar,
		Baseline: baselineHuman,
		Traits:   []data.TraitID{traitBrawler, traitMedic, traitTraveler},
	})
	if err != nil {
		return err
	}

	sword := eng.NewEntity()
	ws.Names.Insert(component.Name{EntityID: sword, Name: "iron sword"})
	ws.Locations.Insert(component.Location{EntityID: sword, LocationID: cellar})
	ws.Equippable.Insert(component.Equippable{EntityID: sword, TraitID: traitSword})

	var rats []ecs.EntityID
	for _, name := range []string{"grey rat", "brown rat", "rat king"} {
		id, err := eng.Spawn(sim.Spawn{Name: name, Location: cellar, Baseline: baselineRat})
		if err != nil {
			return err
		}
		if err := eng.ScheduleDeactivation(id, time.Now().Add(time.Minute)); err != nil {
			return err
		}
		rats = append(rats, id)
	}

	ws.Targets.Insert(component.Target{EntityID: hero, TargetID: rats[0]})
	for _, rat := range rats {
		ws.Targets.Insert(component.Target{EntityID: rat, TargetID: hero})
		if _, err := eng.StartAction(rat, actionStrike, hero); err != nil {
			return err
		}
	}

	if _, err := eng.StartAction(hero, actionPickUp, sword); err != nil {
		return err
	}
	if _, err := eng.StartAction(hero, actionEquip, sword); err != nil {
		return err
	}
	return nil
}
