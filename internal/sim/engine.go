package sim

import (
	"fmt"
	"time"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/scripting"
	"github.com/tickworld/server/internal/system"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// Options configures an Engine. Catalog is required; everything else has a
// working zero value.
type Options struct {
	Catalog  *data.Catalog
	Clock    coresys.Clock      // default WallClock
	TickRate time.Duration      // reported as Tick.DT
	Scripts  *scripting.Engine  // nil: built-in targeting and prominence
	Sink     system.ArchiveSink // nil: archives stay in memory only
	// WriteTimeout bounds one archive flush. Default 5s.
	WriteTimeout time.Duration
	Log          *zap.Logger
}

// Engine owns one world and the fixed system pipeline that advances it.
// Not safe for concurrent use; drive it from a single goroutine.
type Engine struct {
	world   *world.State
	catalog *data.Catalog
	clock   coresys.Clock
	runner  *coresys.Runner
	persist *system.ArchivePersistenceSystem
	log     *zap.Logger
}

func New(opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("engine: catalog is required")
	}
	if opts.Clock == nil {
		opts.Clock = coresys.WallClock{}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	var (
		predicate system.TargetPredicate = system.CatalogTargeting{}
		scoring   system.ProminenceRule  = system.StatProminence{}
	)
	if opts.Scripts != nil {
		rules := system.NewScriptedRules(opts.Scripts)
		predicate, scoring = rules, rules
	}

	ws := world.NewState()
	log := opts.Log
	runner := coresys.NewRunner(opts.Clock, opts.TickRate, log)
	runner.Register(system.NewObservationResetSystem(ws))
	runner.Register(system.NewDeactivationSystem(ws, log))
	runner.Register(system.NewTargetValidationSystem(ws))
	runner.Register(system.NewActionOptionSystem(ws, opts.Catalog.Actions, predicate, log))
	runner.Register(system.NewActionSystem(ws, opts.Catalog.Actions, log))
	runner.Register(system.NewEventResolutionSystem(ws, log))
	runner.Register(system.NewHPSystem(ws))
	runner.Register(system.NewEPSystem(ws))
	runner.Register(system.NewProminenceSystem(ws, scoring))
	runner.Register(system.NewTraitsAggregationSystem(ws, opts.Catalog.Traits, log))
	runner.Register(system.NewTotalAggregationSystem(ws, opts.Catalog.Baselines, log))

	e := &Engine{
		world:   ws,
		catalog: opts.Catalog,
		clock:   opts.Clock,
		runner:  runner,
		log:     log,
	}
	if opts.Sink != nil {
		e.persist = system.NewArchivePersistenceSystem(ws, opts.Sink, log, opts.WriteTimeout)
		runner.Register(e.persist)
	}
	return e, nil
}

// World exposes the per-kind tables for direct reads and edits.
func (e *Engine) World() *world.State { return e.world }

// Catalog returns the authored templates the engine runs against.
func (e *Engine) Catalog() *data.Catalog { return e.catalog }

// Pipeline lists system names in execution order.
func (e *Engine) Pipeline() []string { return e.runner.Order() }

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 { return e.runner.Ticks() }

func (e *Engine) NewEntity() ecs.EntityID { return e.world.NewEntity() }

func (e *Engine) DeleteEntity(id ecs.EntityID) error { return e.world.DeleteEntity(id) }

func (e *Engine) Activate(id ecs.EntityID) error { return e.world.Activate(id) }

// Deactivate archives and deactivates id right away, stamped with the
// engine clock.
func (e *Engine) Deactivate(id ecs.EntityID) error {
	return e.world.Deactivate(id, e.clock.Now())
}

// ScheduleDeactivation arms the timer that retires id on the first tick at
// or after deadline.
func (e *Engine) ScheduleDeactivation(id ecs.EntityID, deadline time.Time) error {
	return e.world.ScheduleDeactivation(id, deadline)
}

// StartAction starts or queues action for id. The action must exist in the
// catalog.
func (e *Engine) StartAction(id ecs.EntityID, action data.ActionID, target ecs.EntityID) (started bool, err error) {
	if e.catalog.Actions.Get(action) == nil {
		return false, fmt.Errorf("action %d: %w", action, ecs.ErrNotFound)
	}
	return e.world.StartAction(id, action, target)
}

// RunTick runs the whole pipeline once.
func (e *Engine) RunTick() coresys.Tick {
	return e.runner.Tick()
}

// Observations returns the events resolved during the last tick, in
// resolution order.
func (e *Engine) Observations() []event.Event {
	return e.world.ObservedEvents()
}

// Settle runs only the aggregation stage so freshly spawned entities have
// clean stats before their first tick.
func (e *Engine) Settle() {
	e.runner.TickPhase(coresys.PhaseAggregate)
}

// Flush writes pending archives to the sink, if one is configured.
func (e *Engine) Flush() {
	if e.persist != nil {
		e.persist.Flush()
	}
}

// Spawn describes a new entity built from catalog templates.
type Spawn struct {
	Name     string
	Location ecs.EntityID // zero: no location
	Baseline data.BaselineID
	Traits   []data.TraitID
	// HP starts at the aggregated max when zero.
	HP int32
}

// Spawn creates an entity from s with flagged stat caches. Call Settle (or
// run a tick) to aggregate them.
func (e *Engine) Spawn(s Spawn) (ecs.EntityID, error) {
	if s.Baseline != 0 && e.catalog.Baselines.Get(s.Baseline) == nil {
		return 0, fmt.Errorf("baseline %d: %w", s.Baseline, ecs.ErrNotFound)
	}
	for _, t := range s.Traits {
		if e.catalog.Traits.Get(t) == nil {
			return 0, fmt.Errorf("trait %d: %w", t, ecs.ErrNotFound)
		}
	}

	ws := e.world
	id := ws.NewEntity()
	if s.Name != "" {
		ws.Names.Insert(component.Name{EntityID: id, Name: s.Name})
	}
	if !s.Location.IsZero() {
		ws.Locations.Insert(component.Location{EntityID: id, LocationID: s.Location})
	}

	blocks := make([]data.StatBlock, 0, len(s.Traits)+1)
	if b := e.catalog.Baselines.Get(s.Baseline); b != nil {
		blocks = append(blocks, b.Stats)
	}
	for _, t := range s.Traits {
		blocks = append(blocks, e.catalog.Traits.Get(t).Stats)
	}
	total := data.Sum(blocks...)
	hp := s.HP
	if hp == 0 {
		hp = total.MaxHP
	}
	ws.HP.Insert(component.HP{EntityID: id, HP: hp, Max: total.MaxHP})
	ws.EP.Insert(component.EP{EntityID: id, EP: total.MaxEP, Max: total.MaxEP})

	if s.Baseline != 0 {
		ws.SetBaseline(id, s.Baseline)
	}
	for _, t := range s.Traits {
		ws.AddTrait(id, t)
	}
	ws.MarkTraitsDirty(id)
	return id, nil
}
