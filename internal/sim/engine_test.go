package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/world"
)

// stepClock advances one second per reading.
type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

type memSink struct{ blobs []world.Blob }

func (s *memSink) SaveBlobs(_ context.Context, blobs []world.Blob) error {
	s.blobs = append(s.blobs, blobs...)
	return nil
}

func newTestEngine(t *testing.T, sink *memSink) *Engine {
	t.Helper()
	cat, err := data.LoadCatalog("../../data/yaml/actions.yaml", "../../data/yaml/traits.yaml", "../../data/yaml/baselines.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	opts := Options{
		Catalog:  cat,
		Clock:    &stepClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		TickRate: time.Second,
	}
	if sink != nil {
		opts.Sink = sink
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

// arena spawns a human brawler and a rat sharing one room, hero targeting rat.
func arena(t *testing.T, e *Engine) (room, hero, rat ecs.EntityID) {
	t.Helper()
	room = e.NewEntity()
	var err error
	hero, err = e.Spawn(Spawn{Name: "hero", Location: room, Baseline: 1, Traits: []data.TraitID{1}})
	if err != nil {
		t.Fatalf("spawn hero: %v", err)
	}
	rat, err = e.Spawn(Spawn{Name: "rat", Location: room, Baseline: 2})
	if err != nil {
		t.Fatalf("spawn rat: %v", err)
	}
	e.World().Targets.Insert(component.Target{EntityID: hero, TargetID: rat})
	e.Settle()
	return room, hero, rat
}

func TestPipelineOrder(t *testing.T) {
	want := []string{
		"observation_reset", "entity_deactivation", "target_validation",
		"action_option", "action", "event_resolution", "hp", "ep",
		"entity_prominence", "traits_aggregation", "total_aggregation",
	}
	if got := newTestEngine(t, nil).Pipeline(); !reflect.DeepEqual(got, want) {
		t.Fatalf("pipeline %v, want %v", got, want)
	}
	withDB := newTestEngine(t, &memSink{}).Pipeline()
	if withDB[len(withDB)-1] != "archive_persistence" {
		t.Fatalf("expected archive persistence last, got %v", withDB)
	}
}

func TestSpawnSettlesStats(t *testing.T) {
	e := newTestEngine(t, nil)
	_, hero, rat := arena(t, e)

	stats, ok := e.World().TotalStats(hero)
	if !ok || stats.Attack != 5 || stats.Defense != 1 || stats.MaxHP != 60 {
		t.Fatalf("unexpected hero total %+v (clean=%v)", stats, ok)
	}
	hp, _ := e.World().HP.Get(rat)
	if hp.HP != 12 || hp.Max != 12 {
		t.Fatalf("expected rat at full health, got %+v", hp)
	}
	if _, err := e.Spawn(Spawn{Baseline: 99}); !errors.Is(err, ecs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown baseline, got %v", err)
	}
}

func TestStrikeResolvesWithinOneTick(t *testing.T) {
	e := newTestEngine(t, nil)
	_, hero, rat := arena(t, e)

	opts, ok := e.World().Options.Get(hero)
	if ok {
		t.Fatalf("options are only built by a tick, got %+v", opts)
	}
	if _, err := e.StartAction(hero, 1, rat); err != nil {
		t.Fatalf("start strike: %v", err)
	}
	tick := e.RunTick()
	if tick.Number != 1 {
		t.Fatalf("expected tick 1, got %d", tick.Number)
	}

	obs := e.Observations()
	if len(obs) != 1 || obs[0].Kind != event.KindAttack || obs[0].Amount != 15 {
		t.Fatalf("expected one attack for 15, got %+v", obs)
	}
	hp, _ := e.World().HP.Get(rat)
	if hp.HP != 0 || hp.Damage != 0 {
		t.Fatalf("expected rat at 0 hp with folded damage, got %+v", hp)
	}
	if e.World().Actions.Has(hero) {
		t.Fatal("single-step action must be gone after one tick")
	}

	opts, _ = e.World().Options.Get(hero)
	if !containsOption(opts.Options, 1, rat) || !containsOption(opts.Options, 4, hero) {
		t.Fatalf("expected strike on rat and war cry on self, got %+v", opts.Options)
	}

	e.RunTick()
	if len(e.Observations()) != 0 {
		t.Fatalf("expected empty log on an idle tick, got %+v", e.Observations())
	}
}

func TestBuffAppliesOnNextTick(t *testing.T) {
	e := newTestEngine(t, nil)
	_, hero, rat := arena(t, e)
	e.World().HP.Update(component.HP{EntityID: rat, HP: 12, Max: 12})

	if _, err := e.StartAction(hero, 11, rat); err != nil {
		t.Fatalf("start charge: %v", err)
	}
	e.RunTick()
	if obs := e.Observations(); len(obs) != 1 || obs[0].Kind != event.KindBuff {
		t.Fatalf("expected the buff step first, got %+v", obs)
	}
	if a, _ := e.World().CombatStats(hero); a != 6 {
		t.Fatalf("expected momentum aggregated by end of tick, attack %d", a)
	}

	e.RunTick()
	obs := e.Observations()
	if len(obs) != 1 || obs[0].Kind != event.KindAttack || obs[0].Amount != 12+6 {
		t.Fatalf("expected buffed attack for 18, got %+v", obs)
	}
}

func TestScheduledDeactivationArchivesOnce(t *testing.T) {
	sink := &memSink{}
	e := newTestEngine(t, sink)
	_, hero, rat := arena(t, e)

	if err := e.ScheduleDeactivation(rat, time.Time{}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	e.RunTick()

	ws := e.World()
	if ws.Pool().Known(rat) || ws.Targets.Has(hero) {
		t.Fatal("expected rat deleted along with references to it")
	}
	if len(sink.blobs) != 1 || sink.blobs[0].EntityID != rat || sink.blobs[0].Name.Name != "rat" {
		t.Fatalf("expected one persisted rat blob, got %+v", sink.blobs)
	}
	if sink.blobs[0].Timer != nil {
		t.Fatal("timer row must not be archived")
	}

	e.RunTick()
	if len(sink.blobs) != 1 {
		t.Fatalf("expected no further writes, got %d", len(sink.blobs))
	}
}

func TestImmediateDeactivateAndActivate(t *testing.T) {
	sink := &memSink{}
	e := newTestEngine(t, sink)
	_, hero, _ := arena(t, e)

	if err := e.Deactivate(hero); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	e.Flush()
	if len(sink.blobs) != 1 || sink.blobs[0].EntityID != hero {
		t.Fatalf("expected hero blob flushed, got %+v", sink.blobs)
	}
	if _, err := e.StartAction(hero, 4, hero); !errors.Is(err, ecs.ErrNotFound) {
		t.Fatalf("inactive entity must not start actions, got %v", err)
	}
	if err := e.Activate(hero); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !e.World().Alive(hero) {
		t.Fatal("expected hero active again")
	}
	if err := e.DeleteEntity(hero); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestStartActionRejectsUnknownAction(t *testing.T) {
	e := newTestEngine(t, nil)
	_, hero, rat := arena(t, e)
	if _, err := e.StartAction(hero, 404, rat); !errors.Is(err, ecs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func containsOption(opts []component.ActionOption, action data.ActionID, target ecs.EntityID) bool {
	for _, o := range opts {
		if o.ActionID == action && o.TargetID == target {
			return true
		}
	}
	return false
}
