package system

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Runner executes systems in phase order each tick.
type Runner struct {
	systems []System
	sorted  bool
	clock   Clock
	dt      time.Duration
	ticks   uint64
	log     *zap.Logger
}

func NewRunner(clock Clock, dt time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
		clock:   clock,
		dt:      dt,
		log:     log,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs the full pipeline once and returns the context it ran with.
// A panicking system is logged and skipped; the remaining systems still run.
func (r *Runner) Tick() Tick {
	r.ensureSorted()
	r.ticks++
	t := Tick{Number: r.ticks, Now: r.clock.Now(), DT: r.dt}
	for _, s := range r.systems {
		r.run(s, t)
	}
	return t
}

// TickPhase runs only the systems of one phase without advancing the tick
// counter. Used by tooling that needs one stage in isolation.
func (r *Runner) TickPhase(phase Phase) {
	r.ensureSorted()
	t := Tick{Number: r.ticks, Now: r.clock.Now(), DT: r.dt}
	for _, s := range r.systems {
		if s.Phase() == phase {
			r.run(s, t)
		}
	}
}

// Order lists system names in execution order.
func (r *Runner) Order() []string {
	r.ensureSorted()
	names := make([]string, len(r.systems))
	for i, s := range r.systems {
		names[i] = s.Name()
	}
	return names
}

func (r *Runner) Ticks() uint64 { return r.ticks }

func (r *Runner) run(s System, t Tick) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("system panicked",
				zap.String("system", s.Name()),
				zap.Stringer("phase", s.Phase()),
				zap.Uint64("tick", t.Number),
				zap.String("panic", fmt.Sprint(rec)),
			)
		}
	}()
	s.Update(t)
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
