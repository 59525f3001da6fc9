package system

import "time"

// Phase defines execution ordering within a single tick. The pipeline is a
// fixed total order: phases ascend, and systems sharing a phase run in
// registration order.
type Phase int

const (
	PhaseReset     Phase = iota // 0: truncate the observation log
	PhaseLifecycle              // 1: deactivation deadlines
	PhaseValidate               // 2: drop stale relations
	PhaseOptions                // 3: recompute (action, target) options
	PhaseAction                 // 4: advance action cursors, stage events
	PhaseResolve                // 5: resolve Early, Middle, Late
	PhaseVitals                 // 6: hp / ep clamping
	PhaseScore                  // 7: prominence
	PhaseAggregate              // 8: dirty-flag stat caches
	PhasePersist                // 9: archive flush
)

var phaseNames = [...]string{
	"reset", "lifecycle", "validate", "options", "action",
	"resolve", "vitals", "score", "aggregate", "persist",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Tick is the explicit per-tick context handed to every system.
type Tick struct {
	Number uint64        // 1-based tick counter
	Now    time.Time     // tick timestamp from the Clock
	DT     time.Duration // configured interval
}

// System is the interface every pipeline system implements.
type System interface {
	Name() string
	Phase() Phase
	Update(t Tick)
}

// Clock yields the current tick timestamp.
type Clock interface {
	Now() time.Time
}

// WallClock reads time.Now.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }
