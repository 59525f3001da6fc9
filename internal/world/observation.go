package world

import "github.com/tickworld/server/internal/core/event"

// Observation is an archived copy of a resolved event. Seq is the
// resolution order within the world.
type Observation struct {
	Seq   uint64
	Event event.Event
}

// Observe appends a copy of e to the observation log.
func (s *State) Observe(e event.Event) Observation {
	s.nextObserved++
	o := Observation{Seq: s.nextObserved, Event: e}
	s.Observations.Insert(o)
	return o
}

// ObservedEvents returns the log in resolution order.
func (s *State) ObservedEvents() []event.Event {
	rows := s.Observations.Iterate()
	out := make([]event.Event, len(rows))
	for i, o := range rows {
		out[i] = o.Event
	}
	return out
}

// ResetObservations truncates the log.
func (s *State) ResetObservations() {
	s.Observations.Clear()
}
