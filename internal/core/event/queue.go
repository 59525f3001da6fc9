package event

// Phase is the fixed resolution bucket of an event.
type Phase uint8

const (
	PhaseEarly Phase = iota
	PhaseMiddle
	PhaseLate

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseEarly:
		return "early"
	case PhaseMiddle:
		return "middle"
	case PhaseLate:
		return "late"
	}
	return "unknown"
}

// Classify returns the phase an event kind resolves in. Buffs land first so
// their mutations are in place before damage and healing; everything that is
// neither buff, attack nor heal resolves last.
func Classify(k Kind) Phase {
	switch k {
	case KindBuff:
		return PhaseEarly
	case KindAttack, KindHeal:
		return PhaseMiddle
	default:
		return PhaseLate
	}
}

// Queue stages events into three ordered buffers for one tick.
// Not safe for concurrent use; owned by the tick loop.
type Queue struct {
	buffers [phaseCount][]Event
}

func NewQueue() *Queue {
	q := &Queue{}
	for i := range q.buffers {
		q.buffers[i] = make([]Event, 0, 64)
	}
	return q
}

// Push classifies e and appends it to its phase buffer.
func (q *Queue) Push(e Event) Phase {
	p := Classify(e.Kind)
	q.buffers[p] = append(q.buffers[p], e)
	return p
}

func (q *Queue) Len() int {
	n := 0
	for _, b := range q.buffers {
		n += len(b)
	}
	return n
}

func (q *Queue) LenPhase(p Phase) int { return len(q.buffers[p]) }

// Pending returns a copy of the staged events of one phase, FIFO.
func (q *Queue) Pending(p Phase) []Event {
	return append([]Event(nil), q.buffers[p]...)
}

// Drain resolves Early fully, then Middle, then Late, each FIFO. Events pushed
// by fn into the running or a later phase are resolved in this drain; events
// pushed into a phase that has already finished stay queued for the next one.
// Each event leaves the queue before fn sees it, so a panicking fn never
// gets the same event twice.
func (q *Queue) Drain(fn func(Phase, Event)) int {
	n := 0
	for p := PhaseEarly; p < phaseCount; p++ {
		for len(q.buffers[p]) > 0 {
			e := q.buffers[p][0]
			q.buffers[p] = q.buffers[p][1:]
			n++
			fn(p, e)
		}
		q.buffers[p] = q.buffers[p][:0]
	}
	return n
}
