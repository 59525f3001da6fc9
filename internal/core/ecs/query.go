package ecs

// Each2 calls fn for every entity that has a row in both tables, in
// ascending entity order. It walks the smaller table and probes the larger.
// fn receives copies; writes go back through the tables.
func Each2[A, B any](ta ComponentTable[A], tb ComponentTable[B], fn func(EntityID, A, B)) {
	if ta.Len() <= tb.Len() {
		for _, id := range ta.Keys() {
			a, _ := ta.Get(id)
			if b, ok := tb.Get(id); ok {
				fn(id, a, b)
			}
		}
		return
	}
	for _, id := range tb.Keys() {
		b, _ := tb.Get(id)
		if a, ok := ta.Get(id); ok {
			fn(id, a, b)
		}
	}
}

// Without returns the keys of ta that have no row in tb, in ascending order.
func Without[A, B any](ta ComponentTable[A], tb ComponentTable[B]) []EntityID {
	out := make([]EntityID, 0, ta.Len())
	for _, id := range ta.Keys() {
		if !tb.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
