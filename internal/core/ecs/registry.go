package ecs

// Registry tracks all entity-keyed tables and supports bulk cleanup on delete.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 24),
	}
}

// Register adds a table to the registry. Registration order is the order
// RemoveAll visits tables in.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered table and
// returns the names of the tables that held a row.
func (r *Registry) RemoveAll(id EntityID) []string {
	var removed []string
	for _, s := range r.stores {
		if s.Remove(id) {
			removed = append(removed, s.Name())
		}
	}
	return removed
}
