package ecs

import "slices"

// EntityID is an opaque 64-bit identifier. Zero is never allocated and
// ids are never reused once destroyed.
type EntityID uint64

func (id EntityID) IsZero() bool { return id == 0 }

// EntityPool allocates entity ids and tracks the active/inactive partition.
// Every live id is in exactly one of the two sets.
type EntityPool struct {
	next     EntityID
	active   map[EntityID]struct{}
	inactive map[EntityID]struct{}
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		active:   make(map[EntityID]struct{}, 1024),
		inactive: make(map[EntityID]struct{}, 256),
	}
}

// Create allocates a fresh id in the active partition.
func (p *EntityPool) Create() EntityID {
	p.next++
	id := p.next
	p.active[id] = struct{}{}
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.active[id]
	return ok
}

func (p *EntityPool) Inactive(id EntityID) bool {
	_, ok := p.inactive[id]
	return ok
}

// Known reports whether id is in either partition.
func (p *EntityPool) Known(id EntityID) bool {
	return p.Alive(id) || p.Inactive(id)
}

// Activate moves id from the inactive to the active partition.
func (p *EntityPool) Activate(id EntityID) bool {
	if _, ok := p.inactive[id]; !ok {
		return false
	}
	delete(p.inactive, id)
	p.active[id] = struct{}{}
	return true
}

// Deactivate moves id from the active to the inactive partition.
func (p *EntityPool) Deactivate(id EntityID) bool {
	if _, ok := p.active[id]; !ok {
		return false
	}
	delete(p.active, id)
	p.inactive[id] = struct{}{}
	return true
}

// Destroy forgets id in whichever partition holds it.
func (p *EntityPool) Destroy(id EntityID) bool {
	if _, ok := p.active[id]; ok {
		delete(p.active, id)
		return true
	}
	if _, ok := p.inactive[id]; ok {
		delete(p.inactive, id)
		return true
	}
	return false
}

// ActiveIDs returns the active partition in ascending id order.
func (p *EntityPool) ActiveIDs() []EntityID {
	ids := make([]EntityID, 0, len(p.active))
	for id := range p.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (p *EntityPool) Len() int { return len(p.active) + len(p.inactive) }
