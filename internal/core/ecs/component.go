package ecs

import (
	"cmp"
	"fmt"
	"slices"
)

// Removable is implemented by all entity-keyed tables so the Registry can
// bulk-remove an entity's rows from every table on delete.
type Removable interface {
	Name() string
	Remove(id EntityID) bool
}

// Table is a generic keyed row store. Rows are values: callers Get, modify
// the copy, then Update. At most one row exists per primary key.
//
// An optional secondary index maps an EntityID extracted from each row to the
// set of primary keys carrying it ("all entities at location X").
type Table[K cmp.Ordered, T any] struct {
	name  string
	keyOf func(T) K
	rows  map[K]T

	indexOf func(T) EntityID
	index   map[EntityID]map[K]struct{}
}

func NewTable[K cmp.Ordered, T any](name string, keyOf func(T) K) *Table[K, T] {
	return &Table[K, T]{
		name:  name,
		keyOf: keyOf,
		rows:  make(map[K]T, 256),
	}
}

// WithIndex enables the secondary index. Must be called before any insert.
func (t *Table[K, T]) WithIndex(indexOf func(T) EntityID) *Table[K, T] {
	t.indexOf = indexOf
	t.index = make(map[EntityID]map[K]struct{}, 64)
	return t
}

func (t *Table[K, T]) Name() string { return t.name }

func (t *Table[K, T]) Get(key K) (T, bool) {
	row, ok := t.rows[key]
	return row, ok
}

func (t *Table[K, T]) Has(key K) bool {
	_, ok := t.rows[key]
	return ok
}

// Must returns the row for key or an ErrNotFound-wrapping error.
func (t *Table[K, T]) Must(key K) (T, error) {
	row, ok := t.rows[key]
	if !ok {
		return row, fmt.Errorf("%s %v: %w", t.name, key, ErrNotFound)
	}
	return row, nil
}

// Insert adds a row. Fails with ErrDuplicateKey when the key is present.
func (t *Table[K, T]) Insert(row T) (T, error) {
	key := t.keyOf(row)
	if _, ok := t.rows[key]; ok {
		return row, fmt.Errorf("%s %v: %w", t.name, key, ErrDuplicateKey)
	}
	t.rows[key] = row
	t.addIndex(key, row)
	return row, nil
}

// Update replaces an existing row. Fails with ErrNotFound when absent.
func (t *Table[K, T]) Update(row T) (T, error) {
	key := t.keyOf(row)
	old, ok := t.rows[key]
	if !ok {
		return row, fmt.Errorf("%s %v: %w", t.name, key, ErrNotFound)
	}
	t.dropIndex(key, old)
	t.rows[key] = row
	t.addIndex(key, row)
	return row, nil
}

// Upsert inserts or replaces the row for its key.
func (t *Table[K, T]) Upsert(row T) T {
	key := t.keyOf(row)
	if old, ok := t.rows[key]; ok {
		t.dropIndex(key, old)
	}
	t.rows[key] = row
	t.addIndex(key, row)
	return row
}

// Delete removes the row for key, reporting whether one existed.
func (t *Table[K, T]) Delete(key K) bool {
	old, ok := t.rows[key]
	if !ok {
		return false
	}
	t.dropIndex(key, old)
	delete(t.rows, key)
	return true
}

// Clear truncates the table.
func (t *Table[K, T]) Clear() {
	clear(t.rows)
	if t.index != nil {
		clear(t.index)
	}
}

func (t *Table[K, T]) Len() int { return len(t.rows) }

// Keys returns every primary key in ascending order.
func (t *Table[K, T]) Keys() []K {
	keys := make([]K, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Iterate returns a snapshot of every row ordered by primary key. Mutating
// the table while walking the snapshot is safe.
func (t *Table[K, T]) Iterate() []T {
	keys := t.Keys()
	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = t.rows[k]
	}
	return out
}

// FindByIndex returns a snapshot of the rows whose secondary key equals key,
// ordered by primary key. Tables without an index return nil.
func (t *Table[K, T]) FindByIndex(key EntityID) []T {
	if t.index == nil {
		return nil
	}
	set := t.index[key]
	if len(set) == 0 {
		return nil
	}
	keys := make([]K, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = t.rows[k]
	}
	return out
}

func (t *Table[K, T]) addIndex(key K, row T) {
	if t.indexOf == nil {
		return
	}
	ik := t.indexOf(row)
	set, ok := t.index[ik]
	if !ok {
		set = make(map[K]struct{}, 4)
		t.index[ik] = set
	}
	set[key] = struct{}{}
}

func (t *Table[K, T]) dropIndex(key K, row T) {
	if t.indexOf == nil {
		return
	}
	ik := t.indexOf(row)
	set := t.index[ik]
	delete(set, key)
	if len(set) == 0 {
		delete(t.index, ik)
	}
}

// ComponentTable is a Table keyed by the owning entity.
type ComponentTable[T any] struct {
	*Table[EntityID, T]
}

func NewComponentTable[T any](name string, keyOf func(T) EntityID) ComponentTable[T] {
	return ComponentTable[T]{Table: NewTable[EntityID, T](name, keyOf)}
}

// Remove satisfies Removable.
func (c ComponentTable[T]) Remove(id EntityID) bool {
	return c.Delete(id)
}

// Indexed enables the secondary index on the wrapped table.
func (c ComponentTable[T]) Indexed(indexOf func(T) EntityID) ComponentTable[T] {
	c.WithIndex(indexOf)
	return c
}
