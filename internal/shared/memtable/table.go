// Package memtable provides snapshot-able in-memory tables for the memory adapters.
package memtable

import "sort"

// Table stores rows keyed by identifier. Rows are cloned on the way in and out
// so callers never alias stored state.
type Table[T any] struct {
	rows   map[int64]*T
	nextID int64
	clone  func(*T) *T
}

// New creates an empty table using clone to copy rows.
func New[T any](clone func(*T) *T) *Table[T] {
	return &Table[T]{rows: map[int64]*T{}, clone: clone}
}

// Snapshot returns an independent deep copy of the table.
func (t *Table[T]) Snapshot() *Table[T] {
	copied := &Table[T]{rows: make(map[int64]*T, len(t.rows)), nextID: t.nextID, clone: t.clone}
	for id, row := range t.rows {
		copied.rows[id] = t.clone(row)
	}
	return copied
}

// NextID reserves the next identifier.
func (t *Table[T]) NextID() int64 {
	t.nextID++
	return t.nextID
}

// Get returns a copy of the row.
func (t *Table[T]) Get(id int64) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return t.clone(row), true
}

// Has reports whether a row exists.
func (t *Table[T]) Has(id int64) bool {
	_, ok := t.rows[id]
	return ok
}

// Put stores a copy of row under id.
func (t *Table[T]) Put(id int64, row *T) {
	if id > t.nextID {
		t.nextID = id
	}
	t.rows[id] = t.clone(row)
}

// Delete removes a row, reporting whether it existed.
func (t *Table[T]) Delete(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// All returns copies of every row ordered by identifier.
func (t *Table[T]) All() []*T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.clone(t.rows[id]))
	}
	return out
}

// Counter is a snapshot-able identifier sequence for child rows.
type Counter struct {
	n int64
}

// Next reserves the next value.
func (c *Counter) Next() int64 {
	c.n++
	return c.n
}

// Snapshot copies the counter.
func (c *Counter) Snapshot() *Counter {
	return &Counter{n: c.n}
}
