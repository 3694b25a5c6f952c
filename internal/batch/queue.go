// Package batch owns the pending order items and runs them against the
// portal one at a time.
package batch

import (
	"iter"
	"slices"
	"sync"

	"markorder/internal/order"
)

// Queue is the ordered, editable collection of pending items.
// Insertion order is listing order and execution order.
type Queue struct {
	mu    sync.Mutex
	items []order.Item
}

// Add appends an item, assigning an identity if it has none, and returns
// the stored copy.
func (q *Queue) Add(it order.Item) order.Item {
	if it.ID == "" {
		it.ID = order.NewID()
	}
	q.mu.Lock()
	q.items = append(q.items, it)
	q.mu.Unlock()
	return it
}

// Remove deletes the selected item. The zero selector removes the most
// recently added item. A selector that matches nothing leaves the queue
// untouched and returns false.
func (q *Queue) Remove(sel order.Selector) (order.Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := -1
	switch {
	case sel.IsLast():
		idx = len(q.items) - 1
	case sel.ID != "":
		idx = slices.IndexFunc(q.items, func(it order.Item) bool { return it.ID == sel.ID })
	case sel.Position >= 1 && sel.Position <= len(q.items):
		idx = sel.Position - 1
	}
	if idx < 0 {
		return order.Item{}, false
	}

	removed := q.items[idx]
	q.items = slices.Delete(q.items, idx, idx+1)
	return removed, true
}

// List yields (position, item) pairs in insertion order, positions starting
// at 1. Each iteration works on a copy taken when it starts, so ranging over
// the sequence never observes or causes edits.
func (q *Queue) List() iter.Seq2[int, order.Item] {
	return func(yield func(int, order.Item) bool) {
		for i, it := range q.copyItems() {
			if !yield(i+1, it) {
				return
			}
		}
	}
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops every pending item and returns how many were removed.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

func (q *Queue) copyItems() []order.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}
