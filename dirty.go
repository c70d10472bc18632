package canopy

// DirtyQueue is the ordered list of handles whose content changed since the
// last flush. It is a sequence, not a set: a handle pushed twice appears
// twice, and consumers must treat repeated processing as idempotent.
//
// Handles deferred during a flush (subtrees whose layout failed) survive
// Clear and become the first entries of the next cycle.
type DirtyQueue struct {
	items    []Handle
	deferred []Handle
	seen     map[Handle]struct{}
}

// Push appends h.
func (q *DirtyQueue) Push(h Handle) {
	q.items = append(q.items, h)
}

// Defer schedules h for the next cycle.
func (q *DirtyQueue) Defer(h Handle) {
	q.deferred = append(q.deferred, h)
}

// Len returns the number of queued entries, duplicates included.
func (q *DirtyQueue) Len() int {
	return len(q.items)
}

// Items returns the queued handles in insertion order. The returned slice
// MUST NOT be mutated and is only valid until the next Push or Clear.
func (q *DirtyQueue) Items() []Handle {
	return q.items
}

// Unique returns the queued handles in first-occurrence order with
// duplicates dropped. The result is a fresh slice.
func (q *DirtyQueue) Unique() []Handle {
	if q.seen == nil {
		q.seen = make(map[Handle]struct{}, len(q.items))
	}
	out := make([]Handle, 0, len(q.items))
	for _, h := range q.items {
		if _, ok := q.seen[h]; ok {
			continue
		}
		q.seen[h] = struct{}{}
		out = append(out, h)
	}
	clear(q.seen)
	return out
}

// Drain returns the queued handles in insertion order and clears the queue.
func (q *DirtyQueue) Drain() []Handle {
	out := q.items
	q.items = nil
	q.Clear()
	return out
}

// Clear empties the queue, then moves deferred handles into it.
func (q *DirtyQueue) Clear() {
	q.items = q.items[:0]
	if len(q.deferred) > 0 {
		q.items = append(q.items, q.deferred...)
		q.deferred = q.deferred[:0]
	}
}
