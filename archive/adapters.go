package archive

import "container/heap"

// Stack adapts a slice to LIFO access. It serializes as a single
// "container" sequence field via Serializer, so the driver's dispatch
// table needs no dedicated case for it.
type Stack[T any] struct{ items []T }

func NewStack[T any]() *Stack[T] { return &Stack[T]{} }

func (s *Stack[T]) Push(v T)  { s.items = append(s.items, v) }
func (s *Stack[T]) Len() int  { return len(s.items) }
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, true
}

func (s *Stack[T]) Serialize(a *Archive) error {
	return Value(a, "container", &s.items)
}

// Queue adapts a slice to FIFO access.
type Queue[T any] struct{ items []T }

func NewQueue[T any]() *Queue[T] { return &Queue[T]{} }

func (q *Queue[T]) Push(v T) { q.items = append(q.items, v) }
func (q *Queue[T]) Len() int { return len(q.items) }
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *Queue[T]) Serialize(a *Archive) error {
	return Value(a, "container", &q.items)
}

// PriorityQueue adapts a slice into a binary heap ordered by less.
// less is supplied at construction and is not itself part of the wire
// form: decoding a PriorityQueue requires passing the same comparator
// the encoder used.
type PriorityQueue[T any] struct {
	items []T
	less  func(a, b T) bool
}

func NewPriorityQueue[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{less: less}
}

func (p *PriorityQueue[T]) Len() int { return len(p.items) }

func (p *PriorityQueue[T]) Push(v T) {
	heap.Push((*pqHeap[T])(p), v)
}

func (p *PriorityQueue[T]) Pop() (T, bool) {
	var zero T
	if len(p.items) == 0 {
		return zero, false
	}
	return heap.Pop((*pqHeap[T])(p)).(T), true
}

// Serialize round-trips the backing slice as a plain sequence; the
// comparator is not part of the wire form. Decoding into a
// PriorityQueue constructed with NewPriorityQueue restores the heap
// invariant over the loaded items before returning.
func (p *PriorityQueue[T]) Serialize(a *Archive) error {
	if err := Value(a, "container", &p.items); err != nil {
		return err
	}
	if a.IsInput() && p.less != nil {
		heap.Init((*pqHeap[T])(p))
	}
	return nil
}

// pqHeap is PriorityQueue recast so it can implement container/heap's
// unexported-friendly interface without polluting PriorityQueue's own
// method set with Less/Swap/Push/Pop's any-typed heap.Interface shape.
type pqHeap[T any] PriorityQueue[T]

func (h *pqHeap[T]) Len() int            { return len(h.items) }
func (h *pqHeap[T]) Less(i, j int) bool  { return h.less(h.items[i], h.items[j]) }
func (h *pqHeap[T]) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *pqHeap[T]) Push(x any)          { h.items = append(h.items, x.(T)) }
func (h *pqHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	v := old[n-1]
	h.items = old[:n-1]
	return v
}
