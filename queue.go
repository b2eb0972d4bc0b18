package gotri

import "container/heap"

type triangleItem struct {
	tri   *Triangle
	angle float64
}

// triangleQueue is a min-heap on the smallest angle, ties broken by age.
type triangleQueue []triangleItem

func (q triangleQueue) Len() int { return len(q) }

func (q triangleQueue) Less(i, j int) bool {
	if q[i].angle != q[j].angle {
		return q[i].angle < q[j].angle
	}
	return q[i].tri.id < q[j].tri.id
}

func (q triangleQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *triangleQueue) Push(x interface{}) {
	*q = append(*q, x.(triangleItem))
}

func (q *triangleQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// badTriangles holds each queued triangle once, with a reference on it.
type badTriangles struct {
	heap   triangleQueue
	queued map[*Triangle]struct{}
}

func newBadTriangles() *badTriangles {
	return &badTriangles{queued: make(map[*Triangle]struct{})}
}

func (b *badTriangles) push(t *Triangle) {
	if _, ok := b.queued[t]; ok {
		return
	}
	t.Ref()
	b.queued[t] = struct{}{}
	heap.Push(&b.heap, triangleItem{tri: t, angle: t.MinAngle()})
}

// pop returns the worst triangle; the caller inherits the reference.
func (b *badTriangles) pop() *Triangle {
	if b.heap.Len() == 0 {
		return nil
	}
	item := heap.Pop(&b.heap).(triangleItem)
	delete(b.queued, item.tri)
	return item.tri
}

func (b *badTriangles) len() int {
	return b.heap.Len()
}

// segmentQueue is a FIFO of constrained edges named by their endpoints, so
// an entry survives the edge being removed and restored by an undo.
type segmentQueue struct {
	items  []*VEdge
	queued map[VEdgeKey]struct{}
}

func newSegmentQueue() *segmentQueue {
	return &segmentQueue{queued: make(map[VEdgeKey]struct{})}
}

// push consumes ve.
func (s *segmentQueue) push(ve *VEdge) {
	k := ve.Key()
	if _, ok := s.queued[k]; ok {
		ve.Unref()
		return
	}
	s.queued[k] = struct{}{}
	s.items = append(s.items, ve)
}

func (s *segmentQueue) pop() *VEdge {
	if len(s.items) == 0 {
		return nil
	}
	ve := s.items[0]
	s.items = s.items[1:]
	delete(s.queued, ve.Key())
	return ve
}

func (s *segmentQueue) len() int {
	return len(s.items)
}
