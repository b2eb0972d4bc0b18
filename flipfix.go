package gotri

import "github.com/go-gl/mathgl/mgl64"

// FlipSet is a work queue of candidate edges that drops duplicates in either
// direction.
type FlipSet struct {
	items map[VEdgeKey]*VEdge
	stack []*VEdge
}

func NewFlipSet() *FlipSet {
	return &FlipSet{items: make(map[VEdgeKey]*VEdge)}
}

// Add takes ownership of ve and reports true, or reports false for a
// duplicate and leaves ve with the caller.
func (s *FlipSet) Add(ve *VEdge) bool {
	k := ve.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = ve
	s.stack = append(s.stack, ve)
	return true
}

// Add2 is like Add but always consumes ve.
func (s *FlipSet) Add2(ve *VEdge) bool {
	if s.Add(ve) {
		return true
	}
	ve.Unref()
	return false
}

// AddEdge queues e unless it is constrained.
func (s *FlipSet) AddEdge(e *Edge) bool {
	if e.Constrained {
		return false
	}
	return s.Add2(NewVEdgeFromEdge(e))
}

// Pop hands the most recently added candidate to the caller.
func (s *FlipSet) Pop() (*VEdge, bool) {
	n := len(s.stack)
	if n == 0 {
		return nil, false
	}
	ve := s.stack[n-1]
	s.stack = s.stack[:n-1]
	delete(s.items, ve.Key())
	return ve, true
}

func (s *FlipSet) Len() int {
	return len(s.stack)
}

func (s *FlipSet) Contains(ve *VEdge) bool {
	_, ok := s.items[ve.Key()]
	return ok
}

// FlipFix flips edges until every candidate in set is locally Delaunay.
// Constrained and boundary edges are never flipped. The set is empty on
// return.
func FlipFix(m *Mesh, set *FlipSet) int {
	flips := 0
	for {
		ve, ok := set.Pop()
		if !ok {
			return flips
		}
		e := ve.Edge()
		ve.Unref()

		if e == nil || !e.Flippable() || e.delaunay {
			continue
		}
		if !needsFlip(e) {
			e.delaunay = true
			e.Mirror.delaunay = true
			continue
		}

		outer := quadEdges(e)
		Flip(e)
		flips++
		for _, oe := range outer {
			set.AddEdge(oe)
		}
	}
}

// needsFlip reports whether the apex across e is strictly inside the
// circumcircle of the triangle on either side. Cocircular quads are left
// alone so the fix terminates.
func needsFlip(e *Edge) bool {
	t1, t2 := e.Tri, e.Mirror.Tri
	c := t1.OppositePoint(e)
	d := t2.OppositePoint(e.Mirror)

	if t1.InCircumcircle(d.C) != Inside && t2.InCircumcircle(c.C) != Inside {
		return false
	}
	return isConvexQuad(e.Start().C, e.End.C, c.C, d.C)
}

// isConvexQuad reports whether the diagonal cd properly crosses ab.
func isConvexQuad(a, b, c, d mgl64.Vec2) bool {
	return SegmentsIntersect(a, b, c, d) == Intersecting
}

// quadEdges returns the four edges around the quadrilateral of e.
func quadEdges(e *Edge) [4]*Edge {
	t1, t2 := e.Tri, e.Mirror.Tri
	i := t1.EdgeIndex(e)
	j := t2.EdgeIndex(e.Mirror)
	return [4]*Edge{
		t1.Edges[(i+1)%3],
		t1.Edges[(i+2)%3],
		t2.Edges[(j+1)%3],
		t2.Edges[(j+2)%3],
	}
}

// Flip replaces the interior edge e with the other diagonal of its
// quadrilateral and returns the new diagonal.
func Flip(e *Edge) *Edge {
	if !e.IsInterior() {
		panic("gotri: flipping an edge without two triangles")
	}
	m := e.Mesh()
	constrained := e.Constrained

	// e is A->B in t1 = (A, B, C) and B->A in t2 = (B, A, D)
	q := quadEdges(e)
	bc, ca, ad, db := q[0], q[1], q[2], q[3]
	c := bc.End
	d := ad.End

	e.Remove()

	cd := m.NewEdge(c, d, constrained)
	m.NewTriangle(cd, db, bc)
	m.NewTriangle(cd.Mirror, ca, ad)
	return cd
}
