package gotri

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// CDT pairs a mesh with the outline that bounds it.
type CDT struct {
	Mesh    *Mesh
	Outline *PSLG
}

// Free drops the CDT's reference on its mesh.
func (c *CDT) Free() {
	c.Mesh.Unref()
}

// InsertPoint inserts pc and restores the constrained Delaunay property. A
// point that coincides with an existing vertex returns that vertex. guess
// may be nil.
func (c *CDT) InsertPoint(pc mgl64.Vec2, guess *Triangle) (*Point, error) {
	m := c.Mesh
	tri := m.FindPointLocal(pc, guess)
	if tri == nil {
		tri = m.FindPoint(pc)
	}
	if tri == nil {
		return nil, errors.Wrapf(ErrOutsideDomain, "insert (%g, %g)", pc[0], pc[1])
	}

	scale := triangleScale(tri)
	for _, p := range tri.Points() {
		if coincident(p.C, pc, scale) {
			return p, nil
		}
	}

	pt := m.NewPoint(pc)
	c.InsertPointIntoTriangle(pt, tri)
	return pt, nil
}

// InsertPointIntoTriangle connects pt to the corners of tri, which must
// contain it. A point on one of the edges splits that edge instead.
func (c *CDT) InsertPointIntoTriangle(pt *Point, tri *Triangle) {
	for _, e := range tri.Edges {
		if Orient(e.Start().C, e.End.C, pt.C) == Linear {
			c.SplitEdge(e, pt)
			return
		}
	}

	m := c.Mesh
	ab, bc, ca := tri.Edges[0], tri.Edges[1], tri.Edges[2]
	a, b, cc := tri.Point(0), tri.Point(1), tri.Point(2)

	tri.Remove()

	pa := m.NewEdge(pt, a, false)
	pb := m.NewEdge(pt, b, false)
	pc := m.NewEdge(pt, cc, false)

	m.NewTriangle(ab, pb.Mirror, pa)
	m.NewTriangle(bc, pc.Mirror, pb)
	m.NewTriangle(ca, pa.Mirror, pc)

	set := NewFlipSet()
	set.AddEdge(ab)
	set.AddEdge(bc)
	set.AddEdge(ca)
	FlipFix(m, set)
}

// SplitEdge inserts pt, which lies on e between its endpoints, and rebuilds
// the triangles on both sides around it. When e is constrained the two
// constrained halves A-pt and pt-B are returned; otherwise the result is nil.
func (c *CDT) SplitEdge(e *Edge, pt *Point) []*Edge {
	m := c.Mesh
	a, b := e.Start(), e.End
	constrained := e.Constrained

	// e is A->B in t1 = (A, B, X1); its mirror is B->A in t2 = (B, A, X2)
	var bx1, x1a, ax2, x2b *Edge
	var x1, x2 *Point
	if t1 := e.Tri; t1 != nil {
		i := t1.EdgeIndex(e)
		bx1, x1a = t1.Edges[(i+1)%3], t1.Edges[(i+2)%3]
		x1 = bx1.End
	}
	if t2 := e.Mirror.Tri; t2 != nil {
		j := t2.EdgeIndex(e.Mirror)
		ax2, x2b = t2.Edges[(j+1)%3], t2.Edges[(j+2)%3]
		x2 = ax2.End
	}

	e.Remove()

	ac := m.NewEdge(a, pt, constrained)
	cb := m.NewEdge(pt, b, constrained)

	set := NewFlipSet()
	if x1 != nil {
		cx1 := m.NewEdge(pt, x1, false)
		m.NewTriangle(ac, cx1, x1a)
		m.NewTriangle(cb, bx1, cx1.Mirror)
		set.AddEdge(x1a)
		set.AddEdge(bx1)
	}
	if x2 != nil {
		cx2 := m.NewEdge(pt, x2, false)
		m.NewTriangle(cb.Mirror, cx2, x2b)
		m.NewTriangle(ac.Mirror, ax2, cx2.Mirror)
		set.AddEdge(ax2)
		set.AddEdge(x2b)
	}
	FlipFix(m, set)

	if !constrained {
		return nil
	}
	// flips never touch constrained edges, so both halves are still live
	return []*Edge{ac, cb}
}

// VisibleFromEdge reports whether some point in the interior of e can be
// joined to p by a straight segment that crosses no constrained edge other
// than e. Points on the line of e see it.
func (c *CDT) VisibleFromEdge(e *Edge, p mgl64.Vec2) bool {
	a, b := e.Start().C, e.End.C
	if Orient(a, b, p) == Linear {
		return true
	}

	var shadows []interval
	for s := range c.Mesh.edges {
		if !s.Constrained || s.id > s.Mirror.id || s == e || s == e.Mirror {
			continue
		}
		if iv, ok := shadowOnEdge(p, a, b, s.Start().C, s.End.C); ok {
			shadows = append(shadows, iv)
		}
	}
	return !coversUnitInterval(shadows)
}

type interval struct {
	lo, hi float64
}

// shadowOnEdge clips segment qr to the triangle (p, a, b) and projects the
// clipped piece from p onto ab. The result is in ab's parameter space.
func shadowOnEdge(p, a, b, q, r mgl64.Vec2) (interval, bool) {
	sign := 1.0
	if Orient(p, a, b) == CW {
		sign = -1
	}

	lo, hi := 0.0, 1.0
	d := r.Sub(q)
	corners := [3]mgl64.Vec2{p, a, b}
	for i := 0; i < 3; i++ {
		u := corners[i]
		v := corners[(i+1)%3]
		side := v.Sub(u)
		f0 := sign * cross(side, q.Sub(u))
		df := sign * cross(side, d)
		if df == 0 {
			if f0 < 0 {
				return interval{}, false
			}
			continue
		}
		t := -f0 / df
		if df > 0 {
			lo = math.Max(lo, t)
		} else {
			hi = math.Min(hi, t)
		}
		if lo > hi {
			return interval{}, false
		}
	}

	t0, ok0 := projectOnto(p, a, b, q.Add(d.Mul(lo)))
	t1, ok1 := projectOnto(p, a, b, q.Add(d.Mul(hi)))
	switch {
	case !ok0 && !ok1:
		return interval{}, false
	case !ok0:
		t0 = t1
	case !ok1:
		t1 = t0
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return interval{lo: t0, hi: t1}, true
}

// projectOnto returns the parameter on ab where the line through p and x
// meets it.
func projectOnto(p, a, b, x mgl64.Vec2) (float64, bool) {
	hit, ok := LineIntersection(p, x, a, b)
	if !ok {
		return 0, false
	}
	ab := b.Sub(a)
	return hit.Sub(a).Dot(ab) / ab.LenSqr(), true
}

const coverEpsilon = 1e-12

// coversUnitInterval reports whether the union of ivs leaves nothing of the
// open interval (0, 1) uncovered.
func coversUnitInterval(ivs []interval) bool {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })
	reach := 0.0
	for _, iv := range ivs {
		if iv.lo > reach+coverEpsilon {
			return false
		}
		if iv.hi > reach {
			reach = iv.hi
		}
	}
	return reach >= 1-coverEpsilon
}

// triangleScale is the squared length of the longest side.
func triangleScale(t *Triangle) float64 {
	s := 0.0
	for _, e := range t.Edges {
		s = math.Max(s, e.End.C.Sub(e.Start().C).LenSqr())
	}
	return s
}
