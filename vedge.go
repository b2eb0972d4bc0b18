package gotri

import "fmt"

// VEdgeKey identifies an undirected point pair.
type VEdgeKey [2]uint64

// VEdge names an edge between two points whether or not the mesh currently
// has one. It holds a reference on both points.
type VEdge struct {
	P, Q        *Point
	Constrained bool

	refs int
}

func NewVEdge(p, q *Point, constrained bool) *VEdge {
	p.Ref()
	q.Ref()
	return &VEdge{P: p, Q: q, Constrained: constrained, refs: 1}
}

func NewVEdgeFromEdge(e *Edge) *VEdge {
	return NewVEdge(e.Start(), e.End, e.Constrained)
}

func (v *VEdge) Key() VEdgeKey {
	a, b := v.P.id, v.Q.id
	if a > b {
		a, b = b, a
	}
	return VEdgeKey{a, b}
}

func (v *VEdge) Ref() {
	v.refs++
}

// Unref releases the points when the last reference goes.
func (v *VEdge) Unref() {
	if v.refs <= 0 {
		panic("gotri: virtual edge refcount underflow")
	}
	v.refs--
	if v.refs == 0 {
		v.P.Unref()
		v.Q.Unref()
	}
}

// Edge returns the real half-edge P->Q, or nil.
func (v *VEdge) Edge() *Edge {
	m := v.P.mesh
	if !m.ContainsPoint(v.P) || !m.ContainsPoint(v.Q) {
		return nil
	}
	return v.P.EdgeTo(v.Q)
}

func (v *VEdge) IsReal() bool {
	return v.Edge() != nil
}

// Create returns the real edge, creating it if missing. The caller owns a
// reference to it.
func (v *VEdge) Create() *Edge {
	return v.P.mesh.NewOrExistingEdge(v.P, v.Q, v.Constrained)
}

// Remove removes the real edge if there is one.
func (v *VEdge) Remove() {
	if e := v.Edge(); e != nil {
		e.Remove()
	}
}

func (v *VEdge) String() string {
	return fmt.Sprintf("%v~%v", v.P, v.Q)
}
