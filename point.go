package gotri

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Point is a mesh vertex. OutEdges holds the half-edges starting at it.
type Point struct {
	C mgl64.Vec2

	outEdges []*Edge
	mesh     *Mesh
	id       uint64
	refs     int
}

func (p *Point) ID() uint64 {
	return p.id
}

func (p *Point) Mesh() *Mesh {
	return p.mesh
}

func (p *Point) Refs() int {
	return p.refs
}

func (p *Point) Ref() {
	p.refs++
}

func (p *Point) Unref() {
	if p.refs <= 0 {
		panic(fmt.Sprintf("gotri: point %d refcount underflow", p.id))
	}
	p.refs--
}

// OutEdges returns the outgoing half-edges sorted by angle.
func (p *Point) OutEdges() []*Edge {
	out := make([]*Edge, len(p.outEdges))
	copy(out, p.outEdges)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Angle() < out[j].Angle()
	})
	return out
}

func (p *Point) Degree() int {
	return len(p.outEdges)
}

// EdgeTo returns the half-edge from p to q, or nil.
func (p *Point) EdgeTo(q *Point) *Edge {
	for _, e := range p.outEdges {
		if e.End == q {
			return e
		}
	}
	return nil
}

// Triangles returns the triangles having p as a vertex.
func (p *Point) Triangles() []*Triangle {
	var tris []*Triangle
	for _, e := range p.outEdges {
		if e.Tri != nil {
			tris = append(tris, e.Tri)
		}
	}
	return tris
}

// Remove removes the point and every edge incident to it from the mesh.
func (p *Point) Remove() {
	m := p.mesh
	if !m.ContainsPoint(p) {
		return
	}
	for len(p.outEdges) > 0 {
		p.outEdges[0].Remove()
	}
	m.onPointRemoved(p)
}

func (p *Point) addOutEdge(e *Edge) {
	p.outEdges = append(p.outEdges, e)
	p.Ref()
}

func (p *Point) removeOutEdge(e *Edge) {
	for i, oe := range p.outEdges {
		if oe == e {
			p.outEdges = append(p.outEdges[:i], p.outEdges[i+1:]...)
			p.Unref()
			return
		}
	}
	panic(fmt.Sprintf("gotri: edge %d is not an out edge of point %d", e.id, p.id))
}

func (p *Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.C[0], p.C[1])
}
