package gotri

import (
	"fmt"
)

// Edge is a directed half-edge. Its start is the end of its mirror. Tri is
// the triangle that walks this half-edge clockwise, nil on the outer side of
// the domain.
type Edge struct {
	End         *Point
	Mirror      *Edge
	Constrained bool
	Tri         *Triangle

	angle    float64
	delaunay bool
	id       uint64
	refs     int
}

func (e *Edge) ID() uint64 {
	return e.id
}

func (e *Edge) Start() *Point {
	return e.Mirror.End
}

// Angle is the direction of the edge in radians, cached at creation.
func (e *Edge) Angle() float64 {
	return e.angle
}

func (e *Edge) Length() float64 {
	return e.End.C.Sub(e.Start().C).Len()
}

func (e *Edge) Refs() int {
	return e.refs
}

func (e *Edge) Ref() {
	e.refs++
}

func (e *Edge) Unref() {
	if e.refs <= 0 {
		panic(fmt.Sprintf("gotri: edge %d refcount underflow", e.id))
	}
	e.refs--
}

// IsBoundary reports whether only one side of the edge has a triangle.
func (e *Edge) IsBoundary() bool {
	return (e.Tri == nil) != (e.Mirror.Tri == nil)
}

// IsInterior reports whether both sides have a triangle.
func (e *Edge) IsInterior() bool {
	return e.Tri != nil && e.Mirror.Tri != nil
}

// Flippable reports whether FlipFix may replace the edge.
func (e *Edge) Flippable() bool {
	return !e.Constrained && e.IsInterior()
}

func (e *Edge) Mesh() *Mesh {
	return e.End.mesh
}

// Remove removes the edge, its mirror and the triangles on both sides.
func (e *Edge) Remove() {
	m := e.Mesh()
	if !m.ContainsEdge(e) {
		return
	}
	if e.Tri != nil {
		e.Tri.Remove()
	}
	if e.Mirror.Tri != nil {
		e.Mirror.Tri.Remove()
	}
	m.onEdgeRemoved(e)
}

func (e *Edge) String() string {
	return fmt.Sprintf("%v->%v", e.Start(), e.End)
}
