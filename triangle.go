package gotri

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is bounded by three half-edges AB, BC and CA walked clockwise.
type Triangle struct {
	Edges [3]*Edge

	mesh *Mesh
	id   uint64
	refs int
}

func (t *Triangle) ID() uint64 {
	return t.id
}

func (t *Triangle) Mesh() *Mesh {
	return t.mesh
}

func (t *Triangle) Refs() int {
	return t.refs
}

func (t *Triangle) Ref() {
	t.refs++
}

func (t *Triangle) Unref() {
	if t.refs <= 0 {
		panic(fmt.Sprintf("gotri: triangle %d refcount underflow", t.id))
	}
	t.refs--
}

// Point returns vertex i: 0 is A, 1 is B and 2 is C.
func (t *Triangle) Point(i int) *Point {
	return t.Edges[(i+2)%3].End
}

func (t *Triangle) Points() [3]*Point {
	return [3]*Point{t.Point(0), t.Point(1), t.Point(2)}
}

func (t *Triangle) Coords() (a, b, c mgl64.Vec2) {
	return t.Point(0).C, t.Point(1).C, t.Point(2).C
}

// EdgeIndex returns the index of e in t.Edges, or -1.
func (t *Triangle) EdgeIndex(e *Edge) int {
	for i, te := range t.Edges {
		if te == e {
			return i
		}
	}
	return -1
}

// PointIndex returns the vertex index of p, or -1.
func (t *Triangle) PointIndex(p *Point) int {
	for i := 0; i < 3; i++ {
		if t.Point(i) == p {
			return i
		}
	}
	return -1
}

// OppositePoint returns the vertex not on e.
func (t *Triangle) OppositePoint(e *Edge) *Point {
	i := t.EdgeIndex(e)
	if i < 0 {
		panic(fmt.Sprintf("gotri: edge %v is not part of triangle %d", e, t.id))
	}
	return t.Edges[(i+1)%3].End
}

// OppositeEdge returns the edge not touching p.
func (t *Triangle) OppositeEdge(p *Point) *Edge {
	i := t.PointIndex(p)
	if i < 0 {
		panic(fmt.Sprintf("gotri: point %v is not part of triangle %d", p, t.id))
	}
	return t.Edges[(i+1)%3]
}

// Neighbor returns the triangle across edge i, or nil.
func (t *Triangle) Neighbor(i int) *Triangle {
	return t.Edges[i].Mirror.Tri
}

func (t *Triangle) Circumcircle() (Circle, bool) {
	a, b, c := t.Coords()
	return Circumcircle(a, b, c)
}

// InCircumcircle reports where p lies relative to the circumcircle.
func (t *Triangle) InCircumcircle(p mgl64.Vec2) Location {
	a, b, c := t.Coords()
	return InCircle(a, b, c, p)
}

// Angle returns the interior angle at vertex i.
func (t *Triangle) Angle(i int) float64 {
	p := t.Point(i).C
	q := t.Point((i + 1) % 3).C
	r := t.Point((i + 2) % 3).C
	return AngleBetweenVectors2(q.Sub(p), r.Sub(p))
}

func (t *Triangle) MinAngle() float64 {
	return math.Min(t.Angle(0), math.Min(t.Angle(1), t.Angle(2)))
}

func (t *Triangle) Area() float64 {
	a, b, c := t.Coords()
	return math.Abs(cross(b.Sub(a), c.Sub(a))) / 2
}

func (t *Triangle) Centroid() mgl64.Vec2 {
	a, b, c := t.Coords()
	return a.Add(b).Add(c).Mul(1.0 / 3)
}

// Contains reports whether p is inside t, on its boundary or outside.
func (t *Triangle) Contains(p mgl64.Vec2) Location {
	result := Inside
	for _, e := range t.Edges {
		switch Orient(e.Start().C, e.End.C, p) {
		case CCW:
			return Outside
		case Linear:
			result = On
		}
	}
	return result
}

// UV returns the coordinates of p in the basis (B-A, C-A).
func (t *Triangle) UV(p mgl64.Vec2) (u, v float64) {
	a, b, c := t.Coords()
	m := mgl64.Mat2FromCols(b.Sub(a), c.Sub(a))
	if m.Det() == 0 {
		return 0, 0
	}
	uv := m.Inv().Mul2x1(p.Sub(a))
	return uv[0], uv[1]
}

// Remove removes the triangle from the mesh. Its edges stay.
func (t *Triangle) Remove() {
	if !t.mesh.ContainsTriangle(t) {
		return
	}
	t.mesh.onTriangleRemoved(t)
}

func (t *Triangle) String() string {
	return fmt.Sprintf("[%v %v %v]", t.Point(0), t.Point(1), t.Point(2))
}
