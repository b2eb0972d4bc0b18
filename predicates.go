package gotri

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is the turn direction of three points.
type Orientation int

const (
	CW     Orientation = -1
	Linear Orientation = 0
	CCW    Orientation = 1
)

func (o Orientation) String() string {
	switch o {
	case CW:
		return "CW"
	case CCW:
		return "CCW"
	}
	return "Linear"
}

// Location classifies a point against a circle or a triangle.
type Location int

const (
	Outside Location = iota
	On
	Inside
)

func (l Location) String() string {
	switch l {
	case Inside:
		return "Inside"
	case On:
		return "On"
	}
	return "Outside"
}

// IntersectResult classifies how two segments meet.
type IntersectResult int

const (
	NoIntersection IntersectResult = iota
	// Touching segments share a point but do not properly cross: an
	// endpoint lies on the other segment or the segments overlap.
	Touching
	Intersecting
)

const (
	orientationEpsilon = 1e-12
	inCircleEpsilon    = 1e-12
)

// Orient returns CCW when c lies to the left of the directed line a->b,
// CW when it lies to the right and Linear when the three points are collinear
// within a tolerance relative to the longest side.
func Orient(a, b, c mgl64.Vec2) Orientation {
	d := cross(b.Sub(a), c.Sub(a))
	scale := math.Max(b.Sub(a).LenSqr(), math.Max(c.Sub(a).LenSqr(), c.Sub(b).LenSqr()))
	if math.Abs(d) <= orientationEpsilon*scale {
		return Linear
	}
	if d > 0 {
		return CCW
	}
	return CW
}

// InCircle reports where d lies relative to the circle through a, b and c.
// The result does not depend on the order of a, b and c. Collinear a, b, c
// have no circle and every d is Outside.
func InCircle(a, b, c, d mgl64.Vec2) Location {
	o := Orient(a, b, c)
	if o == Linear {
		return Outside
	}

	// centering on d keeps the lifted coordinates small
	ad := a.Sub(d)
	bd := b.Sub(d)
	cd := c.Sub(d)
	la, lb, lc := ad.LenSqr(), bd.LenSqr(), cd.LenSqr()

	m := mgl64.Mat3FromRows(
		mgl64.Vec3{ad[0], ad[1], la},
		mgl64.Vec3{bd[0], bd[1], lb},
		mgl64.Vec3{cd[0], cd[1], lc},
	)
	det := m.Det()
	if o == CW {
		det = -det
	}

	sum := la + lb + lc
	if math.Abs(det) <= inCircleEpsilon*sum*sum {
		return On
	}
	if det > 0 {
		return Inside
	}
	return Outside
}

// SegmentsIntersect classifies the intersection of segments ab and cd.
func SegmentsIntersect(a, b, c, d mgl64.Vec2) IntersectResult {
	o1 := Orient(a, b, c)
	o2 := Orient(a, b, d)
	o3 := Orient(c, d, a)
	o4 := Orient(c, d, b)

	if o1 != Linear && o2 != Linear && o3 != Linear && o4 != Linear {
		if o1 != o2 && o3 != o4 {
			return Intersecting
		}
		return NoIntersection
	}

	if (o1 == Linear && onSegment(a, b, c)) ||
		(o2 == Linear && onSegment(a, b, d)) ||
		(o3 == Linear && onSegment(c, d, a)) ||
		(o4 == Linear && onSegment(c, d, b)) {
		return Touching
	}
	return NoIntersection
}

// LineIntersection returns the point where the lines through ab and cd
// cross. ok is false for parallel lines.
func LineIntersection(a, b, c, d mgl64.Vec2) (mgl64.Vec2, bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := cross(r, s)
	if denom == 0 {
		return mgl64.Vec2{}, false
	}
	t := cross(c.Sub(a), s) / denom
	return a.Add(r.Mul(t)), true
}

// onSegment assumes p is collinear with ab.
func onSegment(a, b, p mgl64.Vec2) bool {
	return p[0] >= math.Min(a[0], b[0]) && p[0] <= math.Max(a[0], b[0]) &&
		p[1] >= math.Min(a[1], b[1]) && p[1] <= math.Max(a[1], b[1])
}

// inDiametralCircle reports whether p lies strictly inside the circle whose
// diameter is ab.
func inDiametralCircle(a, b, p mgl64.Vec2) bool {
	return p.Sub(a).Dot(p.Sub(b)) < 0
}

func coincident(a, b mgl64.Vec2, scale float64) bool {
	return a.Sub(b).LenSqr() <= orientationEpsilon*scale
}
