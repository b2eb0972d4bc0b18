package gotri

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Circle struct {
	Center mgl64.Vec2
	Radius float64
}

// Circumcircle returns the circle through a, b and c. ok is false when the
// points are collinear.
func Circumcircle(a, b, c mgl64.Vec2) (Circle, bool) {
	if Orient(a, b, c) == Linear {
		return Circle{}, false
	}

	ba := b.Sub(a)
	ca := c.Sub(a)
	d := 2 * cross(ba, ca)
	lb := ba.LenSqr()
	lc := ca.LenSqr()

	ux := (ca[1]*lb - ba[1]*lc) / d
	uy := (ba[0]*lc - ca[0]*lb) / d
	center := a.Add(mgl64.Vec2{ux, uy})

	return Circle{Center: center, Radius: center.Sub(a).Len()}, true
}

// Contains compares the distance from the center with the radius using a
// tolerance relative to the radius.
func (c Circle) Contains(p mgl64.Vec2) Location {
	d := p.Sub(c.Center).Len()
	tol := inCircleEpsilon * math.Max(c.Radius, 1)
	switch {
	case d < c.Radius-tol:
		return Inside
	case d > c.Radius+tol:
		return Outside
	}
	return On
}
