package gotri

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOrient(t *testing.T) {
	testCases := []struct {
		name    string
		a, b, c mgl64.Vec2
		want    Orientation
	}{
		{name: "left turn", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, c: mgl64.Vec2{0, 1}, want: CCW},
		{name: "right turn", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, c: mgl64.Vec2{0, -1}, want: CW},
		{name: "collinear", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 1}, c: mgl64.Vec2{3, 3}, want: Linear},
		{name: "collinear within tolerance", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{10, 0}, c: mgl64.Vec2{5, 1e-14}, want: Linear},
		{name: "large coordinates", a: mgl64.Vec2{1e6, 1e6}, b: mgl64.Vec2{1e6 + 1, 1e6}, c: mgl64.Vec2{1e6, 1e6 + 1}, want: CCW},
		{name: "coincident points", a: mgl64.Vec2{2, 2}, b: mgl64.Vec2{2, 2}, c: mgl64.Vec2{2, 2}, want: Linear},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Orient(tc.a, tc.b, tc.c); got != tc.want {
				t.Errorf("Orient() = %v, want %v", got, tc.want)
			}
			// swapping two points flips the turn
			if got, want := Orient(tc.b, tc.a, tc.c), -tc.want; got != want {
				t.Errorf("Orient(swapped) = %v, want %v", got, want)
			}
		})
	}
}

func TestInCircle(t *testing.T) {
	a, b, c := mgl64.Vec2{0, 0}, mgl64.Vec2{4, 0}, mgl64.Vec2{0, 4}

	testCases := []struct {
		name string
		d    mgl64.Vec2
		want Location
	}{
		{name: "center", d: mgl64.Vec2{2, 2}, want: Inside},
		{name: "near the rim inside", d: mgl64.Vec2{4, 3.9}, want: Inside},
		{name: "cocircular", d: mgl64.Vec2{4, 4}, want: On},
		{name: "far away", d: mgl64.Vec2{10, 10}, want: Outside},
		{name: "just outside", d: mgl64.Vec2{4, 4.1}, want: Outside},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orders := [][3]mgl64.Vec2{{a, b, c}, {a, c, b}, {b, a, c}, {c, b, a}, {b, c, a}}
			for _, o := range orders {
				if got := InCircle(o[0], o[1], o[2], tc.d); got != tc.want {
					t.Errorf("InCircle(%v, %v) = %v, want %v", o, tc.d, got, tc.want)
				}
			}
		})
	}

	if got := InCircle(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, mgl64.Vec2{2, 2}, mgl64.Vec2{1, 0}); got != Outside {
		t.Errorf("InCircle(collinear) = %v, want Outside", got)
	}
}

func TestSegmentsIntersect(t *testing.T) {
	testCases := []struct {
		name       string
		a, b, c, d mgl64.Vec2
		want       IntersectResult
	}{
		{name: "crossing", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{2, 2}, c: mgl64.Vec2{0, 2}, d: mgl64.Vec2{2, 0}, want: Intersecting},
		{name: "disjoint", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, c: mgl64.Vec2{0, 1}, d: mgl64.Vec2{1, 1}, want: NoIntersection},
		{name: "shared endpoint", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, c: mgl64.Vec2{1, 0}, d: mgl64.Vec2{1, 1}, want: Touching},
		{name: "T junction", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{2, 0}, c: mgl64.Vec2{1, 0}, d: mgl64.Vec2{1, 3}, want: Touching},
		{name: "collinear apart", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, c: mgl64.Vec2{2, 0}, d: mgl64.Vec2{3, 0}, want: NoIntersection},
		{name: "line would cross", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 1}, c: mgl64.Vec2{3, 0}, d: mgl64.Vec2{3, 5}, want: NoIntersection},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SegmentsIntersect(tc.a, tc.b, tc.c, tc.d); got != tc.want {
				t.Errorf("SegmentsIntersect() = %v, want %v", got, tc.want)
			}
			if got := SegmentsIntersect(tc.c, tc.d, tc.a, tc.b); got != tc.want {
				t.Errorf("SegmentsIntersect(swapped) = %v, want %v", got, tc.want)
			}
		})
	}

	p, ok := LineIntersection(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 2}, mgl64.Vec2{0, 2}, mgl64.Vec2{2, 0})
	if !ok || !vecAlmostEqual(p, mgl64.Vec2{1, 1}) {
		t.Errorf("LineIntersection() = %v, %v, want (1, 1), true", p, ok)
	}
	if _, ok := LineIntersection(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}, mgl64.Vec2{1, 1}); ok {
		t.Errorf("LineIntersection(parallel) ok = true, want false")
	}
}

func TestCircumcircle(t *testing.T) {
	c, ok := Circumcircle(mgl64.Vec2{0, 0}, mgl64.Vec2{4, 0}, mgl64.Vec2{0, 4})
	if !ok {
		t.Fatalf("Circumcircle() ok = false")
	}
	if !vecAlmostEqual(c.Center, mgl64.Vec2{2, 2}) || !almostEqual(c.Radius, math.Sqrt(8)) {
		t.Errorf("Circumcircle() = %+v, want center (2,2) radius %v", c, math.Sqrt(8))
	}
	if got := c.Contains(mgl64.Vec2{1, 1}); got != Inside {
		t.Errorf("Contains(inside) = %v, want Inside", got)
	}
	if got := c.Contains(mgl64.Vec2{4, 4}); got != On {
		t.Errorf("Contains(rim) = %v, want On", got)
	}
	if got := c.Contains(mgl64.Vec2{5, 5}); got != Outside {
		t.Errorf("Contains(outside) = %v, want Outside", got)
	}
	if _, ok := Circumcircle(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, mgl64.Vec2{2, 0}); ok {
		t.Errorf("Circumcircle(collinear) ok = true, want false")
	}
}

func TestAngleBetweenVectors2(t *testing.T) {
	testCases := []struct {
		name string
		a, b mgl64.Vec2
		want float64
	}{
		{name: "right angle", a: mgl64.Vec2{1, 0}, b: mgl64.Vec2{0, 3}, want: math.Pi / 2},
		{name: "same direction", a: mgl64.Vec2{2, 2}, b: mgl64.Vec2{1, 1}, want: 0},
		{name: "opposite", a: mgl64.Vec2{1, 0}, b: mgl64.Vec2{-5, 0}, want: math.Pi},
		{name: "zero vector", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, want: 0},
		{name: "unit circle", a: mgl64.Vec2{math.Cos(0.25), math.Sin(0.25)}, b: mgl64.Vec2{math.Cos(1), math.Sin(1)}, want: 0.75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AngleBetweenVectors2(tc.a, tc.b); !almostEqual(got, tc.want) {
				t.Errorf("AngleBetweenVectors2() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTriangleGeometry(t *testing.T) {
	m := NewMesh()
	a, b, c := m.NewPoint(mgl64.Vec2{0, 0}), m.NewPoint(mgl64.Vec2{0, 3}), m.NewPoint(mgl64.Vec2{4, 0})
	tri := m.NewTriangle(m.NewEdge(a, b, false), m.NewEdge(b, c, false), m.NewEdge(c, a, false))

	if !almostEqual(tri.Area(), 6) {
		t.Errorf("Area() = %v, want 6", tri.Area())
	}
	if want := math.Atan2(3, 4); !almostEqual(tri.MinAngle(), want) {
		t.Errorf("MinAngle() = %v, want %v", tri.MinAngle(), want)
	}
	sum := tri.Angle(0) + tri.Angle(1) + tri.Angle(2)
	if !almostEqual(sum, math.Pi) {
		t.Errorf("sum of angles = %v, want pi", sum)
	}
	for _, e := range tri.Edges {
		opp := tri.OppositePoint(e)
		if opp == e.Start() || opp == e.End {
			t.Errorf("OppositePoint(%v) = %v, an endpoint", e, opp)
		}
		if got := tri.OppositeEdge(opp); got != e {
			t.Errorf("OppositeEdge(%v) = %v, want %v", opp, got, e)
		}
	}

	testCases := []struct {
		name string
		p    mgl64.Vec2
		want Location
	}{
		{name: "inside", p: mgl64.Vec2{1, 1}, want: Inside},
		{name: "on edge", p: mgl64.Vec2{2, 0}, want: On},
		{name: "on vertex", p: mgl64.Vec2{0, 3}, want: On},
		{name: "outside", p: mgl64.Vec2{3, 3}, want: Outside},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tri.Contains(tc.p); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}
