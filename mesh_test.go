package gotri

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec2) bool {
	return almostEqual(a[0], b[0]) && almostEqual(a[1], b[1])
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func squarePSLG() *PSLG {
	return &PSLG{Outline: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
}

func mustCDT(t *testing.T, pslg *PSLG) *CDT {
	t.Helper()
	cdt, err := NewCDT(pslg)
	if err != nil {
		t.Fatalf("NewCDT() error = %v", err)
	}
	return cdt
}

func findMeshPoint(m *Mesh, c mgl64.Vec2) *Point {
	for _, p := range m.Points() {
		if vecAlmostEqual(p.C, c) {
			return p
		}
	}
	return nil
}

func totalArea(m *Mesh) float64 {
	sum := 0.0
	for _, t := range m.Triangles() {
		sum += t.Area()
	}
	return sum
}

// fingerprint describes the mesh by coordinates only, so two meshes with
// the same connectivity compare equal whatever their object identity.
func fingerprint(m *Mesh) string {
	key := func(p *Point) string {
		return fmt.Sprintf("%.9g,%.9g", p.C[0], p.C[1])
	}

	var pts []string
	for _, p := range m.Points() {
		pts = append(pts, key(p))
	}
	sort.Strings(pts)

	var edges []string
	for _, e := range m.UndirectedEdges() {
		ends := []string{key(e.Start()), key(e.End)}
		sort.Strings(ends)
		edges = append(edges, fmt.Sprintf("%s|%s|%v", ends[0], ends[1], e.Constrained))
	}
	sort.Strings(edges)

	var tris []string
	for _, t := range m.Triangles() {
		corners := []string{key(t.Point(0)), key(t.Point(1)), key(t.Point(2))}
		sort.Strings(corners)
		tris = append(tris, strings.Join(corners, " "))
	}
	sort.Strings(tris)

	return strings.Join(pts, ";") + "\n" + strings.Join(edges, ";") + "\n" + strings.Join(tris, ";")
}

func checkInvariants(t *testing.T, m *Mesh) {
	t.Helper()
	for _, e := range m.Edges() {
		if e.Mirror.Mirror != e {
			t.Fatalf("edge %v: mirror.mirror != edge", e)
		}
	}
	for _, tri := range m.Triangles() {
		for i, e := range tri.Edges {
			if e.End != tri.Edges[(i+1)%3].Start() {
				t.Fatalf("triangle %v does not chain head to tail", tri)
			}
			if e.Tri != tri {
				t.Fatalf("edge %v does not point back to %v", e, tri)
			}
		}
	}
}

// buildQuad makes two triangles over the quadrilateral l, bo, r, tp with the
// diagonal l-r and constrained hull edges.
func buildQuad(m *Mesh, l, bo, r, tp mgl64.Vec2) (diag *Edge, pts [4]*Point) {
	L, Bo, R, T := m.NewPoint(l), m.NewPoint(bo), m.NewPoint(r), m.NewPoint(tp)
	diag = m.NewEdge(L, R, false)
	rt, tl := m.NewOrExistingEdge(R, T, true), m.NewOrExistingEdge(T, L, true)
	lb, br := m.NewOrExistingEdge(L, Bo, true), m.NewOrExistingEdge(Bo, R, true)
	m.NewTriangle(diag, rt, tl)
	m.NewTriangle(lb, br, diag.Mirror)
	for _, e := range []*Edge{rt, tl, lb, br} {
		e.Unref()
	}
	return diag, [4]*Point{L, Bo, R, T}
}

func TestNewTriangleOrientation(t *testing.T) {
	testCases := []struct {
		name string
		a, b mgl64.Vec2
		c    mgl64.Vec2
	}{
		{name: "clockwise chain", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{0, 1}, c: mgl64.Vec2{1, 0}},
		{name: "counter-clockwise chain", a: mgl64.Vec2{0, 0}, b: mgl64.Vec2{1, 0}, c: mgl64.Vec2{0, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMesh()
			a, b, c := m.NewPoint(tc.a), m.NewPoint(tc.b), m.NewPoint(tc.c)
			tri := m.NewTriangle(m.NewEdge(a, b, false), m.NewEdge(b, c, false), m.NewEdge(c, a, false))

			pa, pb, pc := tri.Coords()
			if got := Orient(pa, pb, pc); got != CW {
				t.Errorf("Orient(triangle) = %v, want CW", got)
			}
			checkInvariants(t, m)
			if got := m.TriangleCount(); got != 1 {
				t.Errorf("TriangleCount() = %d, want 1", got)
			}
		})
	}
}

func TestNewTriangleRejectsBrokenChain(t *testing.T) {
	m := NewMesh()
	a, b, c, d := m.NewPoint(mgl64.Vec2{0, 0}), m.NewPoint(mgl64.Vec2{1, 0}), m.NewPoint(mgl64.Vec2{0, 1}), m.NewPoint(mgl64.Vec2{1, 1})
	ab := m.NewEdge(a, b, false)
	bc := m.NewEdge(b, c, false)
	da := m.NewEdge(d, a, false)

	assertPanics(t, "NewTriangle(open chain)", func() {
		m.NewTriangle(ab, bc, da)
	})

	e := m.NewEdge(c, a, false)
	m.NewTriangle(ab, bc, e)
	assertPanics(t, "NewTriangle(reused half-edges)", func() {
		m.NewTriangle(ab, bc, e)
	})
}

func TestNewOrExistingEdge(t *testing.T) {
	m := NewMesh()
	a, b := m.NewPoint(mgl64.Vec2{0, 0}), m.NewPoint(mgl64.Vec2{3, 4})

	e := m.NewOrExistingEdge(a, b, true)
	if got := m.NewOrExistingEdge(a, b, false); got != e {
		t.Errorf("NewOrExistingEdge(a, b) = %v, want existing %v", got, e)
	}
	if got := m.NewOrExistingEdge(b, a, false); got != e.Mirror {
		t.Errorf("NewOrExistingEdge(b, a) = %v, want mirror %v", got, e.Mirror)
	}
	if got := m.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}
	if !almostEqual(e.Length(), 5) {
		t.Errorf("Length() = %v, want 5", e.Length())
	}
	if !almostEqual(e.Angle(), math.Atan2(4, 3)) {
		t.Errorf("Angle() = %v, want %v", e.Angle(), math.Atan2(4, 3))
	}
}

func TestNewOrExistingEdgeRefs(t *testing.T) {
	m := NewMesh()
	a, b := m.NewPoint(mgl64.Vec2{0, 0}), m.NewPoint(mgl64.Vec2{1, 0})

	e := m.NewOrExistingEdge(a, b, false)
	if got := e.Refs(); got != 2 {
		t.Errorf("Refs() of a new edge = %d, want 2", got)
	}
	again := m.NewOrExistingEdge(a, b, false)
	if got := e.Refs(); again != e || got != 3 {
		t.Errorf("Refs() of an existing edge = %d, want 3", got)
	}
	again.Unref()
	e.Unref()
	if got := e.Refs(); got != 1 {
		t.Errorf("Refs() after releasing both handles = %d, want 1", got)
	}

	ve := NewVEdge(b, a, false)
	defer ve.Unref()
	mirror := ve.Create()
	if mirror != e.Mirror || mirror.Refs() != 2 {
		t.Errorf("Create() = %v with %d refs, want the mirror with 2", mirror, mirror.Refs())
	}
	mirror.Unref()
	if got := m.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}
}

func TestRefCounting(t *testing.T) {
	m := NewMesh()
	a, b := m.NewPoint(mgl64.Vec2{0, 0}), m.NewPoint(mgl64.Vec2{1, 0})
	if got := a.Refs(); got != 1 {
		t.Errorf("Refs() after NewPoint = %d, want 1", got)
	}

	e := m.NewEdge(a, b, false)
	if got := a.Refs(); got != 2 {
		t.Errorf("Refs() with one edge = %d, want 2", got)
	}
	ve := NewVEdgeFromEdge(e)
	if got := b.Refs(); got != 3 {
		t.Errorf("Refs() with edge and vedge = %d, want 3", got)
	}
	ve.Unref()

	e.Remove()
	if got := a.Refs(); got != 1 {
		t.Errorf("Refs() after edge removal = %d, want 1", got)
	}
	if got := e.Refs(); got != 0 {
		t.Errorf("edge Refs() after removal = %d, want 0", got)
	}

	a.Remove()
	if m.ContainsPoint(a) {
		t.Errorf("ContainsPoint() after Remove = true, want false")
	}
	assertPanics(t, "Unref below zero", func() {
		a.Unref()
	})
}

func TestMeshRefAndDestroy(t *testing.T) {
	cdt := mustCDT(t, squarePSLG())
	m := cdt.Mesh

	m.Ref()
	m.Unref()
	if m.Destroyed() {
		t.Fatalf("Destroyed() = true while a reference remains")
	}
	cdt.Free()
	if !m.Destroyed() {
		t.Fatalf("Destroyed() = false after the last Unref")
	}
	if m.PointCount() != 0 || m.EdgeCount() != 0 || m.TriangleCount() != 0 {
		t.Errorf("destroyed mesh still has %d points, %d edges, %d triangles", m.PointCount(), m.EdgeCount(), m.TriangleCount())
	}
	assertPanics(t, "NewPoint on destroyed mesh", func() {
		m.NewPoint(mgl64.Vec2{1, 1})
	})
}

func TestClear(t *testing.T) {
	cdt := mustCDT(t, squarePSLG())
	cdt.Mesh.Clear()
	if cdt.Mesh.PointCount() != 0 || cdt.Mesh.EdgeCount() != 0 || cdt.Mesh.TriangleCount() != 0 {
		t.Errorf("Clear() left %d points, %d edges, %d triangles", cdt.Mesh.PointCount(), cdt.Mesh.EdgeCount(), cdt.Mesh.TriangleCount())
	}
	cdt.Mesh.NewPoint(mgl64.Vec2{1, 1})
	if got := cdt.Mesh.PointCount(); got != 1 {
		t.Errorf("PointCount() after Clear and NewPoint = %d, want 1", got)
	}
}

func TestRemoveEdgeRemovesTriangles(t *testing.T) {
	m := NewMesh()
	diag, _ := buildQuad(m, mgl64.Vec2{0, 0}, mgl64.Vec2{2, -1}, mgl64.Vec2{4, 0}, mgl64.Vec2{2, 1})
	diag.Remove()
	if got := m.TriangleCount(); got != 0 {
		t.Errorf("TriangleCount() = %d, want 0", got)
	}
	if got := m.EdgeCount(); got != 8 {
		t.Errorf("EdgeCount() = %d, want 8", got)
	}
	for _, e := range m.Edges() {
		if e.Tri != nil {
			t.Errorf("edge %v still points to a triangle", e)
		}
	}
}

func TestFindPointPrefersOldest(t *testing.T) {
	pslg := squarePSLG()
	pslg.AddSteiner(mgl64.Vec2{5, 5})
	cdt := mustCDT(t, pslg)
	m := cdt.Mesh

	// the centre point touches every triangle
	tris := m.Triangles()
	for i := 0; i < 20; i++ {
		if got := m.FindPoint(mgl64.Vec2{5, 5}); got != tris[0] {
			t.Fatalf("FindPoint(vertex) = %v, want the oldest triangle %v", got, tris[0])
		}
	}

	var want *Triangle
	for _, tri := range tris {
		if tri.Contains(mgl64.Vec2{5, 0}) != Outside {
			want = tri
			break
		}
	}
	if got := m.FindPoint(mgl64.Vec2{5, 0}); got != want {
		t.Errorf("FindPoint(edge) = %v, want %v", got, want)
	}
}

func TestFindPoint(t *testing.T) {
	pslg := squarePSLG()
	pslg.AddSteiner(mgl64.Vec2{5, 5}, mgl64.Vec2{2, 7}, mgl64.Vec2{8, 1.5}, mgl64.Vec2{3.3, 2.1})
	cdt := mustCDT(t, pslg)
	m := cdt.Mesh
	guess := m.Triangles()[0]

	testCases := []struct {
		name   string
		query  mgl64.Vec2
		inside bool
	}{
		{name: "interior", query: mgl64.Vec2{6.1, 3.7}, inside: true},
		{name: "near corner", query: mgl64.Vec2{9.9, 9.8}, inside: true},
		{name: "on a vertex", query: mgl64.Vec2{5, 5}, inside: true},
		{name: "on the boundary", query: mgl64.Vec2{4, 0}, inside: true},
		{name: "outside right", query: mgl64.Vec2{12, 5}, inside: false},
		{name: "outside below", query: mgl64.Vec2{5, -0.5}, inside: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, tri := range []*Triangle{m.FindPoint(tc.query), m.FindPointLocal(tc.query, guess), m.FindPointLocal(tc.query, nil)} {
				if !tc.inside {
					if tri != nil {
						t.Errorf("found %v, want nil", tri)
					}
					continue
				}
				if tri == nil {
					t.Fatalf("found nil, want a triangle")
				}
				if got := tri.Contains(tc.query); got == Outside {
					t.Errorf("Contains() = %v for the located triangle", got)
				}
			}

			if !tc.inside {
				return
			}
			tri, u, v := m.FindPointLocalUV(tc.query, guess)
			a, b, c := tri.Coords()
			back := a.Add(b.Sub(a).Mul(u)).Add(c.Sub(a).Mul(v))
			if !vecAlmostEqual(back, tc.query) {
				t.Errorf("A + u(B-A) + v(C-A) = %v, want %v", back, tc.query)
			}
			if u < -1e-9 || v < -1e-9 || u+v > 1+1e-9 {
				t.Errorf("FindPointLocalUV() = (%v, %v), want barycentric inside", u, v)
			}
		})
	}
}

func TestEnumerationIsOrdered(t *testing.T) {
	cdt := mustCDT(t, squarePSLG())
	pts := cdt.Mesh.Points()
	for i := 1; i < len(pts); i++ {
		if pts[i-1].ID() >= pts[i].ID() {
			t.Fatalf("Points() not ordered by id")
		}
	}
	if got := len(cdt.Mesh.Segments()); got != 4 {
		t.Errorf("len(Segments()) = %d, want 4", got)
	}
	if got := len(cdt.Mesh.UndirectedEdges()); got != 5 {
		t.Errorf("len(UndirectedEdges()) = %d, want 5", got)
	}
	min, max := cdt.Mesh.Bounds()
	if !vecAlmostEqual(min, mgl64.Vec2{0, 0}) || !vecAlmostEqual(max, mgl64.Vec2{10, 10}) {
		t.Errorf("Bounds() = %v, %v, want (0,0), (10,10)", min, max)
	}
}
