package gotri

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh owns the points, edges and triangles of a triangulation. Membership
// in a set is what makes an entity live; removed entities keep their links
// so that the action log can put them back.
type Mesh struct {
	triangles map[*Triangle]struct{}
	edges     map[*Edge]struct{}
	points    map[*Point]struct{}

	recording bool
	undoing   bool
	actions   []*MeshAction

	lastID    uint64
	refs      int
	destroyed bool
}

func NewMesh() *Mesh {
	return &Mesh{
		triangles: make(map[*Triangle]struct{}),
		edges:     make(map[*Edge]struct{}),
		points:    make(map[*Point]struct{}),
		refs:      1,
	}
}

func (m *Mesh) Ref() {
	m.refs++
}

// Unref drops a reference and destroys the mesh when none remain.
func (m *Mesh) Unref() {
	if m.refs <= 0 {
		panic("gotri: mesh refcount underflow")
	}
	m.refs--
	if m.refs == 0 {
		m.Destroy()
	}
}

func (m *Mesh) nextID() uint64 {
	m.lastID++
	return m.lastID
}

func (m *Mesh) checkAlive() {
	if m.destroyed {
		panic("gotri: use of destroyed mesh")
	}
}

func (m *Mesh) NewPoint(c mgl64.Vec2) *Point {
	m.checkAlive()
	p := &Point{C: c, mesh: m, id: m.nextID()}
	m.addPoint(p)
	return p
}

// NewEdge creates the half-edge start->end and its mirror. Neither side is
// attached to a triangle.
func (m *Mesh) NewEdge(start, end *Point, constrained bool) *Edge {
	m.checkAlive()
	if start == end {
		panic(fmt.Sprintf("gotri: zero length edge at %v", start))
	}
	if start.mesh != m || end.mesh != m {
		panic("gotri: edge endpoints belong to another mesh")
	}

	e := &Edge{End: end, Constrained: constrained, id: m.nextID()}
	mirror := &Edge{End: start, Constrained: constrained, id: m.nextID()}
	e.Mirror = mirror
	mirror.Mirror = e

	d := end.C.Sub(start.C)
	e.angle = VectorAngle2(d)
	mirror.angle = VectorAngle2(d.Mul(-1))

	m.addEdge(e)
	return e
}

// NewOrExistingEdge returns the half-edge start->end, creating it only when
// the two points are not connected yet. Either way the caller owns one
// reference to the result and must Unref it.
func (m *Mesh) NewOrExistingEdge(start, end *Point, constrained bool) *Edge {
	e := start.EdgeTo(end)
	if e == nil {
		e = m.NewEdge(start, end, constrained)
	}
	e.Ref()
	return e
}

// NewTriangle builds a triangle from a closed chain of half-edges. A
// counter-clockwise chain is replaced by the mirrors so the stored cycle is
// clockwise. Panics when the chain does not close, is degenerate, or a
// half-edge already bounds another triangle.
func (m *Mesh) NewTriangle(ab, bc, ca *Edge) *Triangle {
	m.checkAlive()
	if ab.End != bc.Start() || bc.End != ca.Start() || ca.End != ab.Start() {
		panic(fmt.Sprintf("gotri: edges %v %v %v do not form a chain", ab, bc, ca))
	}

	switch Orient(ab.Start().C, bc.Start().C, ca.Start().C) {
	case Linear:
		panic(fmt.Sprintf("gotri: degenerate triangle %v %v %v", ab.Start(), bc.Start(), ca.Start()))
	case CCW:
		ab, bc, ca = ca.Mirror, bc.Mirror, ab.Mirror
	}

	t := &Triangle{Edges: [3]*Edge{ab, bc, ca}, mesh: m, id: m.nextID()}
	m.addTriangle(t)
	return t
}

func (m *Mesh) addPoint(p *Point) {
	if _, ok := m.points[p]; ok {
		panic(fmt.Sprintf("gotri: point %d already in mesh", p.id))
	}
	m.points[p] = struct{}{}
	p.Ref()
	m.record(ActionPoint, true, p)
}

func (m *Mesh) addEdge(e *Edge) {
	if _, ok := m.edges[e]; ok {
		panic(fmt.Sprintf("gotri: edge %d already in mesh", e.id))
	}
	for _, h := range [2]*Edge{e, e.Mirror} {
		m.edges[h] = struct{}{}
		h.Ref()
		h.Start().addOutEdge(h)
	}
	m.record(ActionEdge, true, e)
}

func (m *Mesh) addTriangle(t *Triangle) {
	if _, ok := m.triangles[t]; ok {
		panic(fmt.Sprintf("gotri: triangle %d already in mesh", t.id))
	}
	for _, e := range t.Edges {
		if !m.ContainsEdge(e) {
			panic(fmt.Sprintf("gotri: edge %v of triangle is not in mesh", e))
		}
		if e.Tri != nil {
			panic(fmt.Sprintf("gotri: edge %v already bounds triangle %d", e, e.Tri.id))
		}
	}
	for _, e := range t.Edges {
		e.Tri = t
		e.Ref()
		e.delaunay = false
		e.Mirror.delaunay = false
	}
	m.triangles[t] = struct{}{}
	t.Ref()
	m.record(ActionTriangle, true, t)
}

func (m *Mesh) onPointRemoved(p *Point) {
	if len(p.outEdges) != 0 {
		panic(fmt.Sprintf("gotri: removing point %d with %d edges", p.id, len(p.outEdges)))
	}
	m.record(ActionPoint, false, p)
	delete(m.points, p)
	p.Unref()
}

func (m *Mesh) onEdgeRemoved(e *Edge) {
	if e.Tri != nil || e.Mirror.Tri != nil {
		panic(fmt.Sprintf("gotri: removing edge %v still bound to a triangle", e))
	}
	m.record(ActionEdge, false, e)
	for _, h := range [2]*Edge{e, e.Mirror} {
		h.Start().removeOutEdge(h)
		delete(m.edges, h)
		h.Unref()
	}
}

func (m *Mesh) onTriangleRemoved(t *Triangle) {
	m.record(ActionTriangle, false, t)
	for _, e := range t.Edges {
		if e.Tri != t {
			panic(fmt.Sprintf("gotri: edge %v does not point back to triangle %d", e, t.id))
		}
		e.Tri = nil
		e.Unref()
	}
	delete(m.triangles, t)
	t.Unref()
}

func (m *Mesh) ContainsPoint(p *Point) bool {
	_, ok := m.points[p]
	return ok
}

func (m *Mesh) ContainsEdge(e *Edge) bool {
	_, ok := m.edges[e]
	return ok
}

func (m *Mesh) ContainsTriangle(t *Triangle) bool {
	_, ok := m.triangles[t]
	return ok
}

func (m *Mesh) PointCount() int {
	return len(m.points)
}

// EdgeCount counts half-edges.
func (m *Mesh) EdgeCount() int {
	return len(m.edges)
}

func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Triangles returns the live triangles ordered by creation.
func (m *Mesh) Triangles() []*Triangle {
	tris := make([]*Triangle, 0, len(m.triangles))
	for t := range m.triangles {
		tris = append(tris, t)
	}
	sort.Slice(tris, func(i, j int) bool { return tris[i].id < tris[j].id })
	return tris
}

// Edges returns every live half-edge ordered by creation.
func (m *Mesh) Edges() []*Edge {
	edges := make([]*Edge, 0, len(m.edges))
	for e := range m.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].id < edges[j].id })
	return edges
}

// UndirectedEdges returns one half of each edge pair.
func (m *Mesh) UndirectedEdges() []*Edge {
	var edges []*Edge
	for _, e := range m.Edges() {
		if e.id < e.Mirror.id {
			edges = append(edges, e)
		}
	}
	return edges
}

// Segments returns one half of each constrained edge pair.
func (m *Mesh) Segments() []*Edge {
	var segs []*Edge
	for _, e := range m.UndirectedEdges() {
		if e.Constrained {
			segs = append(segs, e)
		}
	}
	return segs
}

func (m *Mesh) Points() []*Point {
	pts := make([]*Point, 0, len(m.points))
	for p := range m.points {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].id < pts[j].id })
	return pts
}

// Bounds returns the bounding box of all points.
func (m *Mesh) Bounds() (min, max mgl64.Vec2) {
	first := true
	for p := range m.points {
		if first {
			min, max = p.C, p.C
			first = false
			continue
		}
		for i := 0; i < 2; i++ {
			if p.C[i] < min[i] {
				min[i] = p.C[i]
			}
			if p.C[i] > max[i] {
				max[i] = p.C[i]
			}
		}
	}
	return min, max
}

// FindPoint scans every triangle for one containing p. When p is on an
// edge or a vertex the oldest matching triangle wins.
func (m *Mesh) FindPoint(p mgl64.Vec2) *Triangle {
	var best *Triangle
	for t := range m.triangles {
		if best != nil && t.id > best.id {
			continue
		}
		if t.Contains(p) != Outside {
			best = t
		}
	}
	return best
}

func (m *Mesh) FindPointUV(p mgl64.Vec2) (*Triangle, float64, float64) {
	t := m.FindPoint(p)
	if t == nil {
		return nil, 0, 0
	}
	u, v := t.UV(p)
	return t, u, v
}

// FindPointLocal walks from guess towards p, crossing the first edge that
// has p on its outer side. It returns nil when the walk leaves the domain.
// A nil or dead guess starts from the oldest triangle.
func (m *Mesh) FindPointLocal(p mgl64.Vec2, guess *Triangle) *Triangle {
	if guess == nil || !m.ContainsTriangle(guess) {
		guess = m.firstTriangle()
		if guess == nil {
			return nil
		}
	}

	visited := make(map[*Triangle]struct{})
	t := guess
walk:
	for {
		if _, seen := visited[t]; seen {
			// oriented walks can cycle in non-Delaunay regions
			return m.FindPoint(p)
		}
		visited[t] = struct{}{}

		for _, e := range t.Edges {
			if Orient(e.Start().C, e.End.C, p) == CCW {
				next := e.Mirror.Tri
				if next == nil {
					return nil
				}
				t = next
				continue walk
			}
		}
		return t
	}
}

func (m *Mesh) FindPointLocalUV(p mgl64.Vec2, guess *Triangle) (*Triangle, float64, float64) {
	t := m.FindPointLocal(p, guess)
	if t == nil {
		return nil, 0, 0
	}
	u, v := t.UV(p)
	return t, u, v
}

func (m *Mesh) firstTriangle() *Triangle {
	var first *Triangle
	for t := range m.triangles {
		if first == nil || t.id < first.id {
			first = t
		}
	}
	return first
}

// Clear removes every entity. The action log is dropped.
func (m *Mesh) Clear() {
	m.checkAlive()
	m.dropActions()
	for _, t := range m.Triangles() {
		t.Remove()
	}
	for _, e := range m.Edges() {
		e.Remove()
	}
	for _, p := range m.Points() {
		p.Remove()
	}
}

// Destroy clears the mesh. Any further mutation panics.
func (m *Mesh) Destroy() {
	if m.destroyed {
		return
	}
	m.Clear()
	m.destroyed = true
}

func (m *Mesh) Destroyed() bool {
	return m.destroyed
}
