package gotri

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// RefineResult reports how a Refine call ended. Exactly one of Converged,
// BudgetExhausted and Stalled is set. Converged means no triangle is bad.
// Stalled means the work ran out while bad triangles remain, for example
// at an input angle below Theta. Skipped counts attempts given up on
// because no valid insertion point could be found.
type RefineResult struct {
	Steps           int
	Converged       bool
	BudgetExhausted bool
	Stalled         bool
	Skipped         int
	Bad             int
}

// ProgressFunc is called after every step.
type ProgressFunc func(step, maxSteps int)

// Refiner improves a CDT by inserting circumcenters of bad triangles and
// splitting encroached constrained edges at their midpoints. A circumcenter
// that would encroach a constrained edge is rolled back and the edge is
// split instead.
type Refiner struct {
	cdt      *CDT
	cfg      RefinerConfig
	bad      *badTriangles
	segments *segmentQueue
	minSeg   float64
	skipped  int
}

func NewRefiner(cdt *CDT, cfg RefinerConfig) *Refiner {
	if cfg.TooBig == nil {
		cfg.TooBig = FalseTooBig
	}
	r := &Refiner{
		cdt:      cdt,
		cfg:      cfg,
		bad:      newBadTriangles(),
		segments: newSegmentQueue(),
	}

	min, max := cdt.Mesh.Bounds()
	r.minSeg = math.Max(cfg.MinSegmentLength, 1e-9*max.Sub(min).Len())

	for _, t := range cdt.Mesh.Triangles() {
		if r.isBad(t) {
			r.bad.push(t)
		}
	}
	for _, e := range cdt.Mesh.Segments() {
		if segmentEncroached(e) {
			r.segments.push(NewVEdgeFromEdge(e))
		}
	}
	return r
}

func (r *Refiner) isBad(t *Triangle) bool {
	return t.MinAngle() < r.cfg.Theta || r.cfg.TooBig(t)
}

// Refine runs up to maxSteps steps; a negative maxSteps uses the configured
// budget. Running out of steps is reported, not returned as an error.
func (r *Refiner) Refine(maxSteps int, progress ProgressFunc) (RefineResult, error) {
	if maxSteps < 0 {
		maxSteps = r.cfg.MaxSteps
	}

	var res RefineResult
	for res.Steps < maxSteps {
		worked, err := r.Step()
		if err != nil {
			res.Skipped = r.skipped
			return res, err
		}
		if !worked {
			break
		}
		res.Steps++
		if progress != nil {
			progress(res.Steps, maxSteps)
		}
	}

	res.Skipped = r.skipped
	res.Bad = r.BadCount()
	switch {
	case r.hasWork():
		res.BudgetExhausted = true
	case res.Bad > 0:
		res.Stalled = true
	default:
		res.Converged = true
	}
	r.logf("refine: %d steps, converged=%v, stalled=%v, skipped=%d, %d bad of %d triangles",
		res.Steps, res.Converged, res.Stalled, res.Skipped, res.Bad, r.cdt.Mesh.TriangleCount())
	return res, nil
}

// BadCount returns how many live triangles fail the angle or size bound.
func (r *Refiner) BadCount() int {
	n := 0
	for t := range r.cdt.Mesh.triangles {
		if r.isBad(t) {
			n++
		}
	}
	return n
}

// Step performs one refinement action and reports false when nothing is
// left to do. Encroached constrained edges go before bad triangles.
func (r *Refiner) Step() (bool, error) {
	if e := r.nextSegment(); e != nil {
		r.logf("refine: split encroached segment %v", e)
		if !r.splitSegment(e) {
			r.skipped++
		}
		return true, nil
	}

	t := r.nextTriangle()
	if t == nil {
		return false, nil
	}
	defer t.Unref()
	return true, r.refineTriangle(t)
}

func (r *Refiner) refineTriangle(t *Triangle) error {
	m := r.cdt.Mesh
	circle, ok := t.Circumcircle()
	if !ok {
		r.skipped++
		return nil
	}
	c := circle.Center

	start, blocker := r.walkTo(t, c)
	if blocker != nil {
		// the circumcenter is hidden behind a constrained edge
		r.logf("refine: circumcenter of %v blocked by %v", t, blocker)
		if !r.splitSegment(blocker) {
			r.skipped++
			return nil
		}
		r.requeue(t)
		return nil
	}
	if start == nil {
		r.skipped++
		return nil
	}

	before := m.PointCount()
	m.BeginActionGroup()
	p, err := r.cdt.InsertPoint(c, start)
	if err != nil {
		m.UndoActionGroup()
		if errors.Is(err, ErrOutsideDomain) {
			r.skipped++
			return nil
		}
		return err
	}
	if m.PointCount() == before {
		m.UndoActionGroup()
		r.skipped++
		return nil
	}

	if enc := r.encroachedBy(p); len(enc) > 0 {
		m.UndoActionGroup()
		r.logf("refine: reject circumcenter (%g, %g), encroaches %d segments", c[0], c[1], len(enc))
		splittable := false
		for _, ve := range enc {
			if e := ve.Edge(); e != nil && e.Length() > r.minSeg {
				splittable = true
			}
			r.segments.push(ve)
		}
		if !splittable {
			r.skipped++
			return nil
		}
		r.requeue(t)
		return nil
	}

	m.CommitActionGroup()
	r.logf("refine: insert circumcenter %v", p)
	r.afterInsert(p)
	return nil
}

// walkTo follows the segment from the centroid of t to target. It returns
// the triangle containing target, or the constrained edge that the segment
// crosses first. Both are nil if the walk gets lost.
func (r *Refiner) walkTo(t *Triangle, target mgl64.Vec2) (*Triangle, *Edge) {
	from := t.Centroid()
	var entered *Edge
	for i := 0; i <= r.cdt.Mesh.TriangleCount(); i++ {
		if t.Contains(target) != Outside {
			return t, nil
		}

		var exit *Edge
		for _, e := range t.Edges {
			if e == entered {
				continue
			}
			a, b := e.Start().C, e.End.C
			if Orient(a, b, target) != CCW {
				continue
			}
			if SegmentsIntersect(from, target, a, b) != NoIntersection {
				exit = e
				break
			}
		}
		if exit == nil {
			return nil, nil
		}
		if exit.Constrained || exit.Mirror.Tri == nil {
			return nil, exit
		}
		entered = exit.Mirror
		t = exit.Mirror.Tri
	}
	return nil, nil
}

// encroachedBy lists the constrained edges that p encroaches: those
// opposite p whose diametral circle holds it, and the edge p lies on.
func (r *Refiner) encroachedBy(p *Point) []*VEdge {
	var enc []*VEdge
	for _, t := range p.Triangles() {
		opp := t.OppositeEdge(p)
		if opp.Constrained && inDiametralCircle(opp.Start().C, opp.End.C, p.C) {
			enc = append(enc, NewVEdgeFromEdge(opp))
		}
	}

	var ends []*Point
	for _, e := range p.OutEdges() {
		if e.Constrained {
			ends = append(ends, e.End)
		}
	}
	if len(ends) == 2 {
		enc = append(enc, NewVEdge(ends[0], ends[1], true))
	}
	return enc
}

// segmentEncroached reports whether the apex of a triangle next to e lies
// inside e's diametral circle.
func segmentEncroached(e *Edge) bool {
	a, b := e.Start().C, e.End.C
	for _, h := range [2]*Edge{e, e.Mirror} {
		if h.Tri == nil {
			continue
		}
		if inDiametralCircle(a, b, h.Tri.OppositePoint(h).C) {
			return true
		}
	}
	return false
}

func (r *Refiner) splitSegment(e *Edge) bool {
	if e.Length() <= r.minSeg {
		return false
	}
	p := r.cdt.Mesh.NewPoint(midpoint(e.Start().C, e.End.C))
	r.cdt.SplitEdge(e, p)
	r.afterInsert(p)
	return true
}

// afterInsert queues what the new point p may have spoiled.
func (r *Refiner) afterInsert(p *Point) {
	for _, t := range p.Triangles() {
		if r.isBad(t) {
			r.bad.push(t)
		}
		for _, e := range t.Edges {
			if e.Constrained && segmentEncroached(e) {
				r.segments.push(NewVEdgeFromEdge(e))
			}
		}
	}
}

func (r *Refiner) requeue(t *Triangle) {
	if r.cdt.Mesh.ContainsTriangle(t) && r.isBad(t) {
		r.bad.push(t)
	}
}

// nextSegment pops queued segments until one still exists.
func (r *Refiner) nextSegment() *Edge {
	for {
		ve := r.segments.pop()
		if ve == nil {
			return nil
		}
		e := ve.Edge()
		ve.Unref()
		if e != nil && e.Constrained && e.Length() > r.minSeg {
			return e
		}
	}
}

// nextTriangle pops queued triangles until one is live and still bad. The
// caller must Unref it.
func (r *Refiner) nextTriangle() *Triangle {
	for {
		t := r.bad.pop()
		if t == nil {
			return nil
		}
		if r.cdt.Mesh.ContainsTriangle(t) && r.isBad(t) {
			return t
		}
		t.Unref()
	}
}

// hasWork drops stale entries at the head of both queues and reports
// whether a live one remains.
func (r *Refiner) hasWork() bool {
	for r.segments.len() > 0 {
		ve := r.segments.items[0]
		if e := ve.Edge(); e != nil && e.Constrained && e.Length() > r.minSeg {
			return true
		}
		r.segments.pop().Unref()
	}
	for r.bad.len() > 0 {
		t := r.bad.heap[0].tri
		if r.cdt.Mesh.ContainsTriangle(t) && r.isBad(t) {
			return true
		}
		r.bad.pop().Unref()
	}
	return false
}

func (r *Refiner) logf(format string, args ...interface{}) {
	if r.cfg.Verbose && r.cfg.Logger != nil {
		r.cfg.Logger.Printf(format, args...)
	}
}
