package gotri

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/rclancey/earcut"
)

// PSLG is the input domain: an outer ring, hole rings and interior points
// that must appear in the mesh. Rings may be given in either orientation
// and must not repeat their first point at the end.
type PSLG struct {
	Outline []mgl64.Vec2
	Holes   [][]mgl64.Vec2
	Steiner []mgl64.Vec2
}

func (p *PSLG) AddHole(ring []mgl64.Vec2) {
	p.Holes = append(p.Holes, ring)
}

func (p *PSLG) AddSteiner(pts ...mgl64.Vec2) {
	p.Steiner = append(p.Steiner, pts...)
}

// Bounds returns the bounding box of the outline.
func (p *PSLG) Bounds() (min, max mgl64.Vec2) {
	for i, v := range p.Outline {
		if i == 0 {
			min, max = v, v
			continue
		}
		for k := 0; k < 2; k++ {
			if v[k] < min[k] {
				min[k] = v[k]
			}
			if v[k] > max[k] {
				max[k] = v[k]
			}
		}
	}
	return min, max
}

// NewCDT triangulates pslg. The outline and holes become constrained
// edges, the Steiner points are inserted afterwards and the result is
// constrained Delaunay.
func NewCDT(pslg *PSLG) (*CDT, error) {
	outline := cleanRing(pslg.Outline)
	if len(outline) < 3 {
		return nil, errors.Wrapf(ErrDegenerateInput, "outline has %d distinct points", len(outline))
	}
	rings := [][]mgl64.Vec2{outline}
	for i, h := range pslg.Holes {
		h = cleanRing(h)
		if len(h) < 3 {
			return nil, errors.Wrapf(ErrDegenerateInput, "hole %d has %d distinct points", i, len(h))
		}
		rings = append(rings, h)
	}

	var coords []float64
	var holeIndices []int
	n := 0
	for i, r := range rings {
		if i > 0 {
			holeIndices = append(holeIndices, n)
		}
		for _, v := range r {
			coords = append(coords, v[0], v[1])
			n++
		}
	}

	indices, err := earcut.Earcut(coords, holeIndices, 2)
	if err != nil {
		return nil, errors.Wrap(err, "seed triangulation")
	}
	if len(indices) == 0 {
		return nil, errors.Wrap(ErrDegenerateInput, "seed triangulation is empty")
	}

	m := NewMesh()
	cdt := &CDT{Mesh: m, Outline: pslg}

	points := make([]*Point, 0, n)
	for _, r := range rings {
		for _, v := range r {
			points = append(points, m.NewPoint(v))
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := points[indices[i]], points[indices[i+1]], points[indices[i+2]]
		if err := seedTriangle(m, a, b, c); err != nil {
			m.Destroy()
			return nil, err
		}
	}

	offset := 0
	for i, r := range rings {
		if err := cdt.constrainRing(points[offset : offset+len(r)]); err != nil {
			m.Destroy()
			return nil, errors.Wrapf(err, "ring %d", i)
		}
		offset += len(r)
	}

	set := NewFlipSet()
	for _, e := range m.UndirectedEdges() {
		set.AddEdge(e)
	}
	FlipFix(m, set)

	var guess *Triangle
	for i, s := range pslg.Steiner {
		p, err := cdt.InsertPoint(s, guess)
		if err != nil {
			m.Destroy()
			return nil, errors.Wrapf(err, "steiner point %d", i)
		}
		if tris := p.Triangles(); len(tris) > 0 {
			guess = tris[0]
		}
	}

	return cdt, nil
}

func seedTriangle(m *Mesh, a, b, c *Point) error {
	switch Orient(a.C, b.C, c.C) {
	case Linear:
		return errors.Wrapf(ErrDegenerateInput, "seed triangle %v %v %v is flat", a, b, c)
	case CCW:
		b, c = c, b
	}
	ab := m.NewOrExistingEdge(a, b, false)
	bc := m.NewOrExistingEdge(b, c, false)
	ca := m.NewOrExistingEdge(c, a, false)
	defer func() {
		ab.Unref()
		bc.Unref()
		ca.Unref()
	}()
	if ab.Tri != nil || bc.Tri != nil || ca.Tri != nil {
		return errors.Wrapf(ErrDegenerateInput, "seed triangles overlap at %v %v %v", a, b, c)
	}
	m.NewTriangle(ab, bc, ca)
	return nil
}

// constrainRing marks the ring's edges as constrained. The seed
// triangulation skips exactly collinear ring points; those are put back by
// splitting the edge that spans them.
func (c *CDT) constrainRing(ring []*Point) error {
	var kept []int
	for i, p := range ring {
		if p.Degree() > 0 {
			kept = append(kept, i)
		}
	}
	if len(kept) < 3 {
		return errors.Wrap(ErrDegenerateInput, "ring is flat")
	}

	n := len(ring)
	for k, i := range kept {
		j := kept[(k+1)%len(kept)]
		e := ring[i].EdgeTo(ring[j])
		if e == nil {
			return errors.Wrapf(ErrDegenerateInput, "boundary edge %v %v is missing", ring[i], ring[j])
		}
		e.Constrained = true
		e.Mirror.Constrained = true

		for idx := (i + 1) % n; idx != j; idx = (idx + 1) % n {
			halves := c.SplitEdge(e, ring[idx])
			e = halves[1]
		}
	}
	return nil
}

// cleanRing drops repeated consecutive points, including a closing point
// equal to the first.
func cleanRing(ring []mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, len(ring))
	for _, v := range ring {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
