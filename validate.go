package gotri

import (
	"github.com/pkg/errors"
)

// ValidateEdges checks the topology: mirrors pair up, triangles close and
// point back from their edges, and every unconstrained edge has a triangle
// on both sides. The domain is bounded by constrained edges only.
func (c *CDT) ValidateEdges() error {
	m := c.Mesh
	for _, e := range m.Edges() {
		if e.Mirror == nil || e.Mirror.Mirror != e {
			return errors.Wrapf(ErrInvalidMesh, "edge %v has a broken mirror", e)
		}
		if !m.ContainsEdge(e.Mirror) {
			return errors.Wrapf(ErrInvalidMesh, "mirror of edge %v is not in the mesh", e)
		}
		if e.Start().EdgeTo(e.End) != e {
			return errors.Wrapf(ErrInvalidMesh, "edge %v is not an out edge of its start", e)
		}
		if e.Constrained != e.Mirror.Constrained {
			return errors.Wrapf(ErrInvalidMesh, "edge %v and its mirror disagree on constraint", e)
		}
		if e.Tri != nil {
			if !m.ContainsTriangle(e.Tri) {
				return errors.Wrapf(ErrInvalidMesh, "edge %v points to a dead triangle", e)
			}
			if e.Tri.EdgeIndex(e) < 0 {
				return errors.Wrapf(ErrInvalidMesh, "edge %v is not part of its triangle", e)
			}
		}
		if !e.Constrained && !e.IsInterior() {
			return errors.Wrapf(ErrInvalidMesh, "unconstrained edge %v has fewer than two triangles", e)
		}
		if !e.IsInterior() && !e.IsBoundary() {
			return errors.Wrapf(ErrInvalidMesh, "edge %v has no triangle", e)
		}
	}

	for _, t := range m.Triangles() {
		for i, e := range t.Edges {
			next := t.Edges[(i+1)%3]
			if e.End != next.Start() {
				return errors.Wrapf(ErrInvalidMesh, "triangle %v does not close", t)
			}
			if e.Tri != t {
				return errors.Wrapf(ErrInvalidMesh, "edge %v does not point back to %v", e, t)
			}
		}
		a, b, cc := t.Coords()
		if Orient(a, b, cc) != CW {
			return errors.Wrapf(ErrInvalidMesh, "triangle %v is not clockwise", t)
		}
	}
	return nil
}

// ValidateCDT checks the constrained empty circumcircle property: any point
// strictly inside a triangle's circumcircle must be hidden from the
// triangle's interior. A point sees the interior through an unconstrained
// edge whose outer side it is on.
func (c *CDT) ValidateCDT() error {
	if err := c.ValidateEdges(); err != nil {
		return err
	}
	points := c.Mesh.Points()
	for _, t := range c.Mesh.Triangles() {
		for _, p := range points {
			if t.PointIndex(p) >= 0 || t.InCircumcircle(p.C) != Inside {
				continue
			}
			if c.visibleFromTriangle(t, p) {
				return errors.Wrapf(ErrInvalidMesh, "point %v violates the circumcircle of %v", p, t)
			}
		}
	}
	return nil
}

func (c *CDT) visibleFromTriangle(t *Triangle, p *Point) bool {
	for _, e := range t.Edges {
		if e.Constrained {
			continue
		}
		if Orient(e.Start().C, e.End.C, p.C) != CCW {
			continue
		}
		if c.VisibleFromEdge(e, p.C) {
			return true
		}
	}
	return false
}
