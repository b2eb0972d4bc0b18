package render

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo/float"
	"github.com/pkg/errors"
	"github.com/smasonuk/gotri"
)

type SVGOptions struct {
	// Width of the drawing in user units; the height follows the mesh's
	// aspect ratio.
	Width  float64
	Margin float64
	// PointRadius of the vertex markers, 0 hides them.
	PointRadius float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Margin: 10, PointRadius: 2}
}

const (
	triangleStyle    = "fill:#e8f0ff;stroke:#4060a0;stroke-width:0.5"
	constrainedStyle = "stroke:#000000;stroke-width:2"
	pointStyle       = "fill:#c03030;stroke:none"
)

// SVG draws m: triangles filled and outlined, constrained edges in bold and
// the vertices as dots. The y axis points up.
func SVG(w io.Writer, m *gotri.Mesh, opts SVGOptions) error {
	min, max := m.Bounds()
	size := max.Sub(min)
	scale := 1.0
	if size[0] > 0 {
		scale = (opts.Width - 2*opts.Margin) / size[0]
	} else if size[1] > 0 {
		scale = (opts.Width - 2*opts.Margin) / size[1]
	}
	height := size[1]*scale + 2*opts.Margin

	tx := func(x float64) float64 { return opts.Margin + (x-min[0])*scale }
	ty := func(y float64) float64 { return height - opts.Margin - (y-min[1])*scale }

	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(opts.Width, height)
	canvas.Title(fmt.Sprintf("%d triangles, %d points, min angle %.2f",
		m.TriangleCount(), m.PointCount(), MinAngleDegrees(m)))

	for _, t := range m.Triangles() {
		xs := make([]float64, 3)
		ys := make([]float64, 3)
		for i, p := range t.Points() {
			xs[i], ys[i] = tx(p.C[0]), ty(p.C[1])
		}
		canvas.Polygon(xs, ys, triangleStyle)
	}

	for _, e := range m.Segments() {
		a, b := e.Start().C, e.End.C
		canvas.Line(tx(a[0]), ty(a[1]), tx(b[0]), ty(b[1]), constrainedStyle)
	}

	if opts.PointRadius > 0 {
		for _, p := range m.Points() {
			canvas.Circle(tx(p.C[0]), ty(p.C[1]), opts.PointRadius, pointStyle)
		}
	}

	canvas.End()
	return errors.Wrap(bw.Flush(), "write svg")
}

// MinAngleDegrees is the smallest triangle angle in m, or 0 for an empty
// mesh.
func MinAngleDegrees(m *gotri.Mesh) float64 {
	if m.TriangleCount() == 0 {
		return 0
	}
	best := math.Inf(1)
	for _, t := range m.Triangles() {
		best = math.Min(best, t.MinAngle())
	}
	return best * 180 / math.Pi
}
