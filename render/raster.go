// Package render draws meshes as SVG outlines and as color-interpolated
// raster images.
package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/pkg/errors"
	"github.com/smasonuk/gotri"
)

// ImageConfig maps pixels to mesh coordinates. Pixel (x, y) samples the
// point (MinX + x*StepX, MinY + y*StepY).
type ImageConfig struct {
	MinX, MinY   float64
	StepX, StepY float64
	XSamples     int
	YSamples     int
}

// NewImageConfig spreads width by height samples over the box from min to
// max, both corners included.
func NewImageConfig(min, max mgl64.Vec2, width, height int) ImageConfig {
	cfg := ImageConfig{MinX: min[0], MinY: min[1], XSamples: width, YSamples: height}
	if width > 1 {
		cfg.StepX = (max[0] - min[0]) / float64(width-1)
	}
	if height > 1 {
		cfg.StepY = (max[1] - min[1]) / float64(height-1)
	}
	return cfg
}

func (c ImageConfig) Sample(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{c.MinX + float64(x)*c.StepX, c.MinY + float64(y)*c.StepY}
}

// Pixel maps a mesh coordinate back to fractional pixel coordinates.
func (c ImageConfig) Pixel(p mgl64.Vec2) (float64, float64) {
	px, py := 0.0, 0.0
	if c.StepX != 0 {
		px = (p[0] - c.MinX) / c.StepX
	}
	if c.StepY != 0 {
		py = (p[1] - c.MinY) / c.StepY
	}
	return px, py
}

// PointToColorFunc gives the color of a mesh vertex.
type PointToColorFunc func(p *gotri.Point) color.RGBA

// IDColor derives a stable color from the point id, mixing the low bits
// into every channel.
func IDColor(p *gotri.Point) color.RGBA {
	v := p.ID() * 2654435761
	b1 := uint8(v)
	b2 := uint8(v >> 10)
	b3 := uint8(v >> 20)
	return color.RGBA{R: b1, G: b1 ^ b2, B: b1 ^ b3, A: 255}
}

// UVT is a cached sample: the triangle holding it and its coordinates
// relative to the triangle's first vertex. Tri is nil off the mesh.
type UVT struct {
	Tri  *gotri.Triangle
	U, V float64
}

// UVCache holds the located triangle for every pixel. It is only valid
// until the mesh changes.
type UVCache struct {
	Config ImageConfig
	cells  []UVT
}

// CacheUVT locates every sample of cfg in m. Each lookup walks from the
// previous hit; a walk that leaves the domain, as it can around holes and
// reflex corners, falls back to a full scan.
func CacheUVT(m *gotri.Mesh, cfg ImageConfig) *UVCache {
	c := &UVCache{Config: cfg, cells: make([]UVT, cfg.XSamples*cfg.YSamples)}
	var guess *gotri.Triangle
	for y := 0; y < cfg.YSamples; y++ {
		for x := 0; x < cfg.XSamples; x++ {
			p := cfg.Sample(x, y)
			tri, u, v := m.FindPointLocalUV(p, guess)
			if tri == nil {
				tri, u, v = m.FindPointUV(p)
			}
			c.cells[y*cfg.XSamples+x] = UVT{Tri: tri, U: u, V: v}
			if tri != nil {
				guess = tri
			}
		}
	}
	return c
}

func (c *UVCache) At(x, y int) UVT {
	return c.cells[y*c.Config.XSamples+x]
}

// Interpolate colors every cached sample from the colors of its triangle's
// vertices. Samples off the mesh stay transparent.
func (c *UVCache) Interpolate(pt2col PointToColorFunc) *image.RGBA {
	cfg := c.Config
	img := image.NewRGBA(image.Rect(0, 0, cfg.XSamples, cfg.YSamples))
	for y := 0; y < cfg.YSamples; y++ {
		for x := 0; x < cfg.XSamples; x++ {
			s := c.At(x, y)
			if s.Tri == nil {
				continue
			}
			img.SetRGBA(x, y, blend(
				pt2col(s.Tri.Point(0)),
				pt2col(s.Tri.Point(1)),
				pt2col(s.Tri.Point(2)),
				s.U, s.V))
		}
	}
	return img
}

// blend returns A + u(B-A) + v(C-A) per channel.
func blend(a, b, c color.RGBA, u, v float64) color.RGBA {
	ch := func(ca, cb, cc uint8) uint8 {
		f := float64(ca) + u*(float64(cb)-float64(ca)) + v*(float64(cc)-float64(ca))
		return uint8(math.Round(math.Max(0, math.Min(255, f))))
	}
	return color.RGBA{
		R: ch(a.R, b.R, c.R),
		G: ch(a.G, b.G, c.G),
		B: ch(a.B, b.B, c.B),
		A: 255,
	}
}

// RenderMesh samples m over cfg and interpolates vertex colors.
func RenderMesh(m *gotri.Mesh, cfg ImageConfig, pt2col PointToColorFunc) *image.RGBA {
	return CacheUVT(m, cfg).Interpolate(pt2col)
}

// DrawWireframe strokes every edge of m onto img in pixel space.
func DrawWireframe(img *image.RGBA, m *gotri.Mesh, cfg ImageConfig, clr color.Color, width float64) {
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetStrokeColor(clr)
	gc.SetLineWidth(width)
	for _, e := range m.UndirectedEdges() {
		x0, y0 := cfg.Pixel(e.Start().C)
		x1, y1 := cfg.Pixel(e.End.C)
		gc.BeginPath()
		gc.MoveTo(x0, y0)
		gc.LineTo(x1, y1)
		gc.Stroke()
	}
}

func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}

// WritePPM writes img as a plain-text P3 pixmap. Pixels with alpha at or
// below half are written black.
func WritePPM(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.A <= 127 {
				c = color.RGBA{}
			}
			if x != b.Min.X {
				bw.WriteString("   ")
			}
			fmt.Fprintf(bw, "%3d %3d %3d", c.R, c.G, c.B)
		}
		bw.WriteString("\n")
	}
	return errors.Wrap(bw.Flush(), "write ppm")
}
