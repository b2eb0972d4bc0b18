package view

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteImage *ebiten.Image
	whiteSub   *ebiten.Image
)

// solidSource is the 1x1 white source all fills and strokes sample from.
// It is made on first use so nothing touches the GPU before the game runs.
func solidSource() *ebiten.Image {
	if whiteSub == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSub
}

func colorize(vertices []ebiten.Vertex, clr color.RGBA) {
	cr := float32(clr.R) / 255.0
	cg := float32(clr.G) / 255.0
	cb := float32(clr.B) / 255.0
	ca := float32(clr.A) / 255.0
	for i := range vertices {
		vertices[i].ColorR = cr
		vertices[i].ColorG = cg
		vertices[i].ColorB = cb
		vertices[i].ColorA = ca
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
	}
}

// fillTriangles fills a batch of triangles given as flat screen-space
// corner lists, three corners per triangle, one color each.
func fillTriangles(screen *ebiten.Image, xp, yp []float32, colors []color.RGBA) {
	n := len(xp) / 3
	if n == 0 {
		return
	}

	vertices := make([]ebiten.Vertex, 0, 3*n)
	indices := make([]uint16, 0, 3*n)
	flush := func() {
		if len(indices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
		screen.DrawTriangles(vertices, indices, solidSource(), op)
		vertices = vertices[:0]
		indices = indices[:0]
	}

	for i := 0; i < n; i++ {
		// uint16 indices cap a batch
		if len(vertices)+3 > 65535 {
			flush()
		}
		base := uint16(len(vertices))
		tri := make([]ebiten.Vertex, 3)
		for k := 0; k < 3; k++ {
			tri[k].DstX = xp[3*i+k]
			tri[k].DstY = yp[3*i+k]
		}
		colorize(tri, colors[i])
		vertices = append(vertices, tri...)
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}

// drawPolygonOutline strokes the closed polygon through the given points.
func drawPolygonOutline(screen *ebiten.Image, xp, yp []float32, strokeWidth float32, clr color.RGBA) {
	if len(xp) < 2 {
		return
	}

	var path vector.Path
	path.MoveTo(xp[0], yp[0])
	for i := 1; i < len(xp); i++ {
		path.LineTo(xp[i], yp[i])
	}
	path.Close()

	strokeOp := &vector.StrokeOptions{Width: strokeWidth}
	vertices, indices := path.AppendVerticesAndIndicesForStroke(nil, nil, strokeOp)
	colorize(vertices, clr)

	drawOp := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vertices, indices, solidSource(), drawOp)
}

func drawLine(screen *ebiten.Image, x0, y0, x1, y1, width float32, clr color.Color) {
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
}

func drawDot(screen *ebiten.Image, x, y, r float32, clr color.Color) {
	vector.DrawFilledCircle(screen, x, y, r, clr, true)
}
