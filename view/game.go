// Package view shows a triangulation in a window and steps its refinement
// interactively.
package view

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/smasonuk/gotri"
)

var (
	backgroundColor  = color.RGBA{R: 20, G: 20, B: 30, A: 255}
	fillColor        = color.RGBA{R: 60, G: 90, B: 150, A: 255}
	badFillColor     = color.RGBA{R: 170, G: 60, B: 60, A: 255}
	edgeColor        = color.RGBA{R: 200, G: 210, B: 230, A: 255}
	constrainedColor = color.RGBA{R: 255, G: 220, B: 80, A: 255}
	pointColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Viewer is an ebiten game drawing a CDT. Space runs one refinement step,
// R toggles continuous refinement, P toggles the point markers and the
// up and down arrows change how many steps run per frame.
type Viewer struct {
	cdt      *gotri.CDT
	refiner  *gotri.Refiner
	theta    float64
	maxSteps int

	running    bool
	done       bool
	exhausted  bool
	showPoints bool
	perFrame   int
	steps      int
	status     string
}

// NewViewer shows cdt. refiner may be nil for a static view; theta marks
// triangles below that angle. Refinement stops after maxSteps steps.
func NewViewer(cdt *gotri.CDT, refiner *gotri.Refiner, theta float64, maxSteps int) *Viewer {
	log.Println("Initializing viewer...")
	v := &Viewer{
		cdt:        cdt,
		refiner:    refiner,
		theta:      theta,
		maxSteps:   maxSteps,
		showPoints: true,
		perFrame:   1,
		done:       refiner == nil,
	}
	v.status = v.summary()
	return v
}

// step runs up to n refinement steps and stops the run when nothing is
// left.
func (v *Viewer) step(n int) error {
	for i := 0; i < n && !v.done; i++ {
		if v.steps >= v.maxSteps {
			v.running = false
			v.done = true
			v.exhausted = true
			log.Printf("Refinement stopped at the %d step budget.", v.maxSteps)
			break
		}
		worked, err := v.refiner.Step()
		if err != nil {
			v.running = false
			v.done = true
			return err
		}
		if !worked {
			v.running = false
			v.done = true
			log.Printf("Refinement finished after %d steps.", v.steps)
			break
		}
		v.steps++
	}
	v.status = v.summary()
	return nil
}

func (v *Viewer) summary() string {
	m := v.cdt.Mesh
	state := "idle"
	switch {
	case v.exhausted:
		state = "done (budget)"
	case v.done:
		state = "done"
	case v.running:
		state = "running"
	}
	return fmt.Sprintf("%s, step %d, %d triangles, %d points, %d/frame",
		state, v.steps, m.TriangleCount(), m.PointCount(), v.perFrame)
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.showPoints = !v.showPoints
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		v.perFrame = clamp(v.perFrame*2, 1, 1024)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		v.perFrame = clamp(v.perFrame/2, 1, 1024)
	}
	if v.done {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.running = !v.running
	}
	switch {
	case v.running:
		return v.step(v.perFrame)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		return v.step(1)
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	m := v.cdt.Mesh
	min, max := m.Bounds()
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	tr := fitTransform(min, max, w, h)

	tris := m.Triangles()
	xp := make([]float32, 0, 3*len(tris))
	yp := make([]float32, 0, 3*len(tris))
	colors := make([]color.RGBA, 0, len(tris))
	for _, t := range tris {
		for _, p := range t.Points() {
			x, y := tr.apply(p.C)
			xp = append(xp, x)
			yp = append(yp, y)
		}
		if t.MinAngle() < v.theta {
			colors = append(colors, badFillColor)
		} else {
			colors = append(colors, fillColor)
		}
	}
	fillTriangles(screen, xp, yp, colors)
	for i := range tris {
		drawPolygonOutline(screen, xp[3*i:3*i+3], yp[3*i:3*i+3], 1, edgeColor)
	}

	for _, e := range m.Segments() {
		x0, y0 := tr.apply(e.Start().C)
		x1, y1 := tr.apply(e.End.C)
		drawLine(screen, x0, y0, x1, y1, 2.5, constrainedColor)
	}

	if v.showPoints {
		for _, p := range m.Points() {
			x, y := tr.apply(p.C)
			drawDot(screen, x, y, 2, pointColor)
		}
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nFPS: %0.2f", v.status, ebiten.ActualFPS()))
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// Run opens the window and blocks until it is closed.
func Run(v *Viewer, title string) error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(v)
}
