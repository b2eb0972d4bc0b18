package view

import (
	"github.com/go-gl/mathgl/mgl64"
)

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

const (
	screenWidth  = 800
	screenHeight = 600
	margin       = 20
)

// transform fits a mesh bounding box into the screen, keeping the aspect
// ratio and pointing y up.
type transform struct {
	scale      float64
	offX, offY float64
	height     float64
}

func fitTransform(min, max mgl64.Vec2, width, height int) transform {
	size := max.Sub(min)
	avail := mgl64.Vec2{float64(width - 2*margin), float64(height - 2*margin)}
	scale := 1.0
	switch {
	case size[0] > 0 && size[1] > 0:
		scale = minf(avail[0]/size[0], avail[1]/size[1])
	case size[0] > 0:
		scale = avail[0] / size[0]
	case size[1] > 0:
		scale = avail[1] / size[1]
	}
	// centre the drawing in the free space
	offX := float64(margin) + (avail[0]-size[0]*scale)/2 - min[0]*scale
	offY := float64(margin) + (avail[1]-size[1]*scale)/2 - min[1]*scale
	return transform{scale: scale, offX: offX, offY: offY, height: float64(height)}
}

func (t transform) apply(p mgl64.Vec2) (float32, float32) {
	x := p[0]*t.scale + t.offX
	y := t.height - (p[1]*t.scale + t.offY)
	return float32(x), float32(y)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
