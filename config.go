package gotri

import (
	"log"
	"math"
)

// TooBigFunc decides whether a triangle must be refined regardless of its
// angles.
type TooBigFunc func(t *Triangle) bool

// FalseTooBig never asks for refinement.
func FalseTooBig(*Triangle) bool {
	return false
}

// MaxAreaTooBig flags triangles larger than area.
func MaxAreaTooBig(area float64) TooBigFunc {
	return func(t *Triangle) bool {
		return t.Area() > area
	}
}

type RefinerConfig struct {
	// Theta is the smallest acceptable triangle angle in radians.
	Theta float64
	// MaxSteps bounds Refine when it is called with a negative maxSteps.
	MaxSteps int
	TooBig   TooBigFunc
	// MinSegmentLength stops splitting constrained edges shorter than this.
	MinSegmentLength float64

	Verbose bool
	Logger  *log.Logger
}

func DefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{
		Theta:    math.Pi / 6,
		MaxSteps: 1000,
		TooBig:   FalseTooBig,
	}
}
