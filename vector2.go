package gotri

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func VectorAngle2(v mgl64.Vec2) float64 {
	return math.Atan2(v[1], v[0])
}

// AngleBetweenVectors2 returns the angle between two vectors in radians
func AngleBetweenVectors2(a, b mgl64.Vec2) float64 {
	magA := a.Len()
	magB := b.Len()

	if magA == 0 || magB == 0 {
		return 0
	}

	cosTheta := a.Dot(b) / (magA * magB)
	// Clamp cosTheta to [-1, 1] to avoid NaN due to floating point error
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}

	return math.Acos(cosTheta)
}

// cross returns the z component of a x b.
func cross(a, b mgl64.Vec2) float64 {
	return mgl64.Mat2FromCols(a, b).Det()
}

func midpoint(a, b mgl64.Vec2) mgl64.Vec2 {
	return a.Add(b).Mul(0.5)
}
