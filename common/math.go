package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Epsilon is the tolerance used when comparing world-space lengths.
const Epsilon = 1e-9

// Sign returns -1, 0 or 1. Values within Epsilon of zero count as zero.
func Sign(v float64) float64 {
	switch {
	case v > Epsilon:
		return 1
	case v < -Epsilon:
		return -1
	default:
		return 0
	}
}

// Normalize returns the unit vector of v, or the zero vector when v has no
// length. cp's Vector.Normalize yields NaN components for a zero vector.
func Normalize(v cp.Vector) cp.Vector {
	if v.Length() <= Epsilon {
		return cp.Vector{}
	}
	return v.Normalize()
}

func IsZero(v cp.Vector) bool {
	return math.Abs(v.X) <= Epsilon && math.Abs(v.Y) <= Epsilon
}

// AngleBetween returns the unsigned angle between a and b in degrees.
// A zero-length argument yields 0.
func AngleBetween(a, b cp.Vector) float64 {
	la := a.Length()
	lb := b.Length()
	if la <= Epsilon || lb <= Epsilon {
		return 0
	}
	cos := cp.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}
