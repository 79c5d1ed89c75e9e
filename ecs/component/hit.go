package component

import "github.com/jakecoffman/cp"

type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// HitShape is a world-space detection volume. Boxes are rotated by Angle
// radians; Width runs along the rotated x axis.
type HitShape struct {
	Kind   ShapeKind
	Center cp.Vector
	Radius float64
	Width  float64
	Height float64
	Angle  float64
}

func Circle(center cp.Vector, radius float64) HitShape {
	return HitShape{Kind: ShapeCircle, Center: center, Radius: radius}
}

func Box(center cp.Vector, width, height, angle float64) HitShape {
	return HitShape{Kind: ShapeBox, Center: center, Width: width, Height: height, Angle: angle}
}

// Damage is one hit delivered through the damage entry point.
type Damage struct {
	Amount float64
	// Direction of the knockback push. Zero means away from Origin.
	Direction cp.Vector
	Force     float64
	Origin    cp.Vector
	Source    uint64
}
