package game

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
)

// Camera maps world units (y up) to screen pixels (y down).
type Camera struct {
	Center cp.Vector
	// Zoom is pixels per world unit.
	Zoom float64
	// Smoothness in [0,1) is how much of the old centre survives each Follow.
	Smoothness float64

	ScreenW float64
	ScreenH float64
}

func NewCamera(screenW, screenH, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{Zoom: zoom, Smoothness: 0.85, ScreenW: screenW, ScreenH: screenH}
}

// Follow eases the centre toward target.
func (c *Camera) Follow(target cp.Vector) {
	t := 1 - cp.Clamp(c.Smoothness, 0, 0.99)
	c.Center = c.Center.Lerp(target, t)
}

func (c *Camera) WorldToScreen(p cp.Vector) (float64, float64) {
	return c.ScreenW/2 + (p.X-c.Center.X)*c.Zoom, c.ScreenH/2 - (p.Y-c.Center.Y)*c.Zoom
}

func (c *Camera) ScreenToWorld(x, y float64) cp.Vector {
	return cp.Vector{
		X: c.Center.X + (x-c.ScreenW/2)/c.Zoom,
		Y: c.Center.Y - (y-c.ScreenH/2)/c.Zoom,
	}
}

// Aim returns the unit direction from origin to the world point under the
// pointer, or zero when the pointer sits on origin.
func (c *Camera) Aim(origin cp.Vector, x, y float64) cp.Vector {
	return common.Normalize(c.ScreenToWorld(x, y).Sub(origin))
}
