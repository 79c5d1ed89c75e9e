package game

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestCameraProjection(t *testing.T) {
	cam := NewCamera(800, 600, 32)
	cam.Center = cp.Vector{X: 2, Y: 1}

	tests := []struct {
		name   string
		world  cp.Vector
		sx, sy float64
	}{
		{"centre", cp.Vector{X: 2, Y: 1}, 400, 300},
		{"right", cp.Vector{X: 3, Y: 1}, 432, 300},
		{"up is smaller y", cp.Vector{X: 2, Y: 2}, 400, 268},
		{"down left", cp.Vector{X: 0, Y: 0}, 336, 332},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := cam.WorldToScreen(tt.world)
			assert.Equal(t, tt.sx, x)
			assert.Equal(t, tt.sy, y)
			assert.Equal(t, tt.world, cam.ScreenToWorld(x, y))
		})
	}
}

func TestCameraAim(t *testing.T) {
	cam := NewCamera(800, 600, 32)

	assert.Equal(t, cp.Vector{X: 1, Y: 0}, cam.Aim(cp.Vector{}, 464, 300))
	assert.Equal(t, cp.Vector{X: 0, Y: 1}, cam.Aim(cp.Vector{}, 400, 236))
	assert.Equal(t, cp.Vector{}, cam.Aim(cp.Vector{}, 400, 300))
}

func TestCameraFollowConverges(t *testing.T) {
	cam := NewCamera(800, 600, 32)
	target := cp.Vector{X: 10, Y: -4}
	for i := 0; i < 200; i++ {
		cam.Follow(target)
	}
	assert.InDelta(t, target.X, cam.Center.X, 1e-6)
	assert.InDelta(t, target.Y, cam.Center.Y, 1e-6)

	cam.Smoothness = 0
	cam.Center = cp.Vector{}
	cam.Follow(target)
	assert.Equal(t, target, cam.Center)
}
