package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

type fakeActor struct {
	pos     cp.Vector
	vel     cp.Vector
	half    cp.Vector
	layer   component.Layer
	gravity bool
}

// fakeOracle is a scripted physics engine: tests set grounded and wall
// contact directly and advance positions with step.
type fakeOracle struct {
	actors    map[ecs.Entity]*fakeActor
	grounded  bool
	wallLeft  bool
	wallRight bool
	impulses  map[ecs.Entity]cp.Vector
	gravity   float64
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		actors:   make(map[ecs.Entity]*fakeActor),
		impulses: make(map[ecs.Entity]cp.Vector),
	}
}

func (f *fakeOracle) add(e ecs.Entity, pos cp.Vector, layer component.Layer) *fakeActor {
	a := &fakeActor{pos: pos, half: cp.Vector{X: 0.4, Y: 0.8}, layer: layer, gravity: true}
	f.actors[e] = a
	return a
}

// step integrates velocities, applying gravity to actors that have it enabled.
func (f *fakeOracle) step(dt float64) {
	for _, a := range f.actors {
		if a.gravity {
			a.vel.Y -= f.gravity * dt
		}
		a.pos = a.pos.Add(a.vel.Mult(dt))
	}
}

func (f *fakeOracle) IsGroundedAt(_ cp.Vector, _ float64, _ component.Layer) bool {
	return f.grounded
}

func (f *fakeOracle) Raycast(origin, dir cp.Vector, maxDist float64, _ component.Layer) (RaycastHit, bool) {
	switch {
	case dir.X < 0 && f.wallLeft:
		return RaycastHit{Point: origin.Add(cp.Vector{X: -maxDist}), Normal: cp.Vector{X: 1}, Distance: maxDist}, true
	case dir.X > 0 && f.wallRight:
		return RaycastHit{Point: origin.Add(cp.Vector{X: maxDist}), Normal: cp.Vector{X: -1}, Distance: maxDist}, true
	}
	return RaycastHit{}, false
}

func (f *fakeOracle) OverlapShape(shape component.HitShape, mask component.Layer) []ecs.Entity {
	q := queryShape(shape)
	if q == nil {
		return nil
	}
	var out []ecs.Entity
	for e, a := range f.actors {
		if !mask.Has(a.layer) {
			continue
		}
		body := queryShape(component.Box(a.pos, 2*a.half.X, 2*a.half.Y, 0))
		if body != nil && cp.ShapesCollide(q, body).Count > 0 {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeOracle) Position(e ecs.Entity) (cp.Vector, bool) {
	a, ok := f.actors[e]
	if !ok {
		return cp.Vector{}, false
	}
	return a.pos, true
}

func (f *fakeOracle) Velocity(e ecs.Entity) (cp.Vector, bool) {
	a, ok := f.actors[e]
	if !ok {
		return cp.Vector{}, false
	}
	return a.vel, true
}

func (f *fakeOracle) SetVelocity(e ecs.Entity, v cp.Vector) {
	if a, ok := f.actors[e]; ok {
		a.vel = v
	}
}

func (f *fakeOracle) SetGravityEnabled(e ecs.Entity, enabled bool) {
	if a, ok := f.actors[e]; ok {
		a.gravity = enabled
	}
}

func (f *fakeOracle) ApplyImpulse(e ecs.Entity, impulse cp.Vector) {
	a, ok := f.actors[e]
	if !ok {
		return
	}
	a.vel = a.vel.Add(impulse)
	f.impulses[e] = f.impulses[e].Add(impulse)
}

func (f *fakeOracle) RemoveBody(e ecs.Entity) {
	delete(f.actors, e)
}

var _ PhysicsOracle = (*fakeOracle)(nil)
