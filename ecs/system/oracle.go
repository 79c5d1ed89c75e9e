package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// RaycastHit describes the first surface a ray touched.
type RaycastHit struct {
	Entity   ecs.Entity
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

// PhysicsOracle is everything the controllers need from the physics engine.
// Implementations must treat unknown entities as absent rather than failing.
type PhysicsOracle interface {
	IsGroundedAt(probe cp.Vector, radius float64, mask component.Layer) bool
	Raycast(origin, dir cp.Vector, maxDist float64, mask component.Layer) (RaycastHit, bool)
	OverlapShape(shape component.HitShape, mask component.Layer) []ecs.Entity

	Position(e ecs.Entity) (cp.Vector, bool)
	Velocity(e ecs.Entity) (cp.Vector, bool)
	SetVelocity(e ecs.Entity, v cp.Vector)
	SetGravityEnabled(e ecs.Entity, enabled bool)
	ApplyImpulse(e ecs.Entity, impulse cp.Vector)
}

// bodyRemover is implemented by oracles that own per-entity bodies.
type bodyRemover interface {
	RemoveBody(e ecs.Entity)
}

// despawn removes e from the physics engine and the world. It reports false
// when e was already gone.
func despawn(w *ecs.World, oracle PhysicsOracle, e ecs.Entity) bool {
	if !ecs.IsAlive(w, e) {
		return false
	}
	if r, ok := oracle.(bodyRemover); ok {
		r.RemoveBody(e)
	}
	return ecs.DestroyEntity(w, e)
}

func loggerOr(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}
