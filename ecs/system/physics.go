package system

import (
	"errors"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// DefaultGravity is the downward acceleration in world units per second squared.
const DefaultGravity = 25.0

var ErrBodyExists = errors.New("physics: entity already has a body")

// BodySpec describes a dynamic actor body centred on Position.
type BodySpec struct {
	Position cp.Vector
	Width    float64
	Height   float64
	Mass     float64
	Layer    component.Layer
}

// PhysicsSystem steps a Chipmunk space and answers PhysicsOracle queries
// against it. Every body has infinite moment so actors never rotate, and
// mass 1 unless told otherwise, so an impulse equals a velocity change.
type PhysicsSystem struct {
	world *ecs.World
	space *cp.Space
}

func NewPhysicsSystem(w *ecs.World, gravity float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})
	return &PhysicsSystem{world: w, space: space}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || dt <= 0 {
		return
	}
	ps.space.Step(dt)
}

func filterFor(layer component.Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES)
}

func queryFilter(mask component.Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

// AddStatic adds level geometry on the layer and returns its shape.
func (ps *PhysicsSystem) AddStatic(bb cp.BB, layer component.Layer) *cp.Shape {
	shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
	shape.SetFriction(1)
	shape.SetElasticity(0)
	shape.SetFilter(filterFor(layer))
	ps.space.AddShape(shape)
	return shape
}

// AddBody creates a dynamic body for e and attaches a PhysicsBody component.
func (ps *PhysicsSystem) AddBody(e ecs.Entity, spec BodySpec) (*component.PhysicsBody, error) {
	if ecs.Has(ps.world, e, component.PhysicsBodyComponent.Kind()) {
		return nil, ErrBodyExists
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(spec.Position)
	body.UserData = e

	shape := cp.NewBox(body, spec.Width, spec.Height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(filterFor(spec.Layer))
	shape.UserData = e

	comp := &component.PhysicsBody{
		Body:   body,
		Shape:  shape,
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   mass,
		Layer:  spec.Layer,
	}
	if err := ecs.Add(ps.world, e, component.PhysicsBodyComponent.Kind(), comp); err != nil {
		return nil, err
	}
	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return comp, nil
}

func (ps *PhysicsSystem) RemoveBody(e ecs.Entity) {
	pb, ok := ps.body(e)
	if !ok {
		return
	}
	if pb.Shape != nil {
		ps.space.RemoveShape(pb.Shape)
	}
	ps.space.RemoveBody(pb.Body)
	ecs.Remove(ps.world, e, component.PhysicsBodyComponent.Kind())
}

func (ps *PhysicsSystem) body(e ecs.Entity) (*component.PhysicsBody, bool) {
	pb, ok := ecs.Get(ps.world, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return nil, false
	}
	return pb, true
}

func (ps *PhysicsSystem) IsGroundedAt(probe cp.Vector, radius float64, mask component.Layer) bool {
	info := ps.space.PointQueryNearest(probe, radius, queryFilter(mask))
	return info != nil && info.Shape != nil
}

func (ps *PhysicsSystem) Raycast(origin, dir cp.Vector, maxDist float64, mask component.Layer) (RaycastHit, bool) {
	n := common.Normalize(dir)
	if common.IsZero(n) || maxDist <= 0 {
		return RaycastHit{}, false
	}
	end := origin.Add(n.Mult(maxDist))
	info := ps.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return RaycastHit{}, false
	}
	hit := RaycastHit{Point: info.Point, Normal: info.Normal, Distance: info.Alpha * maxDist}
	if e, ok := info.Shape.UserData.(ecs.Entity); ok {
		hit.Entity = e
	}
	return hit, true
}

// OverlapShape returns live actors on mask whose collider overlaps shape,
// sorted by entity.
func (ps *PhysicsSystem) OverlapShape(shape component.HitShape, mask component.Layer) []ecs.Entity {
	q := queryShape(shape)
	if q == nil {
		return nil
	}
	q.SetFilter(queryFilter(mask))

	var out []ecs.Entity
	ps.space.ShapeQuery(q, func(s *cp.Shape, _ *cp.ContactPointSet) {
		e, ok := s.UserData.(ecs.Entity)
		if !ok {
			return
		}
		// level geometry carries its entity too but has no actor body
		pb, ok := ps.body(e)
		if !ok || pb.Shape != s || !mask.Has(pb.Layer) {
			return
		}
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// queryShape builds a detached Chipmunk shape for a hit volume. It is never
// added to a space; its cached geometry is already in world coordinates.
func queryShape(shape component.HitShape) *cp.Shape {
	body := cp.NewKinematicBody()
	body.SetPosition(shape.Center)

	var s *cp.Shape
	switch shape.Kind {
	case component.ShapeCircle:
		if shape.Radius <= 0 {
			return nil
		}
		s = cp.NewCircle(body, shape.Radius, cp.Vector{})
	case component.ShapeBox:
		if shape.Width <= 0 || shape.Height <= 0 {
			return nil
		}
		body.SetAngle(shape.Angle)
		s = cp.NewBox(body, shape.Width, shape.Height, 0)
	default:
		return nil
	}
	s.Update(cp.NewTransformRigid(shape.Center, body.Angle()))
	return s
}

func (ps *PhysicsSystem) Position(e ecs.Entity) (cp.Vector, bool) {
	pb, ok := ps.body(e)
	if !ok {
		return cp.Vector{}, false
	}
	return pb.Body.Position(), true
}

func (ps *PhysicsSystem) Velocity(e ecs.Entity) (cp.Vector, bool) {
	pb, ok := ps.body(e)
	if !ok {
		return cp.Vector{}, false
	}
	return pb.Body.Velocity(), true
}

func (ps *PhysicsSystem) SetVelocity(e ecs.Entity, v cp.Vector) {
	if pb, ok := ps.body(e); ok {
		pb.Body.SetVelocityVector(v)
	}
}

func (ps *PhysicsSystem) SetGravityEnabled(e ecs.Entity, enabled bool) {
	pb, ok := ps.body(e)
	if !ok || pb.GravityDisabled == !enabled {
		return
	}
	pb.GravityDisabled = !enabled
	if enabled {
		pb.Body.SetVelocityUpdateFunc(cp.BodyUpdateVelocity)
		return
	}
	pb.Body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})
}

func (ps *PhysicsSystem) ApplyImpulse(e ecs.Entity, impulse cp.Vector) {
	pb, ok := ps.body(e)
	if !ok || common.IsZero(impulse) {
		return
	}
	pb.Body.ApplyImpulseAtWorldPoint(impulse, pb.Body.Position())
}

var _ PhysicsOracle = (*PhysicsSystem)(nil)
