package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// ProjectileSystem flies projectiles without touching the physics space.
// Each tick a projectile may turn back, moves, hits what it overlaps and
// finally checks whether its flight is over.
type ProjectileSystem struct {
	Physics PhysicsOracle
	Combat  *CombatResolver
	Logger  *log.Logger
}

func NewProjectileSystem(physics PhysicsOracle, combat *CombatResolver, logger *log.Logger) *ProjectileSystem {
	return &ProjectileSystem{Physics: physics, Combat: combat, Logger: logger}
}

func (s *ProjectileSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.ProjectileComponent.Kind()) {
		p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
		if !ok {
			continue
		}
		s.step(w, e, p, dt)
	}
}

func (s *ProjectileSystem) ownerPosition(w *ecs.World, p *component.Projectile) (cp.Vector, bool) {
	owner := ecs.Entity(p.Owner)
	if s.Physics == nil || !ecs.IsAlive(w, owner) {
		return cp.Vector{}, false
	}
	return s.Physics.Position(owner)
}

func (s *ProjectileSystem) step(w *ecs.World, e ecs.Entity, p *component.Projectile, dt float64) {
	if p.Mode == component.ProjectileTerminated {
		s.Terminate(w, e, p.Outcome)
		return
	}
	ownerPos, hasOwner := s.ownerPosition(w, p)
	boomerang := p.Kind == component.ProjectileBoomerang

	if boomerang && !hasOwner {
		s.Terminate(w, e, component.OutcomeFail)
		return
	}
	if boomerang && p.Mode == component.ProjectileOutbound && p.Position.Distance(p.Start) >= p.MaxDistance {
		p.BeginReturn(ownerPos)
	}

	p.Position = p.Position.Add(p.Heading().Mult(p.Speed * dt))
	s.hit(w, p)

	switch {
	case !boomerang:
		if p.Position.Distance(p.Start) >= p.MaxDistance {
			s.Terminate(w, e, component.OutcomeSuccess)
		}
	case p.Mode == component.ProjectileReturning:
		d := p.Position.Distance(ownerPos)
		if d <= p.ReturnThreshold {
			s.Terminate(w, e, component.OutcomeSuccess)
		} else if d >= component.BoomerangFailFactor*p.MaxDistance {
			s.Terminate(w, e, component.OutcomeFail)
		}
	}
}

// hit damages everything under the projectile that it has not struck on
// this leg of its flight.
func (s *ProjectileSystem) hit(w *ecs.World, p *component.Projectile) {
	if s.Combat == nil {
		return
	}
	mask := p.Mask
	if mask == component.LayerNone {
		mask = component.LayerEnemy
	}
	heading := p.Heading()
	hits := s.Combat.Resolve(w, HitQuery{
		Origin:   p.Position,
		Aim:      heading,
		Shape:    component.Circle(p.Position, p.HitRadius),
		Mask:     mask,
		Exclude:  ecs.Entity(p.Owner),
		Eligible: func(t ecs.Entity) bool { return !p.HasHit(uint64(t)) },
	}, component.Damage{
		Amount:    p.Damage,
		Direction: heading,
		Force:     p.KnockbackForce,
		Origin:    p.Position,
		Source:    p.Owner,
	})
	for _, t := range hits {
		p.MarkHit(uint64(t))
	}
}

// Terminate finishes the projectile with outcome and removes it. Only the
// first call reports an outcome.
func (s *ProjectileSystem) Terminate(w *ecs.World, e ecs.Entity, outcome component.ProjectileOutcome) {
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok {
		return
	}
	if p.Finish(outcome) {
		w.Events().Push(ecs.Event{
			Type:   ecs.EventProjectileDone,
			Entity: e,
			Source: ecs.Entity(p.Owner),
			Data:   outcome,
		})
	}
	ecs.DestroyEntity(w, e)
}
