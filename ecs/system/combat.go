package system

import (
	"log"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// HitQuery selects targets for one attack.
type HitQuery struct {
	Origin cp.Vector
	Aim    cp.Vector
	Shape  component.HitShape
	// HalfAngle in degrees restricts hits to a cone around Aim. Zero disables the test.
	HalfAngle float64
	Mask      component.Layer
	Exclude   ecs.Entity
	Eligible  func(ecs.Entity) bool
}

// CombatResolver finds targets and delivers damage. It keeps no state
// between calls; de-duplication across ticks belongs to the caller.
type CombatResolver struct {
	Physics PhysicsOracle
	Logger  *log.Logger
}

func NewCombatResolver(physics PhysicsOracle, logger *log.Logger) *CombatResolver {
	return &CombatResolver{Physics: physics, Logger: logger}
}

// Targets returns the living, eligible actors matched by q.
func (r *CombatResolver) Targets(w *ecs.World, q HitQuery) []ecs.Entity {
	if r == nil || r.Physics == nil || w == nil {
		return nil
	}
	candidates := r.Physics.OverlapShape(q.Shape, q.Mask)
	out := make([]ecs.Entity, 0, len(candidates))
	for _, e := range candidates {
		if e == q.Exclude || !ecs.IsAlive(w, e) {
			continue
		}
		h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
		if !ok || h.Dead {
			continue
		}
		if q.Eligible != nil && !q.Eligible(e) {
			continue
		}
		if q.HalfAngle > 0 {
			pos, ok := r.Physics.Position(e)
			if !ok {
				continue
			}
			to := pos.Sub(q.Origin)
			if !common.IsZero(to) && common.AngleBetween(q.Aim, to) > q.HalfAngle {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolve damages every target matched by q and returns those that took damage.
// A zero dmg.Direction pushes each target away from dmg.Origin.
func (r *CombatResolver) Resolve(w *ecs.World, q HitQuery, dmg component.Damage) []ecs.Entity {
	targets := r.Targets(w, q)
	hit := make([]ecs.Entity, 0, len(targets))
	for _, e := range targets {
		d := dmg
		if common.IsZero(d.Direction) {
			if pos, ok := r.Physics.Position(e); ok {
				d.Direction = pos.Sub(d.Origin)
			}
		}
		if r.TakeDamage(w, e, d) {
			hit = append(hit, e)
		}
	}
	return hit
}

// TakeDamage is the single mutating entry point for hurting an actor. It
// applies health loss, then knockback when the target supports it, then
// handles death. Dead or unknown targets are ignored.
func (r *CombatResolver) TakeDamage(w *ecs.World, target ecs.Entity, dmg component.Damage) bool {
	if r == nil || w == nil || !ecs.IsAlive(w, target) {
		return false
	}
	h, ok := ecs.Get(w, target, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	applied, died := h.TakeDamage(dmg.Amount)
	if !applied {
		return false
	}
	w.Events().Push(ecs.Event{Type: ecs.EventDamage, Entity: target, Source: ecs.Entity(dmg.Source), Value: dmg.Amount})

	if died {
		r.handleDeath(w, target, dmg)
		return true
	}

	if kb, ok := ecs.Get(w, target, component.KnockbackComponent.Kind()); ok && dmg.Force > 0 && r.Physics != nil {
		r.Physics.ApplyImpulse(target, kb.Apply(dmg.Direction, dmg.Force))
	}
	return true
}

func (r *CombatResolver) handleDeath(w *ecs.World, target ecs.Entity, dmg component.Damage) {
	w.Events().Push(ecs.Event{Type: ecs.EventDeath, Entity: target, Source: ecs.Entity(dmg.Source)})
	if ecs.Has(w, target, component.PlayerTagComponent.Kind()) {
		// The player stays in the world; its controller freezes it.
		return
	}
	if e, ok := ecs.Get(w, target, component.EnemyComponent.Kind()); ok {
		e.State = component.EnemyDead
		loggerOr(r.Logger).Printf("combat: %s entity=%s died", e.Config.Name, target)
	}
	despawn(w, r.Physics, target)
}
