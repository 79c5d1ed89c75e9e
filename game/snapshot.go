package game

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// PlayerSnapshot is the read-only view of the player for presentation.
type PlayerSnapshot struct {
	Entity           ecs.Entity
	State            component.MotionState
	Health           component.HealthSnapshot
	Position         cp.Vector
	Velocity         cp.Vector
	Size             cp.Vector
	Facing           float64
	OnWall           bool
	CooldownProgress float64
	// Weapon is the equipped weapon name, empty when unarmed.
	Weapon string
}

type EnemySnapshot struct {
	Entity   ecs.Entity
	Name     string
	State    component.EnemyState
	Health   component.HealthSnapshot
	Position cp.Vector
	Size     cp.Vector
}

type PickupSnapshot struct {
	Entity   ecs.Entity
	Weapon   string
	Position cp.Vector
	Radius   float64
}

type ProjectileSnapshot struct {
	Entity    ecs.Entity
	Boomerang bool
	Returning bool
	Position  cp.Vector
	Radius    float64
}

func (s *Simulation) PlayerSnapshot() (PlayerSnapshot, bool) {
	e, ok := s.Player()
	if !ok {
		return PlayerSnapshot{}, false
	}
	snap := PlayerSnapshot{
		Entity:           e,
		Facing:           1,
		CooldownProgress: s.skills.CooldownProgress(s.World, e),
	}
	if pl, ok := ecs.Get(s.World, e, component.PlayerComponent.Kind()); ok {
		snap.Facing = pl.Facing
		snap.OnWall = pl.OnWall
		snap.Size = cp.Vector{X: pl.Config.Width, Y: pl.Config.Height}
	}
	if sm, ok := ecs.Get(s.World, e, component.MotionStateComponent.Kind()); ok {
		snap.State = sm.Current
	}
	h, _ := ecs.Get(s.World, e, component.HealthComponent.Kind())
	snap.Health = h.Snapshot()
	snap.Position, _ = s.Physics.Position(e)
	snap.Velocity, _ = s.Physics.Velocity(e)
	if slot, ok := ecs.Get(s.World, e, component.SkillSlotComponent.Kind()); ok {
		if t := slot.Template(); t != nil {
			snap.Weapon = t.Name
		}
	}
	return snap, true
}

// EnemySnapshots lists live enemies in entity order.
func (s *Simulation) EnemySnapshots() []EnemySnapshot {
	var out []EnemySnapshot
	for _, e := range s.World.Query(component.EnemyTagComponent.Kind(), component.EnemyComponent.Kind()) {
		en, _ := ecs.Get(s.World, e, component.EnemyComponent.Kind())
		h, _ := ecs.Get(s.World, e, component.HealthComponent.Kind())
		pos, _ := s.Physics.Position(e)
		out = append(out, EnemySnapshot{
			Entity:   e,
			Name:     en.Config.Name,
			State:    en.State,
			Health:   h.Snapshot(),
			Position: pos,
			Size:     cp.Vector{X: en.Config.Width, Y: en.Config.Height},
		})
	}
	return out
}

func (s *Simulation) PickupSnapshots() []PickupSnapshot {
	var out []PickupSnapshot
	ecs.ForEach(s.World, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		out = append(out, PickupSnapshot{Entity: e, Weapon: p.Weapon.Name, Position: p.Position, Radius: p.Radius})
	})
	return out
}

func (s *Simulation) ProjectileSnapshots() []ProjectileSnapshot {
	var out []ProjectileSnapshot
	ecs.ForEach(s.World, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		out = append(out, ProjectileSnapshot{
			Entity:    e,
			Boomerang: p.Kind == component.ProjectileBoomerang,
			Returning: p.Mode == component.ProjectileReturning,
			Position:  p.Position,
			Radius:    p.HitRadius,
		})
	})
	return out
}
