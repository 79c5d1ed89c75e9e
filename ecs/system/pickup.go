package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

const DefaultPickupRadius = 1.0

// PickupSystem swaps the player's weapon for one lying nearby when the
// interact input fires. The weapon given up is left where the new one lay.
type PickupSystem struct {
	Physics PhysicsOracle
	Skills  *SkillSystem
	Logger  *log.Logger
}

func NewPickupSystem(physics PhysicsOracle, skills *SkillSystem, logger *log.Logger) *PickupSystem {
	return &PickupSystem{Physics: physics, Skills: skills, Logger: logger}
}

// SpawnPickup places tmpl in the world at pos.
func SpawnPickup(w *ecs.World, tmpl component.WeaponTemplate, pos cp.Vector, radius float64) (ecs.Entity, error) {
	if radius <= 0 {
		radius = DefaultPickupRadius
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{Weapon: tmpl, Position: pos, Radius: radius}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

func (s *PickupSystem) Update(w *ecs.World, _ float64) {
	if s == nil || w == nil || s.Physics == nil || s.Skills == nil {
		return
	}
	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.InputComponent.Kind()) {
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())
		if !in.InteractPressed {
			continue
		}
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			continue
		}
		pos, ok := s.Physics.Position(e)
		if !ok {
			continue
		}
		if pickup, ok := s.nearest(w, pos); ok {
			s.collect(w, e, pickup)
		}
	}
}

// nearest returns the closest pickup whose radius covers pos.
func (s *PickupSystem) nearest(w *ecs.World, pos cp.Vector) (ecs.Entity, bool) {
	var (
		best  ecs.Entity
		found bool
		dist  float64
	)
	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		d := p.Position.Distance(pos)
		if d > p.Radius {
			return
		}
		if !found || d < dist {
			best, dist, found = e, d, true
		}
	})
	return best, found
}

func (s *PickupSystem) collect(w *ecs.World, player, e ecs.Entity) {
	pickup, ok := ecs.Get(w, e, component.PickupComponent.Kind())
	if !ok {
		return
	}
	tmpl := pickup.Weapon
	at, radius := pickup.Position, pickup.Radius

	prev, err := s.Skills.Equip(w, player, &tmpl)
	if err != nil {
		loggerOr(s.Logger).Printf("pickup: entity=%s cannot equip %s: %v", player, tmpl.Name, err)
		return
	}
	ecs.DestroyEntity(w, e)

	if prev == nil {
		return
	}
	if _, err := SpawnPickup(w, *prev, at, radius); err != nil {
		loggerOr(s.Logger).Printf("pickup: drop %s: %v", prev.Name, err)
	}
}
