package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

var (
	ErrNilWeapon    = errors.New("skill: nil weapon template")
	ErrUnknownSkill = errors.New("skill: unknown skill kind")
	ErrNoSkillSlot  = errors.New("skill: entity has no skill slot")
)

// SkillSystem owns every equipped SkillInstance: it ticks their cooldowns,
// triggers them from input and routes projectile outcomes back to them.
type SkillSystem struct {
	Physics PhysicsOracle
	Combat  *CombatResolver
	Logger  *log.Logger

	generation uint64
}

func NewSkillSystem(physics PhysicsOracle, combat *CombatResolver, logger *log.Logger) *SkillSystem {
	return &SkillSystem{Physics: physics, Combat: combat, Logger: logger}
}

func (s *SkillSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.SkillSlotComponent.Kind(), func(_ ecs.Entity, slot *component.SkillSlot) {
		slot.Instance.TickCooldown(dt)
	})

	for _, e := range w.Query(component.SkillSlotComponent.Kind(), component.InputComponent.Kind()) {
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())
		if !in.SkillPressed {
			continue
		}
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			continue
		}
		s.TryExecute(w, e, in.Aim)
	}
}

// Equip copies tmpl into a fresh instance on owner and returns the template
// it replaced, if any. The new instance starts with its cooldown elapsed.
func (s *SkillSystem) Equip(w *ecs.World, owner ecs.Entity, tmpl *component.WeaponTemplate) (*component.WeaponTemplate, error) {
	if tmpl == nil {
		loggerOr(s.Logger).Printf("skill: equip on entity=%s: %v", owner, ErrNilWeapon)
		return nil, ErrNilWeapon
	}
	if _, ok := skillStrategies[tmpl.Kind]; !ok {
		return nil, fmt.Errorf("%w: %q (weapon %s)", ErrUnknownSkill, tmpl.Kind, tmpl.Name)
	}
	slot, ok := ecs.Get(w, owner, component.SkillSlotComponent.Kind())
	if !ok {
		return nil, ErrNoSkillSlot
	}

	prev := slot.Template()
	s.generation++
	slot.Instance = &component.SkillInstance{
		Template:   *tmpl,
		Generation: s.generation,
	}
	w.Events().Push(ecs.Event{Type: ecs.EventEquip, Entity: owner, Data: tmpl.Name})
	loggerOr(s.Logger).Printf("skill: entity=%s equipped %s (%s)", owner, tmpl.Name, tmpl.Kind)
	return prev, nil
}

// Unequip clears owner's slot and returns the template that was held.
// A projectile still in flight finishes on its own; its outcome is dropped.
func (s *SkillSystem) Unequip(w *ecs.World, owner ecs.Entity) *component.WeaponTemplate {
	slot, ok := ecs.Get(w, owner, component.SkillSlotComponent.Kind())
	if !ok {
		return nil
	}
	prev := slot.Template()
	slot.Instance = nil
	return prev
}

// CooldownProgress is the elapsed fraction of owner's skill cooldown. An
// empty slot reports 1.
func (s *SkillSystem) CooldownProgress(w *ecs.World, owner ecs.Entity) float64 {
	slot, ok := ecs.Get(w, owner, component.SkillSlotComponent.Kind())
	if !ok {
		return 1
	}
	return slot.Instance.CooldownProgress()
}

// TryExecute fires owner's skill toward dir. A zero dir uses the owner's
// facing. It reports whether the skill did anything.
func (s *SkillSystem) TryExecute(w *ecs.World, owner ecs.Entity, dir cp.Vector) bool {
	if s == nil || s.Physics == nil || !ecs.IsAlive(w, owner) {
		return false
	}
	slot, ok := ecs.Get(w, owner, component.SkillSlotComponent.Kind())
	if !ok || slot.Instance == nil {
		return false
	}
	inst := slot.Instance
	strategy, ok := skillStrategies[inst.Template.Kind]
	if !ok {
		return false
	}
	pos, ok := s.Physics.Position(owner)
	if !ok {
		return false
	}
	aim := common.Normalize(dir)
	if common.IsZero(aim) {
		aim = cp.Vector{X: facingOf(w, owner)}
	}

	ctx := &skillContext{
		sys:   s,
		w:     w,
		owner: owner,
		inst:  inst,
		pos:   pos,
		dir:   aim,
		mask:  opposingLayer(w, owner),
	}
	if !strategy.execute(ctx) {
		return false
	}
	w.Events().Push(ecs.Event{Type: ecs.EventSkillUsed, Entity: owner, Data: inst.Template.Name})
	return true
}

// facingOf returns the owner's horizontal facing, defaulting to right.
func facingOf(w *ecs.World, e ecs.Entity) float64 {
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && p.Facing != 0 {
		return p.Facing
	}
	if en, ok := ecs.Get(w, e, component.EnemyComponent.Kind()); ok && en.Facing != 0 {
		return en.Facing
	}
	return 1
}

func opposingLayer(w *ecs.World, e ecs.Entity) component.Layer {
	if ecs.Has(w, e, component.EnemyTagComponent.Kind()) {
		return component.LayerPlayer
	}
	return component.LayerEnemy
}

// complete routes a projectile outcome to the instance that launched it.
// Outcomes for a replaced or unequipped instance are dropped.
func (s *SkillSystem) complete(w *ecs.World, owner ecs.Entity, generation uint64, projectile ecs.Entity, outcome component.ProjectileOutcome) {
	slot, ok := ecs.Get(w, owner, component.SkillSlotComponent.Kind())
	if !ok || slot.Instance == nil || slot.Instance.Generation != generation {
		return
	}
	inst := slot.Instance
	if inst.Projectile == uint64(projectile) {
		inst.Projectile = 0
	}
	tmpl := &inst.Template
	if tmpl.Kind != component.SkillBoomerang {
		return
	}
	switch outcome {
	case component.OutcomeSuccess:
		inst.Cooldown.Start(tmpl.SuccessCooldown)
	case component.OutcomeFail:
		inst.Cooldown.Start(tmpl.FailCooldown)
	}
	loggerOr(s.Logger).Printf("skill: %s returned %s, cooldown %.2fs", tmpl.Name, outcome, inst.Cooldown.Duration)
}
