package system

import (
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// TimerSettleSystem runs last each tick and ends the start-tick grace of
// every countdown, so a timer started anywhere in tick T first elapses in T+1.
type TimerSettleSystem struct{}

func NewTimerSettleSystem() *TimerSettleSystem {
	return &TimerSettleSystem{}
}

func (s *TimerSettleSystem) Update(w *ecs.World, _ float64) {
	SettleTimers(w)
}

func SettleTimers(w *ecs.World) {
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		p.Timers.Settle()
	})
	ecs.ForEach(w, component.EnemyComponent.Kind(), func(_ ecs.Entity, e *component.Enemy) {
		e.AttackCooldown.Settle()
	})
	ecs.ForEach(w, component.KnockbackComponent.Kind(), func(_ ecs.Entity, k *component.Knockback) {
		k.Recovery.Settle()
	})
	ecs.ForEach(w, component.SkillSlotComponent.Kind(), func(_ ecs.Entity, s *component.SkillSlot) {
		if s.Instance != nil {
			s.Instance.Cooldown.Settle()
		}
	})
}
