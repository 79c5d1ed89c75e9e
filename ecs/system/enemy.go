package system

import (
	"log"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/milk9111/actioncore/prefabs"
)

// EnemySystem runs detect, chase and attack for every enemy against the
// player it was handed. Enemies never look the player up on their own.
type EnemySystem struct {
	Physics PhysicsOracle
	Combat  *CombatResolver
	Logger  *log.Logger

	// LoadScript resolves an enemy's Script name. Defaults to prefabs.LoadScript.
	LoadScript func(name string) ([]byte, error)

	player    ecs.Entity
	hadTarget bool
	scripts   map[string]*enemyScript
}

func NewEnemySystem(physics PhysicsOracle, combat *CombatResolver, logger *log.Logger) *EnemySystem {
	return &EnemySystem{Physics: physics, Combat: combat, Logger: logger}
}

func (s *EnemySystem) SetPlayer(e ecs.Entity) {
	s.player = e
}

// InvalidateScripts drops compiled scripts so the next tick reloads them.
func (s *EnemySystem) InvalidateScripts() {
	s.scripts = nil
}

func (s *EnemySystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil || s.Physics == nil {
		return
	}
	targetPos, hasTarget := s.target(w)
	if hasTarget != s.hadTarget {
		if !hasTarget {
			loggerOr(s.Logger).Printf("enemy: no live player (entity=%s), enemies hold", s.player)
		}
		s.hadTarget = hasTarget
	}
	for _, e := range w.Query(component.EnemyTagComponent.Kind(), component.EnemyComponent.Kind()) {
		s.step(w, e, targetPos, hasTarget, dt)
	}
}

// target reports the player's position when it is present and alive.
func (s *EnemySystem) target(w *ecs.World) (cp.Vector, bool) {
	if !ecs.IsAlive(w, s.player) {
		return cp.Vector{}, false
	}
	if h, ok := ecs.Get(w, s.player, component.HealthComponent.Kind()); ok && h.Dead {
		return cp.Vector{}, false
	}
	return s.Physics.Position(s.player)
}

func (s *EnemySystem) step(w *ecs.World, e ecs.Entity, targetPos cp.Vector, hasTarget bool, dt float64) {
	en, ok := ecs.Get(w, e, component.EnemyComponent.Kind())
	if !ok {
		return
	}
	hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if hp != nil && hp.Dead {
		en.State = component.EnemyDead
		return
	}
	kb, _ := ecs.Get(w, e, component.KnockbackComponent.Kind())

	en.AttackCooldown.Tick(dt)
	if kb != nil {
		kb.Recovery.Tick(dt)
	}

	pos, ok := s.Physics.Position(e)
	if !ok {
		return
	}
	vel, _ := s.Physics.Velocity(e)
	recovering := kb.Recovering()
	cfg := &en.Config

	decision := decideIdle
	var toPlayer cp.Vector
	if hasTarget {
		toPlayer = targetPos.Sub(pos)
		sense := enemySense{
			Dist:           toPlayer.Length(),
			DX:             toPlayer.X,
			DY:             toPlayer.Y,
			DetectionRange: cfg.DetectionRange,
			AttackRange:    cfg.AttackRange,
			CooldownReady:  !en.AttackCooldown.Active(),
			HealthFraction: 1,
		}
		if hp != nil {
			sense.HealthFraction = hp.Snapshot().Fraction()
		}
		decision = s.decide(e, cfg, sense)
	}

	switch decision {
	case decideChase:
		en.State = component.EnemyChasing
		if f := common.Sign(toPlayer.X); f != 0 {
			en.Facing = f
		}
		if !recovering {
			vel.X = common.Sign(toPlayer.X) * cfg.MoveSpeed
		}
	case decideAttack:
		en.State = component.EnemyAttacking
		if f := common.Sign(toPlayer.X); f != 0 {
			en.Facing = f
		}
		if !recovering {
			vel.X = 0
		}
		if !en.AttackCooldown.Active() {
			s.attack(w, e, en, pos, toPlayer)
		}
	default:
		en.State = component.EnemyIdle
		if !recovering {
			vel.X = 0
		}
	}

	s.Physics.SetVelocity(e, vel)
}

func (s *EnemySystem) attack(w *ecs.World, e ecs.Entity, en *component.Enemy, pos, toPlayer cp.Vector) {
	cfg := &en.Config
	en.AttackCooldown.Start(cfg.AttackCooldown)
	w.Events().Push(ecs.Event{Type: ecs.EventAttack, Entity: e, Data: toPlayer})
	if s.Combat == nil {
		return
	}
	s.Combat.TakeDamage(w, s.player, component.Damage{
		Amount:    cfg.AttackDamage,
		Direction: toPlayer,
		Force:     cfg.KnockbackForce,
		Origin:    pos,
		Source:    uint64(e),
	})
}

// decide consults the enemy's script when it has one and falls back to
// the distance rule when the script is missing or fails.
func (s *EnemySystem) decide(e ecs.Entity, cfg *component.EnemyConfig, sense enemySense) enemyDecision {
	name := strings.TrimSpace(cfg.Script)
	if name == "" {
		return builtinEnemyDecision(sense)
	}
	rt := s.script(name)
	if rt == nil || rt.broken {
		return builtinEnemyDecision(sense)
	}
	d, err := rt.decide(sense)
	if err != nil {
		rt.broken = true
		loggerOr(s.Logger).Printf("enemy: entity=%s script %s error, using built-in decision: %s", e, name, flattenError(err))
		return builtinEnemyDecision(sense)
	}
	return d
}

// flattenError keeps a multi-line script error (tengo appends its source
// position on a new line) in one log record.
func flattenError(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}

func (s *EnemySystem) script(name string) *enemyScript {
	if s.scripts == nil {
		s.scripts = make(map[string]*enemyScript)
	}
	if rt, ok := s.scripts[name]; ok {
		return rt
	}

	load := s.LoadScript
	if load == nil {
		load = prefabs.LoadScript
	}
	src, err := load(name)
	var rt *enemyScript
	if err == nil {
		rt, err = compileEnemyScript(name, src)
	}
	if err != nil {
		loggerOr(s.Logger).Printf("enemy: load script %s: %s", name, flattenError(err))
		rt = &enemyScript{path: name, broken: true}
	}
	s.scripts[name] = rt
	return rt
}
