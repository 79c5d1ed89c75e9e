package system

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enemyRig struct {
	t      *testing.T
	w      *ecs.World
	f      *fakeOracle
	sys    *EnemySystem
	player ecs.Entity
}

func newEnemyRig(t *testing.T) *enemyRig {
	t.Helper()
	w := ecs.NewWorld()
	f := newFakeOracle()
	sys := NewEnemySystem(f, NewCombatResolver(f, quietLogger), quietLogger)
	p := spawnTestPlayer(t, w, f, cp.Vector{}, component.DefaultPlayerConfig())
	sys.SetPlayer(p)
	return &enemyRig{t: t, w: w, f: f, sys: sys, player: p}
}

func (r *enemyRig) tick(n int) {
	for i := 0; i < n; i++ {
		r.sys.Update(r.w, dt)
		SettleTimers(r.w)
	}
}

func (r *enemyRig) enemy(e ecs.Entity) *component.Enemy {
	en, ok := ecs.Get(r.w, e, component.EnemyComponent.Kind())
	require.True(r.t, ok)
	return en
}

func TestEnemyStatesByDistance(t *testing.T) {
	cases := []struct {
		name  string
		pos   cp.Vector
		state component.EnemyState
		vx    float64
	}{
		{"out_of_detection", cp.Vector{X: 6}, component.EnemyIdle, 0},
		{"chase_from_right", cp.Vector{X: 2}, component.EnemyChasing, -3},
		{"chase_from_left", cp.Vector{X: -4}, component.EnemyChasing, 3},
		{"detection_edge", cp.Vector{X: 5}, component.EnemyChasing, -3},
		{"in_attack_range", cp.Vector{X: 0.5}, component.EnemyAttacking, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newEnemyRig(t)
			e := spawnTestEnemy(t, r.w, r.f, c.pos, component.DefaultEnemyConfig())
			r.f.SetVelocity(e, cp.Vector{X: 9, Y: -1})

			r.tick(1)
			v, _ := r.f.Velocity(e)
			assert.Equal(t, c.state, r.enemy(e).State)
			assert.Equal(t, c.vx, v.X)
			assert.Equal(t, -1.0, v.Y, "vertical velocity belongs to physics")
		})
	}
}

func TestEnemyAttackCooldown(t *testing.T) {
	r := newEnemyRig(t)
	cfg := component.DefaultEnemyConfig()
	cfg.AttackCooldown = 64 * dt
	spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 0.5}, cfg)

	r.tick(1)
	assert.Equal(t, 90.0, health(t, r.w, r.player).Current)

	r.tick(63)
	assert.Equal(t, 90.0, health(t, r.w, r.player).Current)

	r.tick(1)
	assert.Equal(t, 80.0, health(t, r.w, r.player).Current, "second hit exactly one cooldown later")
}

func TestEnemyAttackKnocksPlayerBack(t *testing.T) {
	r := newEnemyRig(t)
	cfg := component.DefaultEnemyConfig()
	cfg.KnockbackForce = 4
	spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 0.5}, cfg)

	r.tick(1)
	assert.Equal(t, cp.Vector{X: -4}, r.f.impulses[r.player])
}

func TestEnemyKnockbackSuspendsChase(t *testing.T) {
	r := newEnemyRig(t)
	cfg := component.DefaultEnemyConfig()
	cfg.KnockbackAware = true
	cfg.KnockbackDuration = 8 * dt
	e := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 3}, cfg)

	kb, _ := ecs.Get(r.w, e, component.KnockbackComponent.Kind())
	r.f.ApplyImpulse(e, kb.Apply(cp.Vector{X: 1}, 5))
	SettleTimers(r.w)

	r.tick(1)
	v, _ := r.f.Velocity(e)
	assert.Equal(t, 5.0, v.X)
	assert.Equal(t, component.EnemyChasing, r.enemy(e).State)

	r.tick(8)
	v, _ = r.f.Velocity(e)
	assert.Equal(t, -3.0, v.X)
}

func TestEnemyWithoutPlayerIdles(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		r := newEnemyRig(t)
		e := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 1}, component.DefaultEnemyConfig())
		despawn(r.w, r.f, r.player)
		r.f.SetVelocity(e, cp.Vector{X: 2})

		r.tick(1)
		v, _ := r.f.Velocity(e)
		assert.Equal(t, component.EnemyIdle, r.enemy(e).State)
		assert.Equal(t, 0.0, v.X)
	})

	t.Run("dead", func(t *testing.T) {
		r := newEnemyRig(t)
		e := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 0.5}, component.DefaultEnemyConfig())
		health(t, r.w, r.player).TakeDamage(1000)

		r.tick(1)
		assert.Equal(t, component.EnemyIdle, r.enemy(e).State)
		assert.Empty(t, r.w.Events().Drain())
	})
}

func TestEnemyDeadStaysDead(t *testing.T) {
	r := newEnemyRig(t)
	e := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 0.5}, component.DefaultEnemyConfig())
	health(t, r.w, e).TakeDamage(1000)

	r.tick(3)
	assert.Equal(t, component.EnemyDead, r.enemy(e).State)
	assert.Equal(t, 100.0, health(t, r.w, r.player).Current)
}

func TestEnemyScriptDecision(t *testing.T) {
	scripts := map[string]string{
		"always_attack.tengo": `
decide := func(e) {
	if e.dist > e.detection_range { return "idle" }
	return "attack"
}
`,
		"bad_decision.tengo": `
decide := func(e) { return "dance" }
`,
		"syntax.tengo": `decide := func(`,
	}
	loads := 0
	load := func(name string) ([]byte, error) {
		loads++
		src, ok := scripts[name]
		if !ok {
			return nil, errors.New("not found")
		}
		return []byte(src), nil
	}

	cases := []struct {
		script string
		want   component.EnemyState
	}{
		{"always_attack.tengo", component.EnemyAttacking},
		{"bad_decision.tengo", component.EnemyChasing},
		{"syntax.tengo", component.EnemyChasing},
		{"missing.tengo", component.EnemyChasing},
	}
	for _, c := range cases {
		t.Run(c.script, func(t *testing.T) {
			loads = 0
			var buf bytes.Buffer
			r := newEnemyRig(t)
			r.sys.Logger = log.New(&buf, "", 0)
			r.sys.LoadScript = load

			cfg := component.DefaultEnemyConfig()
			cfg.Script = c.script
			e := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 3}, cfg)

			r.tick(3)
			assert.Equal(t, c.want, r.enemy(e).State)
			assert.Equal(t, 1, loads, "scripts are loaded once")
			if c.want == component.EnemyChasing {
				assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "failure logged once")
				assert.Contains(t, buf.String(), c.script)
			}
		})
	}
}

func TestEnemyScriptAttackDealsDamage(t *testing.T) {
	r := newEnemyRig(t)
	r.sys.LoadScript = func(string) ([]byte, error) {
		return []byte(`decide := func(e) { return e.cooldown_ready ? "attack" : "chase" }`), nil
	}
	cfg := component.DefaultEnemyConfig()
	cfg.Script = "eager.tengo"
	e := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 3}, cfg)

	r.tick(1)
	assert.Equal(t, component.EnemyAttacking, r.enemy(e).State)
	assert.Equal(t, 90.0, health(t, r.w, r.player).Current)

	r.tick(1)
	assert.Equal(t, component.EnemyChasing, r.enemy(e).State)
}

func TestBuiltinEnemyDecision(t *testing.T) {
	base := enemySense{DetectionRange: 5, AttackRange: 1}
	cases := []struct {
		dist float64
		want enemyDecision
	}{
		{0, decideAttack},
		{1, decideAttack},
		{1.01, decideChase},
		{5, decideChase},
		{5.01, decideIdle},
	}
	for _, c := range cases {
		in := base
		in.Dist = c.dist
		assert.Equal(t, c.want, builtinEnemyDecision(in), "dist=%v", c.dist)
	}
}
