package system

import (
	"io"
	"log"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/stretchr/testify/require"
)

// dt is a power of two so timer windows land on exact tick boundaries.
const dt = 1.0 / 64

var quietLogger = log.New(io.Discard, "", 0)

func spawnTestEnemy(t *testing.T, w *ecs.World, f *fakeOracle, pos cp.Vector, cfg component.EnemyConfig) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{}))
	require.NoError(t, ecs.Add(w, e, component.EnemyComponent.Kind(), component.NewEnemy(cfg)))
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(cfg.MaxHealth)))
	if cfg.KnockbackAware {
		require.NoError(t, ecs.Add(w, e, component.KnockbackComponent.Kind(), component.NewKnockback(cfg.KnockbackResistance, cfg.KnockbackDuration)))
	}
	f.add(e, pos, component.LayerEnemy)
	return e
}

func spawnTestPlayer(t *testing.T, w *ecs.World, f *fakeOracle, pos cp.Vector, cfg component.PlayerConfig) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, e, component.PlayerComponent.Kind(), component.NewPlayer(cfg)))
	require.NoError(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}))
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(cfg.MaxHealth)))
	require.NoError(t, ecs.Add(w, e, component.KnockbackComponent.Kind(), component.NewKnockback(cfg.KnockbackResistance, cfg.KnockbackDuration)))
	require.NoError(t, ecs.Add(w, e, component.MotionStateComponent.Kind(), &component.MotionStateMachine{}))
	require.NoError(t, ecs.Add(w, e, component.SkillSlotComponent.Kind(), &component.SkillSlot{}))
	f.add(e, pos, component.LayerPlayer)
	return e
}

func health(t *testing.T, w *ecs.World, e ecs.Entity) *component.Health {
	t.Helper()
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	require.True(t, ok)
	return h
}
