package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type skillRig struct {
	t      *testing.T
	w      *ecs.World
	f      *fakeOracle
	skills *SkillSystem
	proj   *ProjectileSystem
	player ecs.Entity
}

func newSkillRig(t *testing.T) *skillRig {
	t.Helper()
	w := ecs.NewWorld()
	f := newFakeOracle()
	combat := NewCombatResolver(f, quietLogger)
	return &skillRig{
		t:      t,
		w:      w,
		f:      f,
		skills: NewSkillSystem(f, combat, quietLogger),
		proj:   NewProjectileSystem(f, combat, quietLogger),
		player: spawnTestPlayer(t, w, f, cp.Vector{}, component.DefaultPlayerConfig()),
	}
}

func (r *skillRig) equip(tmpl component.WeaponTemplate) {
	r.t.Helper()
	_, err := r.skills.Equip(r.w, r.player, &tmpl)
	require.NoError(r.t, err)
}

func (r *skillRig) tick(in component.Input) {
	cur, ok := ecs.Get(r.w, r.player, component.InputComponent.Kind())
	require.True(r.t, ok)
	*cur = in
	r.skills.Update(r.w, dt)
	r.proj.Update(r.w, dt)
	SettleTimers(r.w)
	cur.ClearEdges()
}

func (r *skillRig) idle(n int) {
	for i := 0; i < n; i++ {
		r.tick(component.Input{})
	}
}

func (r *skillRig) fire(aim cp.Vector) {
	r.tick(component.Input{SkillPressed: true, Aim: aim})
}

func (r *skillRig) instance() *component.SkillInstance {
	slot, ok := ecs.Get(r.w, r.player, component.SkillSlotComponent.Kind())
	require.True(r.t, ok)
	return slot.Instance
}

func (r *skillRig) projectiles() []ecs.Entity {
	return r.w.Query(component.ProjectileComponent.Kind())
}

// flyOut ticks until no projectile is left and returns the ticks it took.
func (r *skillRig) flyOut(limit int) int {
	r.t.Helper()
	for i := 1; i <= limit; i++ {
		r.idle(1)
		if len(r.projectiles()) == 0 {
			return i
		}
	}
	r.t.Fatalf("projectile still alive after %d ticks", limit)
	return limit
}

func (r *skillRig) outcomes() []component.ProjectileOutcome {
	var out []component.ProjectileOutcome
	for _, evt := range r.w.Events().Drain() {
		if evt.Type == ecs.EventProjectileDone {
			out = append(out, evt.Data.(component.ProjectileOutcome))
		}
	}
	return out
}

func swordTemplate() component.WeaponTemplate {
	return component.WeaponTemplate{
		Name:      "sword",
		Kind:      component.SkillMeleeArc,
		Cooldown:  32 * dt,
		Damage:    25,
		Range:     2,
		BoxHeight: 1,
	}
}

func knifeTemplate() component.WeaponTemplate {
	return component.WeaponTemplate{
		Name:      "knife",
		Kind:      component.SkillProjectile,
		Cooldown:  32 * dt,
		Damage:    10,
		Range:     3,
		Speed:     8,
		HitRadius: 0.25,
	}
}

func boomerangTemplate() component.WeaponTemplate {
	return component.WeaponTemplate{
		Name:            "boomerang",
		Kind:            component.SkillBoomerang,
		Damage:          10,
		Range:           2,
		Speed:           8,
		HitRadius:       0.25,
		SuccessCooldown: 1,
		FailCooldown:    5,
		ReturnThreshold: 0.5,
	}
}

func TestSkillEquip(t *testing.T) {
	r := newSkillRig(t)

	_, err := r.skills.Equip(r.w, r.player, nil)
	assert.ErrorIs(t, err, ErrNilWeapon)

	bogus := swordTemplate()
	bogus.Kind = "laser"
	_, err = r.skills.Equip(r.w, r.player, &bogus)
	assert.ErrorIs(t, err, ErrUnknownSkill)
	assert.Nil(t, r.instance())

	enemy := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 5}, component.DefaultEnemyConfig())
	sword := swordTemplate()
	_, err = r.skills.Equip(r.w, enemy, &sword)
	assert.ErrorIs(t, err, ErrNoSkillSlot)

	prev, err := r.skills.Equip(r.w, r.player, &sword)
	require.NoError(t, err)
	assert.Nil(t, prev)
	sword.Damage = 999
	assert.Equal(t, 25.0, r.instance().Template.Damage, "template is copied on equip")

	first := r.instance()
	r.fire(cp.Vector{X: 1})
	require.True(t, first.Cooldown.Active())

	knife := knifeTemplate()
	prev, err = r.skills.Equip(r.w, r.player, &knife)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "sword", prev.Name)

	prev, err = r.skills.Equip(r.w, r.player, prev)
	require.NoError(t, err)
	assert.Equal(t, "knife", prev.Name)
	assert.True(t, r.instance().Ready(), "re-equipping never shares cooldown state")
	assert.NotEqual(t, first.Generation, r.instance().Generation)

	assert.Equal(t, "sword", r.skills.Unequip(r.w, r.player).Name)
	assert.Nil(t, r.instance())
	assert.Nil(t, r.skills.Unequip(r.w, r.player))
}

func TestSkillMeleeBox(t *testing.T) {
	r := newSkillRig(t)
	r.equip(swordTemplate())

	ahead := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 1}, component.DefaultEnemyConfig())
	behind := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: -1}, component.DefaultEnemyConfig())
	high := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 1, Y: 2}, component.DefaultEnemyConfig())

	r.fire(cp.Vector{X: 3})
	assert.Equal(t, 75.0, health(t, r.w, ahead).Current)
	assert.Equal(t, 100.0, health(t, r.w, behind).Current)
	assert.Equal(t, 100.0, health(t, r.w, high).Current)

	r.fire(cp.Vector{X: -1})
	assert.Equal(t, 100.0, health(t, r.w, behind).Current, "cooldown gate")

	r.idle(30)
	r.fire(cp.Vector{X: -1})
	assert.Equal(t, 75.0, health(t, r.w, behind).Current)
	assert.Equal(t, 75.0, health(t, r.w, ahead).Current)
}

func TestSkillMeleeVerticalAim(t *testing.T) {
	r := newSkillRig(t)
	r.equip(swordTemplate())
	above := spawnTestEnemy(t, r.w, r.f, cp.Vector{Y: 1.5}, component.DefaultEnemyConfig())
	side := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 1.5}, component.DefaultEnemyConfig())

	assert.True(t, r.skills.TryExecute(r.w, r.player, cp.Vector{Y: 1}))
	assert.Equal(t, 75.0, health(t, r.w, above).Current)
	assert.Equal(t, 100.0, health(t, r.w, side).Current)
}

func TestSkillZeroAimUsesFacing(t *testing.T) {
	r := newSkillRig(t)
	r.equip(swordTemplate())
	left := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: -1}, component.DefaultEnemyConfig())

	p, _ := ecs.Get(r.w, r.player, component.PlayerComponent.Kind())
	p.Facing = -1
	r.fire(cp.Vector{})
	assert.Equal(t, 75.0, health(t, r.w, left).Current)
}

func TestSkillCooldownProgress(t *testing.T) {
	r := newSkillRig(t)
	assert.Equal(t, 1.0, r.skills.CooldownProgress(r.w, r.player), "empty slot")

	r.equip(swordTemplate())
	assert.Equal(t, 1.0, r.skills.CooldownProgress(r.w, r.player))

	r.fire(cp.Vector{X: 1})
	assert.Equal(t, 0.0, r.skills.CooldownProgress(r.w, r.player))
	r.idle(16)
	assert.Equal(t, 0.5, r.skills.CooldownProgress(r.w, r.player))
	r.idle(16)
	assert.Equal(t, 1.0, r.skills.CooldownProgress(r.w, r.player))
}

func TestSkillProjectileCooldownAtTrigger(t *testing.T) {
	r := newSkillRig(t)
	r.equip(knifeTemplate())

	r.fire(cp.Vector{X: 1})
	require.Len(t, r.projectiles(), 1)
	assert.True(t, r.instance().Cooldown.Active())
	assert.Equal(t, 32*dt, r.instance().Cooldown.Duration)

	r.fire(cp.Vector{X: 1})
	assert.Len(t, r.projectiles(), 1, "second throw blocked by cooldown")

	r.flyOut(100)
	assert.Equal(t, []component.ProjectileOutcome{component.OutcomeSuccess}, r.outcomes())
	assert.Equal(t, 32*dt, r.instance().Cooldown.Duration, "outcome does not touch a fixed cooldown")
}

func TestSkillBoomerangSuccess(t *testing.T) {
	r := newSkillRig(t)
	r.equip(boomerangTemplate())
	enemy := spawnTestEnemy(t, r.w, r.f, cp.Vector{X: 1}, component.DefaultEnemyConfig())

	r.fire(cp.Vector{X: 1})
	require.Len(t, r.projectiles(), 1)
	assert.True(t, r.instance().Ready(), "boomerang cooldown waits for the outcome")

	r.flyOut(100)
	assert.Equal(t, []component.ProjectileOutcome{component.OutcomeSuccess}, r.outcomes())
	assert.Equal(t, 80.0, health(t, r.w, enemy).Current, "struck once each way")

	inst := r.instance()
	assert.True(t, inst.Cooldown.Active())
	assert.Equal(t, 1.0, inst.Cooldown.Duration)
	assert.Zero(t, inst.Projectile)
}

func TestSkillBoomerangFail(t *testing.T) {
	r := newSkillRig(t)
	r.equip(boomerangTemplate())

	r.fire(cp.Vector{X: 1})
	r.f.actors[r.player].pos = cp.Vector{X: -10}

	r.flyOut(100)
	assert.Equal(t, []component.ProjectileOutcome{component.OutcomeFail}, r.outcomes())
	assert.Equal(t, 5.0, r.instance().Cooldown.Duration)
	assert.True(t, r.instance().Cooldown.Active())
}

func TestSkillBoomerangForceReturn(t *testing.T) {
	r := newSkillRig(t)
	r.equip(boomerangTemplate())

	r.fire(cp.Vector{X: 1})
	r.idle(3)
	live := r.projectiles()
	require.Len(t, live, 1)

	r.instance().Cooldown.Start(10)
	assert.True(t, r.skills.TryExecute(r.w, r.player, cp.Vector{X: 1}), "recall ignores the cooldown")
	p, _ := ecs.Get(r.w, live[0], component.ProjectileComponent.Kind())
	assert.Equal(t, component.ProjectileReturning, p.Mode)
	assert.Equal(t, cp.Vector{X: -1}, p.ReturnDir)
	assert.True(t, r.skills.TryExecute(r.w, r.player, cp.Vector{X: 1}), "recall while returning is accepted")
	assert.Equal(t, component.ProjectileReturning, p.Mode)
	assert.Equal(t, cp.Vector{X: -1}, p.ReturnDir, "heading fixed at the first recall")

	r.flyOut(10)
	assert.Equal(t, []component.ProjectileOutcome{component.OutcomeSuccess}, r.outcomes())
	assert.Equal(t, 1.0, r.instance().Cooldown.Duration)
}

func TestSkillBoomerangOutcomeForReplacedInstance(t *testing.T) {
	r := newSkillRig(t)
	r.equip(boomerangTemplate())
	r.fire(cp.Vector{X: 1})

	r.equip(boomerangTemplate())
	fresh := r.instance()

	r.flyOut(100)
	assert.Len(t, r.outcomes(), 1)
	assert.True(t, fresh.Ready(), "stale outcome is ignored")
	assert.Zero(t, fresh.Projectile)
}

func TestSkillBoomerangReequipRecallsLiveOne(t *testing.T) {
	r := newSkillRig(t)
	r.equip(boomerangTemplate())
	r.fire(cp.Vector{X: 1})
	r.idle(6)
	live := r.projectiles()
	require.Len(t, live, 1)

	r.equip(boomerangTemplate())
	fresh := r.instance()
	r.fire(cp.Vector{X: 1})

	assert.Equal(t, live, r.projectiles(), "no second boomerang in the air")
	p, _ := ecs.Get(r.w, live[0], component.ProjectileComponent.Kind())
	assert.Equal(t, component.ProjectileReturning, p.Mode)
	assert.Zero(t, fresh.Projectile)

	r.flyOut(100)
	assert.True(t, fresh.Ready())
	r.fire(cp.Vector{X: 1})
	assert.Len(t, r.projectiles(), 1)
	assert.NotZero(t, fresh.Projectile)
}

func TestSkillIgnoredWhenDead(t *testing.T) {
	r := newSkillRig(t)
	r.equip(knifeTemplate())
	health(t, r.w, r.player).TakeDamage(1000)

	r.fire(cp.Vector{X: 1})
	assert.Empty(t, r.projectiles())
}
