package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

const (
	defaultMeleeBoxHeight  = 1.0
	defaultHitRadius       = 0.25
	defaultReturnThreshold = 0.5
)

type skillContext struct {
	sys   *SkillSystem
	w     *ecs.World
	owner ecs.Entity
	inst  *component.SkillInstance
	pos   cp.Vector
	dir   cp.Vector
	mask  component.Layer
}

type skillStrategy interface {
	execute(ctx *skillContext) bool
}

type skillFunc func(ctx *skillContext) bool

func (f skillFunc) execute(ctx *skillContext) bool { return f(ctx) }

var skillStrategies = map[component.SkillKind]skillStrategy{
	component.SkillMeleeArc:   skillFunc(executeMelee),
	component.SkillProjectile: skillFunc(executeProjectile),
	component.SkillBoomerang:  skillFunc(executeBoomerang),
}

// executeMelee sweeps a box laid along the aim, from the owner out to Range.
func executeMelee(ctx *skillContext) bool {
	inst := ctx.inst
	if !inst.Ready() {
		return false
	}
	tmpl := &inst.Template
	inst.Cooldown.Start(tmpl.Cooldown)

	width := tmpl.BoxWidth
	if width <= 0 {
		width = tmpl.Range
	}
	height := tmpl.BoxHeight
	if height <= 0 {
		height = defaultMeleeBoxHeight
	}
	center := ctx.pos.Add(ctx.dir.Mult(tmpl.Range / 2))
	angle := ctx.dir.ToAngle()

	if ctx.sys.Combat != nil {
		ctx.sys.Combat.Resolve(ctx.w, HitQuery{
			Origin:  ctx.pos,
			Aim:     ctx.dir,
			Shape:   component.Box(center, width, height, angle),
			Mask:    ctx.mask,
			Exclude: ctx.owner,
		}, component.Damage{
			Amount:    tmpl.Damage,
			Direction: ctx.dir,
			Force:     tmpl.KnockbackForce,
			Origin:    ctx.pos,
			Source:    uint64(ctx.owner),
		})
	}
	return true
}

func executeProjectile(ctx *skillContext) bool {
	inst := ctx.inst
	if !inst.Ready() {
		return false
	}
	inst.Cooldown.Start(inst.Template.Cooldown)
	spawnSkillProjectile(ctx, component.ProjectileLinear)
	return true
}

// executeBoomerang recalls a live boomerang or throws a new one. The recall
// ignores the cooldown; the cooldown itself is set when the boomerang reports
// how its flight ended. An owner has at most one boomerang in the air, even
// across re-equips: a boomerang thrown by a replaced instance is recalled
// instead of throwing a second, and its outcome is dropped.
func executeBoomerang(ctx *skillContext) bool {
	inst := ctx.inst
	if p := liveBoomerang(ctx.w, ctx.owner, ecs.Entity(inst.Projectile)); p != nil {
		// a boomerang already returning keeps its heading
		p.BeginReturn(ctx.pos)
		return true
	}
	if !inst.Ready() {
		return false
	}
	inst.Projectile = uint64(spawnSkillProjectile(ctx, component.ProjectileBoomerang))
	return true
}

// liveBoomerang returns owner's boomerang that has not terminated yet,
// checking hint first.
func liveBoomerang(w *ecs.World, owner, hint ecs.Entity) *component.Projectile {
	live := func(e ecs.Entity) *component.Projectile {
		if e == 0 || !ecs.IsAlive(w, e) {
			return nil
		}
		p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
		if !ok || p.Kind != component.ProjectileBoomerang || p.Owner != uint64(owner) || p.Mode == component.ProjectileTerminated {
			return nil
		}
		return p
	}
	if p := live(hint); p != nil {
		return p
	}
	for _, e := range w.Query(component.ProjectileComponent.Kind()) {
		if p := live(e); p != nil {
			return p
		}
	}
	return nil
}

func spawnSkillProjectile(ctx *skillContext, kind component.ProjectileKind) ecs.Entity {
	tmpl := &ctx.inst.Template
	e := ecs.CreateEntity(ctx.w)

	radius := tmpl.HitRadius
	if radius <= 0 {
		radius = defaultHitRadius
	}
	threshold := tmpl.ReturnThreshold
	if threshold <= 0 {
		threshold = defaultReturnThreshold
	}

	sys, w, owner, generation := ctx.sys, ctx.w, ctx.owner, ctx.inst.Generation
	p := &component.Projectile{
		Kind:            kind,
		Position:        ctx.pos,
		Start:           ctx.pos,
		Dir:             ctx.dir,
		Speed:           tmpl.Speed,
		MaxDistance:     tmpl.Range,
		Damage:          tmpl.Damage,
		KnockbackForce:  tmpl.KnockbackForce,
		HitRadius:       radius,
		ReturnThreshold: threshold,
		Mask:            ctx.mask,
		Owner:           uint64(owner),
	}
	p.OnComplete = func(outcome component.ProjectileOutcome) {
		sys.complete(w, owner, generation, e, outcome)
	}
	if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), p); err != nil {
		loggerOr(sys.Logger).Printf("skill: spawn projectile: %v", err)
	}
	return e
}
