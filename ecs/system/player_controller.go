package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
)

// PlayerControllerSystem runs the player's per-tick decision procedure:
// ground, wall, dash, timers, movement, jump, attack, then state.
// Later steps read flags written by earlier ones in the same tick.
type PlayerControllerSystem struct {
	Physics PhysicsOracle
	Combat  *CombatResolver
	Logger  *log.Logger

	authority ecs.Entity
}

func NewPlayerControllerSystem(physics PhysicsOracle, combat *CombatResolver, logger *log.Logger) *PlayerControllerSystem {
	return &PlayerControllerSystem{Physics: physics, Combat: combat, Logger: logger}
}

// Authority is the player entity currently driven by this controller.
func (p *PlayerControllerSystem) Authority() ecs.Entity {
	return p.authority
}

func (p *PlayerControllerSystem) Update(w *ecs.World, dt float64) {
	if p == nil || w == nil || p.Physics == nil {
		return
	}
	players := w.Query(
		component.PlayerTagComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
	)
	if len(players) == 0 {
		return
	}
	e := p.enforceSingleAuthority(w, players)
	p.step(w, e, dt)
}

// enforceSingleAuthority keeps the first adopted player and removes any
// player that appears later.
func (p *PlayerControllerSystem) enforceSingleAuthority(w *ecs.World, players []ecs.Entity) ecs.Entity {
	if !ecs.IsAlive(w, p.authority) || !ecs.Has(w, p.authority, component.PlayerTagComponent.Kind()) {
		p.authority = players[0]
	}
	for _, e := range players {
		if e == p.authority {
			continue
		}
		loggerOr(p.Logger).Printf("player: rejecting duplicate player entity=%s (authority=%s)", e, p.authority)
		w.Events().Push(ecs.Event{Type: ecs.EventRejected, Entity: e, Source: p.authority})
		despawn(w, p.Physics, e)
	}
	return p.authority
}

func (p *PlayerControllerSystem) step(w *ecs.World, e ecs.Entity, dt float64) {
	pl, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}
	pos, ok := p.Physics.Position(e)
	if !ok {
		return
	}
	vel, _ := p.Physics.Velocity(e)
	hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	kb, _ := ecs.Get(w, e, component.KnockbackComponent.Kind())
	sm, _ := ecs.Get(w, e, component.MotionStateComponent.Kind())

	if pl.Frozen || (hp != nil && hp.Dead) {
		p.freeze(e, pl, sm)
		return
	}

	cfg := &pl.Config
	t := &pl.Timers
	pl.JumpedThisTick = false
	if in.JumpPressed {
		pl.JumpHeld = true
	}
	if in.JumpReleased {
		pl.JumpHeld = false
	}

	p.updateGround(pl, pos)
	p.updateWall(pl, pos, vel, in.Move.X)
	p.updateDash(pl, &vel, in.Move.X, in.DashPressed, dt)

	// timers
	t.JumpBuffer.Tick(dt)
	t.CoyoteGround.Tick(dt)
	t.CoyoteWall.Tick(dt)
	t.DashCooldown.Tick(dt)
	if pl.OnWall {
		t.WallBudget.Tick(dt)
	}
	t.Attack.Tick(dt)
	t.WallJumpLock.Tick(dt)
	if kb != nil {
		kb.Recovery.Tick(dt)
	}

	// movement
	switch {
	case pl.Dashing:
	case pl.OnWall:
		vel.X = 0
		vel.Y = in.Move.Y * cfg.ClimbSpeed
	case t.WallJumpLock.Active() || kb.Recovering():
	default:
		vel.X = in.Move.X * cfg.MoveSpeed
		if s := common.Sign(in.Move.X); s != 0 {
			pl.Facing = s
		}
	}

	p.updateJump(pl, &vel, in.JumpPressed, dt)

	if in.AttackPressed {
		p.attack(w, e, pl, pos, in.Aim)
	}

	p.Physics.SetVelocity(e, vel)
	p.Physics.SetGravityEnabled(e, !pl.Dashing && !pl.OnWall)

	if sm != nil {
		sm.Set(deriveMotionState(pl, vel, in.Move, false))
	}
}

func (p *PlayerControllerSystem) freeze(e ecs.Entity, pl *component.Player, sm *component.MotionStateMachine) {
	if !pl.Frozen {
		loggerOr(p.Logger).Printf("player: entity=%s died", e)
	}
	pl.Frozen = true
	pl.Dashing = false
	pl.OnWall = false
	pl.Jumping = false
	p.Physics.SetVelocity(e, cp.Vector{})
	p.Physics.SetGravityEnabled(e, false)
	if sm != nil {
		sm.Set(component.StateDead)
	}
}

func (p *PlayerControllerSystem) updateGround(pl *component.Player, pos cp.Vector) {
	cfg := &pl.Config
	t := &pl.Timers

	wasGrounded := pl.Grounded
	feet := pos.Add(cp.Vector{Y: -cfg.Height / 2})
	pl.Grounded = p.Physics.IsGroundedAt(feet, cfg.GroundCheckRadius, component.LayerGround)

	switch {
	case wasGrounded && !pl.Grounded:
		// Walking off a ledge opens the coyote window; jumping off does not.
		if !pl.Jumping {
			t.CoyoteGround.Start(cfg.CoyoteTime)
		}
	case !wasGrounded && pl.Grounded:
		t.CoyoteGround.Stop()
		t.WallBudget.Start(cfg.WallContactDuration)
		pl.DashAvailable = true
		pl.Jumping = false
	}
	if pl.Grounded && !pl.Dashing {
		pl.DashAvailable = true
	}
}

// wallContact returns -1 or 1 for a wall touching the left or right side,
// preferring the side the player is pushing toward.
func (p *PlayerControllerSystem) wallContact(pl *component.Player, pos cp.Vector, moveX float64) float64 {
	reach := pl.Config.Width/2 + pl.Config.WallCheckDistance
	_, left := p.Physics.Raycast(pos, cp.Vector{X: -1}, reach, component.LayerGround)
	_, right := p.Physics.Raycast(pos, cp.Vector{X: 1}, reach, component.LayerGround)
	switch {
	case left && right:
		if common.Sign(moveX) > 0 {
			return 1
		}
		return -1
	case left:
		return -1
	case right:
		return 1
	default:
		return 0
	}
}

func (p *PlayerControllerSystem) wallBudgetLeft(pl *component.Player) bool {
	// A non-positive contact duration means walls can be held indefinitely.
	return pl.Config.WallContactDuration <= 0 || pl.Timers.WallBudget.Active()
}

func (p *PlayerControllerSystem) updateWall(pl *component.Player, pos, vel cp.Vector, moveX float64) {
	side := p.wallContact(pl, pos, moveX)

	if pl.OnWall {
		switch {
		case pl.Grounded:
			pl.OnWall = false
			pl.WallSide = 0
		case side != pl.WallSide, common.Sign(moveX) == -pl.WallSide, !p.wallBudgetLeft(pl):
			p.detachWall(pl)
		}
		return
	}

	if side == 0 || pl.Grounded || pl.Dashing || !p.wallBudgetLeft(pl) {
		return
	}
	if common.Sign(moveX) == -side || vel.Y > 0 {
		return
	}
	pl.OnWall = true
	pl.WallSide = side
	pl.Facing = side
	pl.Jumping = false
	pl.Timers.CoyoteWall.Stop()
}

func (p *PlayerControllerSystem) detachWall(pl *component.Player) {
	pl.LastWallSide = pl.WallSide
	pl.OnWall = false
	pl.WallSide = 0
	pl.Timers.CoyoteWall.Start(pl.Config.WallCoyoteTime)
}

func (p *PlayerControllerSystem) updateDash(pl *component.Player, vel *cp.Vector, moveX float64, requested bool, dt float64) {
	cfg := &pl.Config

	if pl.Dashing {
		pl.DashElapsed += dt
		cancelled := common.Sign(moveX) == -pl.DashDir
		if cancelled || pl.DashElapsed >= cfg.DashDuration {
			p.endDash(pl)
		}
	}

	if !pl.Dashing && requested && pl.DashAvailable && !pl.Timers.DashCooldown.Active() && !pl.OnWall {
		dir := common.Sign(moveX)
		if dir == 0 {
			dir = pl.Facing
		}
		pl.Dashing = true
		pl.DashAvailable = false
		pl.DashDir = dir
		pl.DashElapsed = 0
		pl.Facing = dir
		pl.JumpHoldElapsed = cfg.MaxJumpHoldTime
		vel.Y = 0
	}

	if pl.Dashing {
		vel.X = pl.DashDir * cfg.DashSpeed
	}
}

func (p *PlayerControllerSystem) endDash(pl *component.Player) {
	pl.Dashing = false
	pl.Timers.DashCooldown.Start(pl.Config.DashCooldown)
}

func (p *PlayerControllerSystem) updateJump(pl *component.Player, vel *cp.Vector, pressed bool, dt float64) {
	cfg := &pl.Config
	t := &pl.Timers

	canJump := pl.Grounded || pl.OnWall || t.CoyoteGround.Active() || t.CoyoteWall.Active()

	switch {
	case pressed && canJump:
		p.launch(pl, vel)
		return
	case pressed:
		t.JumpBuffer.Start(cfg.JumpBufferTime)
	case t.JumpBuffer.Active() && canJump:
		p.launch(pl, vel)
		return
	}

	if !pl.Jumping {
		return
	}
	if !pl.JumpHeld {
		pl.JumpHoldElapsed = cfg.MaxJumpHoldTime
	}
	if pl.JumpHoldElapsed >= cfg.MaxJumpHoldTime || vel.Y <= 0 {
		return
	}
	vel.Y += cfg.JumpHoldForce * dt
	pl.JumpHoldElapsed += dt
}

func (p *PlayerControllerSystem) launch(pl *component.Player, vel *cp.Vector) {
	cfg := &pl.Config
	t := &pl.Timers

	vel.Y = cfg.MinJumpSpeed
	// a jump ends a dash early; the dash speed carries into the jump
	if pl.Dashing {
		p.endDash(pl)
	}

	side := 0.0
	switch {
	case pl.OnWall:
		side = pl.WallSide
	case !pl.Grounded && !t.CoyoteGround.Active() && t.CoyoteWall.Active():
		side = pl.LastWallSide
	}
	if side != 0 {
		vel.X = -side * cfg.WallJumpForce
		pl.Facing = -side
		t.WallJumpLock.Start(cfg.WallJumpLock)
	}
	if pl.OnWall {
		pl.LastWallSide = pl.WallSide
		pl.OnWall = false
		pl.WallSide = 0
	}

	t.CoyoteGround.Stop()
	t.CoyoteWall.Stop()
	t.JumpBuffer.Stop()

	pl.Jumping = true
	pl.JumpHoldElapsed = 0
	pl.JumpedThisTick = true
}

func (p *PlayerControllerSystem) attack(w *ecs.World, e ecs.Entity, pl *component.Player, pos, aim cp.Vector) {
	cfg := &pl.Config
	if pl.Timers.Attack.Active() {
		return
	}
	dir := common.Normalize(aim)
	if common.IsZero(dir) {
		dir = cp.Vector{X: pl.Facing}
	}
	pl.AttackAim = dir
	pl.Timers.Attack.Start(cfg.AttackDuration)
	w.Events().Push(ecs.Event{Type: ecs.EventAttack, Entity: e, Data: dir})

	if p.Combat == nil {
		return
	}
	p.Combat.Resolve(w, HitQuery{
		Origin:    pos,
		Aim:       dir,
		Shape:     component.Circle(pos, cfg.AttackRadius),
		HalfAngle: cfg.AttackHalfAngle,
		Mask:      component.LayerEnemy,
		Exclude:   e,
	}, component.Damage{Amount: cfg.AttackDamage, Origin: pos, Source: uint64(e)})
}
