package prefabs

import (
	"log"

	"github.com/milk9111/actioncore/ecs/component"
)

const PlayerFile = "player.yaml"

type PlayerSpec struct {
	Name           string  `yaml:"name"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	MaxHealth      float64 `yaml:"max_health"`
	StartingWeapon string  `yaml:"starting_weapon"`

	Movement struct {
		MoveSpeed  float64 `yaml:"move_speed"`
		ClimbSpeed float64 `yaml:"climb_speed"`
	} `yaml:"movement"`

	Jump struct {
		MinSpeed       float64 `yaml:"min_speed"`
		HoldForce      float64 `yaml:"hold_force"`
		MaxHoldTime    float64 `yaml:"max_hold_time"`
		BufferTime     float64 `yaml:"buffer_time"`
		CoyoteTime     float64 `yaml:"coyote_time"`
		WallCoyoteTime float64 `yaml:"wall_coyote_time"`
	} `yaml:"jump"`

	Probes struct {
		GroundRadius float64 `yaml:"ground_radius"`
		WallDistance float64 `yaml:"wall_distance"`
	} `yaml:"probes"`

	Wall struct {
		ContactDuration float64 `yaml:"contact_duration"`
		JumpForce       float64 `yaml:"jump_force"`
		JumpLock        float64 `yaml:"jump_lock"`
	} `yaml:"wall"`

	Dash struct {
		Speed    float64 `yaml:"speed"`
		Duration float64 `yaml:"duration"`
		Cooldown float64 `yaml:"cooldown"`
	} `yaml:"dash"`

	Attack struct {
		Duration  float64 `yaml:"duration"`
		Radius    float64 `yaml:"radius"`
		HalfAngle float64 `yaml:"half_angle"`
		Damage    float64 `yaml:"damage"`
	} `yaml:"attack"`

	Knockback KnockbackSpec `yaml:"knockback"`
	Color     *YAMLColor    `yaml:"color"`
}

type KnockbackSpec struct {
	Resistance float64 `yaml:"resistance"`
	Duration   float64 `yaml:"duration"`
}

// NewPlayerSpec returns a spec holding the built-in tuning.
func NewPlayerSpec() PlayerSpec {
	d := component.DefaultPlayerConfig()
	var s PlayerSpec
	s.Name = "player"
	s.Width, s.Height, s.MaxHealth = d.Width, d.Height, d.MaxHealth
	s.Movement.MoveSpeed, s.Movement.ClimbSpeed = d.MoveSpeed, d.ClimbSpeed
	s.Jump.MinSpeed = d.MinJumpSpeed
	s.Jump.HoldForce = d.JumpHoldForce
	s.Jump.MaxHoldTime = d.MaxJumpHoldTime
	s.Jump.BufferTime = d.JumpBufferTime
	s.Jump.CoyoteTime = d.CoyoteTime
	s.Jump.WallCoyoteTime = d.WallCoyoteTime
	s.Probes.GroundRadius, s.Probes.WallDistance = d.GroundCheckRadius, d.WallCheckDistance
	s.Wall.ContactDuration = d.WallContactDuration
	s.Wall.JumpForce = d.WallJumpForce
	s.Wall.JumpLock = d.WallJumpLock
	s.Dash.Speed, s.Dash.Duration, s.Dash.Cooldown = d.DashSpeed, d.DashDuration, d.DashCooldown
	s.Attack.Duration = d.AttackDuration
	s.Attack.Radius = d.AttackRadius
	s.Attack.HalfAngle = d.AttackHalfAngle
	s.Attack.Damage = d.AttackDamage
	s.Knockback = KnockbackSpec{Resistance: d.KnockbackResistance, Duration: d.KnockbackDuration}
	return s
}

// LoadPlayerSpec reads player.yaml over the built-in tuning.
func LoadPlayerSpec() (PlayerSpec, error) {
	s := NewPlayerSpec()
	err := LoadSpecInto(PlayerFile, &s)
	return s, err
}

// Config converts the prefab into controller tuning, normalizing bad values.
func (s PlayerSpec) Config(logger *log.Logger) component.PlayerConfig {
	f := newFixer(logger, PlayerFile)
	d := component.DefaultPlayerConfig()

	c := component.PlayerConfig{
		Width:               s.Width,
		Height:              s.Height,
		MaxHealth:           s.MaxHealth,
		MoveSpeed:           s.Movement.MoveSpeed,
		ClimbSpeed:          s.Movement.ClimbSpeed,
		MinJumpSpeed:        s.Jump.MinSpeed,
		JumpHoldForce:       s.Jump.HoldForce,
		MaxJumpHoldTime:     s.Jump.MaxHoldTime,
		JumpBufferTime:      s.Jump.BufferTime,
		CoyoteTime:          s.Jump.CoyoteTime,
		WallCoyoteTime:      s.Jump.WallCoyoteTime,
		GroundCheckRadius:   s.Probes.GroundRadius,
		WallCheckDistance:   s.Probes.WallDistance,
		WallContactDuration: s.Wall.ContactDuration,
		WallJumpForce:       s.Wall.JumpForce,
		WallJumpLock:        s.Wall.JumpLock,
		DashSpeed:           s.Dash.Speed,
		DashDuration:        s.Dash.Duration,
		DashCooldown:        s.Dash.Cooldown,
		AttackDuration:      s.Attack.Duration,
		AttackRadius:        s.Attack.Radius,
		AttackHalfAngle:     s.Attack.HalfAngle,
		AttackDamage:        s.Attack.Damage,
		KnockbackResistance: s.Knockback.Resistance,
		KnockbackDuration:   s.Knockback.Duration,
	}

	f.positive("width", &c.Width, d.Width)
	f.positive("height", &c.Height, d.Height)
	f.positive("max_health", &c.MaxHealth, d.MaxHealth)
	f.positive("probes.ground_radius", &c.GroundCheckRadius, d.GroundCheckRadius)
	f.positive("attack.radius", &c.AttackRadius, d.AttackRadius)
	f.clamp("attack.half_angle", &c.AttackHalfAngle, 0, 180)

	for _, v := range []struct {
		name string
		p    *float64
	}{
		{"jump.max_hold_time", &c.MaxJumpHoldTime},
		{"jump.buffer_time", &c.JumpBufferTime},
		{"jump.coyote_time", &c.CoyoteTime},
		{"jump.wall_coyote_time", &c.WallCoyoteTime},
		{"probes.wall_distance", &c.WallCheckDistance},
		{"wall.jump_lock", &c.WallJumpLock},
		{"dash.duration", &c.DashDuration},
		{"dash.cooldown", &c.DashCooldown},
		{"attack.duration", &c.AttackDuration},
		{"knockback.duration", &c.KnockbackDuration},
	} {
		f.nonNegative(v.name, v.p)
	}
	f.clamp("knockback.resistance", &c.KnockbackResistance, component.MinKnockbackResistance, component.MaxKnockbackResistance)
	return c
}
