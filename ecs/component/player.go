package component

import "github.com/jakecoffman/cp"

// PlayerConfig is the tuning block for the player controller. Times are
// seconds, speeds world units per second.
type PlayerConfig struct {
	Width  float64
	Height float64

	MaxHealth float64

	MoveSpeed  float64
	ClimbSpeed float64

	MinJumpSpeed    float64
	JumpHoldForce   float64
	MaxJumpHoldTime float64
	JumpBufferTime  float64
	CoyoteTime      float64
	WallCoyoteTime  float64

	GroundCheckRadius   float64
	WallCheckDistance   float64
	WallContactDuration float64
	WallJumpForce       float64
	WallJumpLock        float64

	DashSpeed    float64
	DashDuration float64
	DashCooldown float64

	AttackDuration  float64
	AttackRadius    float64
	AttackHalfAngle float64
	AttackDamage    float64

	KnockbackResistance float64
	KnockbackDuration   float64
}

// DefaultPlayerConfig mirrors prefabs/player.yaml.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Width:               0.8,
		Height:              1.6,
		MaxHealth:           100,
		MoveSpeed:           5,
		ClimbSpeed:          3,
		MinJumpSpeed:        8,
		JumpHoldForce:       20,
		MaxJumpHoldTime:     0.25,
		JumpBufferTime:      0.125,
		CoyoteTime:          0.125,
		WallCoyoteTime:      0.125,
		GroundCheckRadius:   0.2,
		WallCheckDistance:   0.1,
		WallContactDuration: 1.5,
		WallJumpForce:       6,
		WallJumpLock:        0.15,
		DashSpeed:           16,
		DashDuration:        0.1875,
		DashCooldown:        0.5,
		AttackDuration:      0.25,
		AttackRadius:        1.5,
		AttackHalfAngle:     45,
		AttackDamage:        10,
		KnockbackResistance: 0,
		KnockbackDuration:   0.2,
	}
}

// PlayerTimers is the player's named countdown set.
type PlayerTimers struct {
	JumpBuffer   Timer
	CoyoteGround Timer
	CoyoteWall   Timer
	DashCooldown Timer
	WallBudget   Timer
	Attack       Timer
	WallJumpLock Timer
}

func (t *PlayerTimers) each(fn func(*Timer)) {
	fn(&t.JumpBuffer)
	fn(&t.CoyoteGround)
	fn(&t.CoyoteWall)
	fn(&t.DashCooldown)
	fn(&t.WallBudget)
	fn(&t.Attack)
	fn(&t.WallJumpLock)
}

func (t *PlayerTimers) Settle() {
	t.each((*Timer).Settle)
}

// Player is the controller's runtime state.
type Player struct {
	Config PlayerConfig
	Timers PlayerTimers

	Grounded bool
	// Facing is -1 or 1.
	Facing float64

	OnWall       bool
	WallSide     float64
	LastWallSide float64

	DashAvailable bool
	Dashing       bool
	DashDir       float64
	DashElapsed   float64

	Jumping         bool
	JumpHeld        bool
	JumpHoldElapsed float64
	JumpedThisTick  bool

	AttackAim cp.Vector
	Frozen    bool
}

func NewPlayer(cfg PlayerConfig) *Player {
	p := &Player{Config: cfg, Facing: 1, DashAvailable: true}
	p.Timers.WallBudget.Start(cfg.WallContactDuration)
	p.Timers.WallBudget.Settle()
	return p
}

var PlayerComponent = NewComponent[Player]()
