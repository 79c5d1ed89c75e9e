package component

// EnemyConfig is the tuning block for one enemy archetype.
type EnemyConfig struct {
	Name   string
	Width  float64
	Height float64

	MaxHealth      float64
	MoveSpeed      float64
	DetectionRange float64
	AttackRange    float64
	AttackDamage   float64
	AttackCooldown float64
	// KnockbackForce is applied to the player on each attack. Zero disables it.
	KnockbackForce float64

	// KnockbackAware enemies get a Knockback component; simple ones ignore pushes.
	KnockbackAware      bool
	KnockbackResistance float64
	KnockbackDuration   float64

	// Script optionally names a decision script under prefabs/scripts.
	Script string
}

// DefaultEnemyConfig is the fallback for fields basic_enemy.yaml leaves out.
func DefaultEnemyConfig() EnemyConfig {
	return EnemyConfig{
		Name:           "basic_enemy",
		Width:          0.8,
		Height:         1.2,
		MaxHealth:      100,
		MoveSpeed:      3,
		DetectionRange: 5,
		AttackRange:    1,
		AttackDamage:   10,
		AttackCooldown: 1,
	}
}

type EnemyState int

const (
	EnemyIdle EnemyState = iota
	EnemyChasing
	EnemyAttacking
	EnemyDead
)

func (s EnemyState) String() string {
	switch s {
	case EnemyIdle:
		return "idle"
	case EnemyChasing:
		return "chasing"
	case EnemyAttacking:
		return "attacking"
	case EnemyDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Enemy is the per-instance runtime state.
type Enemy struct {
	Config         EnemyConfig
	AttackCooldown Timer
	State          EnemyState
	Facing         float64
}

func NewEnemy(cfg EnemyConfig) *Enemy {
	return &Enemy{Config: cfg, Facing: -1}
}

var EnemyComponent = NewComponent[Enemy]()
