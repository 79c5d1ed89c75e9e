package prefabs

import (
	"log"
	"path"
	"strings"

	"github.com/milk9111/actioncore/ecs/component"
)

const (
	BasicEnemyFile = "basic_enemy.yaml"
	SlimeFile      = "slime.yaml"
)

type EnemySpec struct {
	Name      string  `yaml:"name"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MaxHealth float64 `yaml:"max_health"`

	MoveSpeed      float64 `yaml:"move_speed"`
	DetectionRange float64 `yaml:"detection_range"`
	AttackRange    float64 `yaml:"attack_range"`
	AttackDamage   float64 `yaml:"attack_damage"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	KnockbackForce float64 `yaml:"knockback_force"`

	// Knockback is present only on knockback-aware enemies.
	Knockback *KnockbackSpec `yaml:"knockback"`
	Script    string         `yaml:"script"`
	Color     *YAMLColor     `yaml:"color"`
}

func NewEnemySpec() EnemySpec {
	d := component.DefaultEnemyConfig()
	return EnemySpec{
		Name:           d.Name,
		Width:          d.Width,
		Height:         d.Height,
		MaxHealth:      d.MaxHealth,
		MoveSpeed:      d.MoveSpeed,
		DetectionRange: d.DetectionRange,
		AttackRange:    d.AttackRange,
		AttackDamage:   d.AttackDamage,
		AttackCooldown: d.AttackCooldown,
	}
}

// EnemyFile maps an archetype name like "slime" to its prefab file.
func EnemyFile(name string) string {
	name = strings.TrimSpace(name)
	if path.Ext(name) == "" {
		name += ".yaml"
	}
	return name
}

// LoadEnemySpec reads the named archetype over the built-in basic enemy tuning.
func LoadEnemySpec(name string) (EnemySpec, error) {
	s := NewEnemySpec()
	err := LoadSpecInto(EnemyFile(name), &s)
	return s, err
}

func (s EnemySpec) Config(logger *log.Logger) component.EnemyConfig {
	file := s.Name + ".yaml"
	f := newFixer(logger, file)
	d := component.DefaultEnemyConfig()

	c := component.EnemyConfig{
		Name:           s.Name,
		Width:          s.Width,
		Height:         s.Height,
		MaxHealth:      s.MaxHealth,
		MoveSpeed:      s.MoveSpeed,
		DetectionRange: s.DetectionRange,
		AttackRange:    s.AttackRange,
		AttackDamage:   s.AttackDamage,
		AttackCooldown: s.AttackCooldown,
		KnockbackForce: s.KnockbackForce,
		Script:         strings.TrimSpace(s.Script),
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	f.positive("width", &c.Width, d.Width)
	f.positive("height", &c.Height, d.Height)
	f.positive("max_health", &c.MaxHealth, d.MaxHealth)
	f.nonNegative("move_speed", &c.MoveSpeed)
	f.nonNegative("detection_range", &c.DetectionRange)
	f.nonNegative("attack_range", &c.AttackRange)
	f.nonNegative("attack_damage", &c.AttackDamage)
	f.nonNegative("attack_cooldown", &c.AttackCooldown)
	f.nonNegative("knockback_force", &c.KnockbackForce)
	if c.AttackRange > c.DetectionRange {
		f.logger.Printf("prefabs: %s: attack_range %v exceeds detection_range %v", file, c.AttackRange, c.DetectionRange)
	}

	if s.Knockback != nil {
		c.KnockbackAware = true
		c.KnockbackResistance = s.Knockback.Resistance
		c.KnockbackDuration = s.Knockback.Duration
		f.clamp("knockback.resistance", &c.KnockbackResistance, component.MinKnockbackResistance, component.MaxKnockbackResistance)
		f.nonNegative("knockback.duration", &c.KnockbackDuration)
	}
	return c
}
