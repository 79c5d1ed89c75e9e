package component

import "fmt"

type SkillKind string

const (
	SkillMeleeArc   SkillKind = "melee_arc"
	SkillProjectile SkillKind = "projectile"
	SkillBoomerang  SkillKind = "boomerang"
)

func ParseSkillKind(s string) (SkillKind, error) {
	switch k := SkillKind(s); k {
	case SkillMeleeArc, SkillProjectile, SkillBoomerang:
		return k, nil
	default:
		return "", fmt.Errorf("unknown skill kind %q", s)
	}
}

// WeaponTemplate is the immutable weapon definition carried by pickups.
// Equipping copies it into a SkillInstance; the template is never mutated.
type WeaponTemplate struct {
	Name        string
	Icon        string
	Description string
	Kind        SkillKind

	Cooldown float64
	Damage   float64
	Range    float64

	// Melee box; BoxWidth defaults to Range.
	BoxWidth  float64
	BoxHeight float64

	// Projectile and boomerang flight.
	Speed          float64
	KnockbackForce float64
	HitRadius      float64

	// Boomerang outcome-dependent cooldowns.
	SuccessCooldown float64
	FailCooldown    float64
	ReturnThreshold float64
}
