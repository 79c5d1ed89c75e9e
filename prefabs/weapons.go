package prefabs

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/actioncore/ecs/component"
)

const WeaponsFile = "weapons.yaml"

var ErrUnknownWeapon = errors.New("prefabs: unknown weapon")

type WeaponSpec struct {
	Name        string  `yaml:"name"`
	Icon        string  `yaml:"icon"`
	Description string  `yaml:"description"`
	Kind        string  `yaml:"kind"`
	Cooldown    float64 `yaml:"cooldown"`
	Damage      float64 `yaml:"damage"`
	Range       float64 `yaml:"range"`

	BoxWidth  float64 `yaml:"box_width"`
	BoxHeight float64 `yaml:"box_height"`

	Speed          float64 `yaml:"speed"`
	KnockbackForce float64 `yaml:"knockback_force"`
	HitRadius      float64 `yaml:"hit_radius"`

	SuccessCooldown float64 `yaml:"success_cooldown"`
	FailCooldown    float64 `yaml:"fail_cooldown"`
	ReturnThreshold float64 `yaml:"return_threshold"`

	Color *YAMLColor `yaml:"color"`
}

type WeaponsSpec struct {
	Weapons []WeaponSpec `yaml:"weapons"`
}

// Template validates the entry and converts it into an immutable weapon.
func (s WeaponSpec) Template(logger *log.Logger) (component.WeaponTemplate, error) {
	kind, err := component.ParseSkillKind(s.Kind)
	if err != nil {
		return component.WeaponTemplate{}, fmt.Errorf("prefabs: weapon %q: %w", s.Name, err)
	}
	f := newFixer(logger, WeaponsFile+"#"+s.Name)

	t := component.WeaponTemplate{
		Name:            s.Name,
		Icon:            s.Icon,
		Description:     s.Description,
		Kind:            kind,
		Cooldown:        s.Cooldown,
		Damage:          s.Damage,
		Range:           s.Range,
		BoxWidth:        s.BoxWidth,
		BoxHeight:       s.BoxHeight,
		Speed:           s.Speed,
		KnockbackForce:  s.KnockbackForce,
		HitRadius:       s.HitRadius,
		SuccessCooldown: s.SuccessCooldown,
		FailCooldown:    s.FailCooldown,
		ReturnThreshold: s.ReturnThreshold,
	}
	f.nonNegative("cooldown", &t.Cooldown)
	f.nonNegative("damage", &t.Damage)
	f.positive("range", &t.Range, 1)
	f.nonNegative("knockback_force", &t.KnockbackForce)

	switch kind {
	case component.SkillMeleeArc:
		f.nonNegative("box_width", &t.BoxWidth)
		f.nonNegative("box_height", &t.BoxHeight)
	case component.SkillProjectile, component.SkillBoomerang:
		f.positive("speed", &t.Speed, 8)
		f.nonNegative("hit_radius", &t.HitRadius)
	}
	if kind == component.SkillBoomerang {
		f.nonNegative("success_cooldown", &t.SuccessCooldown)
		f.nonNegative("fail_cooldown", &t.FailCooldown)
		f.nonNegative("return_threshold", &t.ReturnThreshold)
	}
	return t, nil
}

// Armory is the decoded weapon catalogue in file order.
type Armory struct {
	Templates []component.WeaponTemplate
	Specs     map[string]WeaponSpec
}

func (a *Armory) Get(name string) (component.WeaponTemplate, error) {
	if a != nil {
		for _, t := range a.Templates {
			if t.Name == name {
				return t, nil
			}
		}
	}
	return component.WeaponTemplate{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
}

// LoadArmory reads weapons.yaml. A bad entry is logged and skipped so one
// typo does not take every weapon down with it.
func LoadArmory(logger *log.Logger) (*Armory, error) {
	spec, err := LoadSpec[WeaponsSpec](WeaponsFile)
	if err != nil {
		return nil, err
	}
	return NewArmory(spec, logger), nil
}

func NewArmory(spec WeaponsSpec, logger *log.Logger) *Armory {
	if logger == nil {
		logger = log.Default()
	}
	a := &Armory{Specs: make(map[string]WeaponSpec, len(spec.Weapons))}
	for _, ws := range spec.Weapons {
		if _, dup := a.Specs[ws.Name]; dup {
			logger.Printf("prefabs: %s: duplicate weapon %q ignored", WeaponsFile, ws.Name)
			continue
		}
		t, err := ws.Template(logger)
		if err != nil {
			logger.Printf("prefabs: %s: %v", WeaponsFile, err)
			continue
		}
		a.Specs[ws.Name] = ws
		a.Templates = append(a.Templates, t)
	}
	return a
}
