package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/common"
)

const (
	MinKnockbackResistance = 0.0
	MaxKnockbackResistance = 10.0
)

// Knockback marks an actor that can be pushed by hits. Actors without it
// ignore knockback requests entirely.
type Knockback struct {
	// Resistance is a percentage in [0,10] that linearly discounts incoming force.
	Resistance float64
	// Duration is the recovery window during which self-driven movement is suspended.
	Duration float64
	Recovery Timer
}

func NewKnockback(resistance, duration float64) *Knockback {
	return &Knockback{
		Resistance: cp.Clamp(resistance, MinKnockbackResistance, MaxKnockbackResistance),
		Duration:   duration,
	}
}

// Scale is the fraction of incoming force that is kept.
func (k *Knockback) Scale() float64 {
	if k == nil {
		return 0
	}
	r := cp.Clamp(k.Resistance, MinKnockbackResistance, MaxKnockbackResistance)
	return 1 - r/100
}

// Impulse is normalize(dir) * force * (1 - resistance/100).
func (k *Knockback) Impulse(dir cp.Vector, force float64) cp.Vector {
	if k == nil || force <= 0 {
		return cp.Vector{}
	}
	n := common.Normalize(dir)
	if common.IsZero(n) {
		return cp.Vector{}
	}
	return n.Mult(force * k.Scale())
}

// Apply computes the impulse and opens the recovery window when it is non-zero.
func (k *Knockback) Apply(dir cp.Vector, force float64) cp.Vector {
	imp := k.Impulse(dir, force)
	if common.IsZero(imp) {
		return imp
	}
	k.Recovery.Start(k.Duration)
	return imp
}

func (k *Knockback) Recovering() bool {
	return k != nil && k.Recovery.Active()
}

var KnockbackComponent = NewComponent[Knockback]()
