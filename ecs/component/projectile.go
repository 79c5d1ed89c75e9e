package component

import "github.com/jakecoffman/cp"

type ProjectileKind int

const (
	ProjectileLinear ProjectileKind = iota
	ProjectileBoomerang
)

type ProjectileMode int

const (
	ProjectileOutbound ProjectileMode = iota
	ProjectileReturning
	ProjectileTerminated
)

type ProjectileOutcome int

const (
	OutcomeNone ProjectileOutcome = iota
	OutcomeSuccess
	OutcomeFail
)

func (o ProjectileOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFail:
		return "fail"
	default:
		return "none"
	}
}

// BoomerangFailFactor scales max distance into the overshoot limit.
const BoomerangFailFactor = 1.5

// Projectile is a detached hit volume. Owner is only used to report the
// outcome and, for boomerangs, to aim the return leg.
type Projectile struct {
	Kind ProjectileKind
	Mode ProjectileMode

	Position  cp.Vector
	Start     cp.Vector
	Dir       cp.Vector
	ReturnDir cp.Vector

	Speed           float64
	MaxDistance     float64
	Damage          float64
	KnockbackForce  float64
	HitRadius       float64
	ReturnThreshold float64

	// Mask selects which layers the projectile can hit.
	Mask  Layer
	Owner uint64
	Hits  map[uint64]struct{}

	Outcome    ProjectileOutcome
	OnComplete func(ProjectileOutcome)
}

// Heading is the current travel direction.
func (p *Projectile) Heading() cp.Vector {
	if p.Mode == ProjectileReturning {
		return p.ReturnDir
	}
	return p.Dir
}

func (p *Projectile) HasHit(id uint64) bool {
	_, ok := p.Hits[id]
	return ok
}

func (p *Projectile) MarkHit(id uint64) {
	if p.Hits == nil {
		p.Hits = make(map[uint64]struct{})
	}
	p.Hits[id] = struct{}{}
}

// BeginReturn switches an outbound boomerang to its return leg. The heading
// is fixed toward target at this instant and the hit-set is cleared.
func (p *Projectile) BeginReturn(target cp.Vector) bool {
	if p.Kind != ProjectileBoomerang || p.Mode != ProjectileOutbound {
		return false
	}
	d := target.Sub(p.Position)
	if l := d.Length(); l > 0 {
		p.ReturnDir = d.Mult(1 / l)
	} else {
		p.ReturnDir = p.Dir.Neg()
	}
	p.Mode = ProjectileReturning
	p.Hits = nil
	return true
}

// Finish moves the projectile to its terminal mode and fires OnComplete.
// Later calls are no-ops.
func (p *Projectile) Finish(outcome ProjectileOutcome) bool {
	if p.Mode == ProjectileTerminated {
		return false
	}
	p.Mode = ProjectileTerminated
	p.Outcome = outcome
	if cb := p.OnComplete; cb != nil {
		p.OnComplete = nil
		cb(outcome)
	}
	return true
}

var ProjectileComponent = NewComponent[Projectile]()
