package component

// Health is the damage pool shared by the player and enemies.
type Health struct {
	Max     float64
	Current float64
	Dead    bool

	OnDamage func(h *Health, amount float64)
	OnDeath  func(h *Health)
}

// HealthSnapshot is the read-only view handed to presentation code.
type HealthSnapshot struct {
	Current float64
	Max     float64
	Dead    bool
}

// Fraction is Current/Max in [0,1].
func (s HealthSnapshot) Fraction() float64 {
	if s.Max <= 0 {
		return 0
	}
	return s.Current / s.Max
}

func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead
}

// TakeDamage subtracts amount, clamping at zero. It reports whether damage
// landed and whether this call killed the owner. Dead owners and
// non-positive amounts are ignored.
func (h *Health) TakeDamage(amount float64) (applied, died bool) {
	if h == nil || h.Dead || amount <= 0 {
		return false, false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(h, amount)
	}
	if h.Current <= 0 {
		h.Dead = true
		if h.OnDeath != nil {
			h.OnDeath(h)
		}
		return true, true
	}
	return true, false
}

func (h *Health) Snapshot() HealthSnapshot {
	if h == nil {
		return HealthSnapshot{Dead: true}
	}
	return HealthSnapshot{Current: h.Current, Max: h.Max, Dead: h.Dead}
}

var HealthComponent = NewComponent[Health]()
