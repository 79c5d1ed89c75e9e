package component

// Timer is a countdown in seconds that clamps at zero.
//
// A timer started during a tick does not elapse until the following tick:
// Tick is a no-op until Settle runs at the end of the tick that started it.
// Systems call Settle on every timer they own once their update finishes.
type Timer struct {
	Remaining float64
	Duration  float64

	started bool
}

// Start arms the timer for d seconds. A non-positive d leaves it elapsed.
func (t *Timer) Start(d float64) {
	t.Duration = d
	if d <= 0 {
		t.Remaining = 0
		t.started = false
		return
	}
	t.Remaining = d
	t.started = true
}

// Stop zeroes the countdown without changing its duration.
func (t *Timer) Stop() {
	t.Remaining = 0
	t.started = false
}

func (t *Timer) Tick(dt float64) {
	if t.started || t.Remaining <= 0 || dt <= 0 {
		return
	}
	t.Remaining -= dt
	if t.Remaining < 0 {
		t.Remaining = 0
	}
}

func (t *Timer) Settle() {
	t.started = false
}

func (t *Timer) Active() bool {
	return t.Remaining > 0
}

// Progress is the elapsed fraction in [0,1]. A timer without a duration reports 1.
func (t *Timer) Progress() float64 {
	if t.Duration <= 0 || t.Remaining <= 0 {
		return 1
	}
	p := 1 - t.Remaining/t.Duration
	if p < 0 {
		return 0
	}
	return p
}
