package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tick = 1.0 / 64

func TestTimerSkipsStartTick(t *testing.T) {
	var tm Timer
	tm.Start(2 * tick)
	tm.Tick(tick)
	assert.Equal(t, 2*tick, tm.Remaining, "no decrement in the tick that started it")
	tm.Settle()

	tm.Tick(tick)
	tm.Settle()
	assert.True(t, tm.Active())
	tm.Tick(tick)
	assert.False(t, tm.Active())
	assert.Equal(t, 0.0, tm.Remaining)
}

func TestTimerClampsAtZero(t *testing.T) {
	var tm Timer
	tm.Start(0.1)
	tm.Settle()
	tm.Tick(5)
	assert.Equal(t, 0.0, tm.Remaining)
	assert.Equal(t, 1.0, tm.Progress())
}

func TestTimerProgress(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		elapsed  float64
		want     float64
	}{
		{"fresh", 1, 0, 0},
		{"half", 1, 0.5, 0.5},
		{"done", 1, 1, 1},
		{"zero_duration", 0, 0, 1},
		{"negative_duration", -2, 0, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var tm Timer
			tm.Start(c.duration)
			tm.Settle()
			tm.Tick(c.elapsed)
			assert.InDelta(t, c.want, tm.Progress(), 1e-12)
		})
	}
}

func TestTimerStop(t *testing.T) {
	var tm Timer
	tm.Start(1)
	tm.Stop()
	assert.False(t, tm.Active())
	assert.Equal(t, 1.0, tm.Duration)
}

func TestSkillInstanceTickCooldown(t *testing.T) {
	var nilInst *SkillInstance
	nilInst.TickCooldown(tick)
	assert.Equal(t, 1.0, nilInst.CooldownProgress())

	inst := &SkillInstance{}
	inst.Cooldown.Start(0.5)
	inst.Cooldown.Settle()
	assert.False(t, inst.Ready())
	inst.TickCooldown(0.25)
	assert.InDelta(t, 0.5, inst.CooldownProgress(), 1e-9)
	inst.TickCooldown(0.25)
	assert.True(t, inst.Ready())
}
