package component

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectileBeginReturn(t *testing.T) {
	p := &Projectile{Kind: ProjectileBoomerang, Position: cp.Vector{X: 5}, Dir: cp.Vector{X: 1}}
	p.MarkHit(7)

	require.True(t, p.BeginReturn(cp.Vector{X: 5, Y: -4}))
	assert.Equal(t, ProjectileReturning, p.Mode)
	assert.Equal(t, cp.Vector{X: 0, Y: -1}, p.ReturnDir)
	assert.False(t, p.HasHit(7), "hit-set cleared on return")
	assert.Equal(t, p.ReturnDir, p.Heading())

	assert.False(t, p.BeginReturn(cp.Vector{}), "already returning")

	linear := &Projectile{Kind: ProjectileLinear}
	assert.False(t, linear.BeginReturn(cp.Vector{X: 1}))
}

func TestProjectileFinishOnce(t *testing.T) {
	var got []ProjectileOutcome
	p := &Projectile{OnComplete: func(o ProjectileOutcome) { got = append(got, o) }}

	assert.True(t, p.Finish(OutcomeSuccess))
	assert.False(t, p.Finish(OutcomeFail))
	assert.Equal(t, []ProjectileOutcome{OutcomeSuccess}, got)
	assert.Equal(t, OutcomeSuccess, p.Outcome)
}
