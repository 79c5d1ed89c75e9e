package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickupAt(t *testing.T, w *ecs.World) map[string]cp.Vector {
	t.Helper()
	out := map[string]cp.Vector{}
	ecs.ForEach(w, component.PickupComponent.Kind(), func(_ ecs.Entity, p *component.Pickup) {
		out[p.Weapon.Name] = p.Position
	})
	return out
}

func TestPickupSwapsWeapons(t *testing.T) {
	r := newSkillRig(t)
	sys := NewPickupSystem(r.f, r.skills, quietLogger)

	_, err := SpawnPickup(r.w, swordTemplate(), cp.Vector{X: 0.5}, 1)
	require.NoError(t, err)
	_, err = SpawnPickup(r.w, knifeTemplate(), cp.Vector{X: 4}, 1)
	require.NoError(t, err)

	interact := func() {
		in, _ := ecs.Get(r.w, r.player, component.InputComponent.Kind())
		in.InteractPressed = true
		sys.Update(r.w, dt)
		in.ClearEdges()
	}

	interact()
	require.NotNil(t, r.instance())
	assert.Equal(t, "sword", r.instance().Template.Name)
	assert.Equal(t, map[string]cp.Vector{"knife": {X: 4}}, pickupAt(t, r.w))

	r.f.actors[r.player].pos = cp.Vector{X: 3.5}
	interact()
	assert.Equal(t, "knife", r.instance().Template.Name)
	assert.Equal(t, map[string]cp.Vector{"sword": {X: 4}}, pickupAt(t, r.w), "old weapon dropped in place")
}

func TestPickupNeedsInteractAndRange(t *testing.T) {
	r := newSkillRig(t)
	sys := NewPickupSystem(r.f, r.skills, quietLogger)
	_, err := SpawnPickup(r.w, swordTemplate(), cp.Vector{X: 2}, 1)
	require.NoError(t, err)

	sys.Update(r.w, dt)
	assert.Nil(t, r.instance(), "no interact")

	in, _ := ecs.Get(r.w, r.player, component.InputComponent.Kind())
	in.InteractPressed = true
	sys.Update(r.w, dt)
	assert.Nil(t, r.instance(), "out of reach")
	assert.Len(t, pickupAt(t, r.w), 1)
}

func TestPickupPrefersNearest(t *testing.T) {
	r := newSkillRig(t)
	sys := NewPickupSystem(r.f, r.skills, quietLogger)
	_, err := SpawnPickup(r.w, knifeTemplate(), cp.Vector{X: 0.8}, 1)
	require.NoError(t, err)
	_, err = SpawnPickup(r.w, swordTemplate(), cp.Vector{X: -0.3}, 1)
	require.NoError(t, err)

	in, _ := ecs.Get(r.w, r.player, component.InputComponent.Kind())
	in.InteractPressed = true
	sys.Update(r.w, dt)
	assert.Equal(t, "sword", r.instance().Template.Name)
}
