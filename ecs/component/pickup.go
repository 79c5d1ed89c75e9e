package component

import "github.com/jakecoffman/cp"

// Pickup is a weapon lying in the world, collected with the interact input.
type Pickup struct {
	Weapon   WeaponTemplate
	Position cp.Vector
	Radius   float64
}

var PickupComponent = NewComponent[Pickup]()
