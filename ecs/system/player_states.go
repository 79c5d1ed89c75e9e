package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs/component"
)

const (
	// Vertical speed at or above which an airborne player counts as rising.
	jumpStateThreshold = 0.1
	moveStateThreshold = 0.01
)

// deriveMotionState picks the single active state from this tick's flags.
// Priority: Dead > Attack > Dash > Wall > Jump/Fall > Move/Idle.
func deriveMotionState(pl *component.Player, vel, move cp.Vector, dead bool) component.MotionState {
	switch {
	case dead || pl.Frozen:
		return component.StateDead
	case pl.Timers.Attack.Active():
		return component.StateAttack
	case pl.Dashing:
		return component.StateDash
	case pl.OnWall:
		if math.Abs(move.Y) > moveStateThreshold {
			return component.StateWallMove
		}
		return component.StateWallIdle
	case !pl.Grounded || vel.Y >= jumpStateThreshold:
		if vel.Y >= jumpStateThreshold {
			return component.StateJump
		}
		return component.StateFall
	case math.Abs(vel.X) > moveStateThreshold:
		return component.StateMove
	default:
		return component.StateIdle
	}
}
