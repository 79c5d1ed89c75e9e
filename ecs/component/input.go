package component

import "github.com/jakecoffman/cp"

// Input is the per-tick input sample for a controllable actor. Move and Aim
// are levels; every Pressed/Released flag is an edge consumed by the tick
// that reads it.
type Input struct {
	Move cp.Vector
	// Aim is the world-space aim direction supplied by the driver.
	Aim cp.Vector

	JumpPressed     bool
	JumpReleased    bool
	DashPressed     bool
	AttackPressed   bool
	SkillPressed    bool
	InteractPressed bool
}

// ClearEdges drops the one-shot flags once a tick has consumed them.
func (in *Input) ClearEdges() {
	in.JumpPressed = false
	in.JumpReleased = false
	in.DashPressed = false
	in.AttackPressed = false
	in.SkillPressed = false
	in.InteractPressed = false
}

var InputComponent = NewComponent[Input]()
