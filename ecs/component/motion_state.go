package component

// MotionState is the derived player state, listed from lowest to highest priority.
type MotionState int

const (
	StateIdle MotionState = iota
	StateMove
	StateJump
	StateFall
	StateWallIdle
	StateWallMove
	StateDash
	StateAttack
	StateDead
)

var motionStateNames = [...]string{
	StateIdle:     "idle",
	StateMove:     "move",
	StateJump:     "jump",
	StateFall:     "fall",
	StateWallIdle: "wall_idle",
	StateWallMove: "wall_move",
	StateDash:     "dash",
	StateAttack:   "attack",
	StateDead:     "dead",
}

func (s MotionState) String() string {
	if s < 0 || int(s) >= len(motionStateNames) {
		return "unknown"
	}
	return motionStateNames[s]
}

// MotionStateMachine records the current derived state and notifies on change.
type MotionStateMachine struct {
	Current  MotionState
	OnChange func(from, to MotionState)
}

func (m *MotionStateMachine) Set(s MotionState) {
	if m.Current == s {
		return
	}
	from := m.Current
	m.Current = s
	if m.OnChange != nil {
		m.OnChange(from, s)
	}
}

var MotionStateComponent = NewComponent[MotionStateMachine]()
