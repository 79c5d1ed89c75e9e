package ecs

// EventType names a simulation event.
type EventType string

const (
	EventDamage         EventType = "damage"
	EventDeath          EventType = "death"
	EventAttack         EventType = "attack"
	EventSkillUsed      EventType = "skill_used"
	EventProjectileDone EventType = "projectile_done"
	EventEquip          EventType = "equip"
	EventRejected       EventType = "rejected"
)

// Event is a tick-local notification for presentation layers.
type Event struct {
	Type   EventType
	Entity Entity
	Source Entity
	Value  float64
	Data   any
}

// EventQueue is a FIFO drained once per tick by the driver.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all queued events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
