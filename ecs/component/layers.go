package component

// Layer is a collision/hit-test category bitmask.
type Layer uint32

const (
	LayerGround Layer = 1 << iota
	LayerPlayer
	LayerEnemy
	LayerProjectile
	LayerPickup

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

func (l Layer) Has(other Layer) bool {
	return l&other != 0
}
