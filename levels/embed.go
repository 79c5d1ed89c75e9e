package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is where on-disk level overrides are looked up.
const Dir = "levels"

var (
	ErrNoPlayerSpawn    = errors.New("levels: no player spawn")
	ErrManyPlayerSpawns = errors.New("levels: more than one player spawn")
)

const (
	EntityPlayer = "player"
	EntityEnemy  = "enemy"
	EntityPickup = "pickup"
)

// Level is a sandbox arena: static ground boxes plus entity spawns.
// Coordinates are world units with y up.
type Level struct {
	Name     string   `json:"name"`
	Gravity  float64  `json:"gravity,omitempty"`
	Ground   []Rect   `json:"ground"`
	Entities []Entity `json:"entities,omitempty"`
}

// Rect is an axis-aligned box anchored at its bottom-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// PropString returns a string property or def.
func (e Entity) PropString(key, def string) string {
	if s, ok := e.Props[key].(string); ok && s != "" {
		return s
	}
	return def
}

// PropFloat returns a numeric property or def.
func (e Entity) PropFloat(key string, def float64) float64 {
	if f, ok := e.Props[key].(float64); ok {
		return f
	}
	return def
}

// PlayerSpawn returns the single player entity.
func (l *Level) PlayerSpawn() (Entity, error) {
	var (
		spawn Entity
		n     int
	)
	for _, e := range l.Entities {
		if e.Type == EntityPlayer {
			spawn = e
			n++
		}
	}
	switch n {
	case 0:
		return Entity{}, ErrNoPlayerSpawn
	case 1:
		return spawn, nil
	default:
		return Entity{}, fmt.Errorf("%w: %d", ErrManyPlayerSpawns, n)
	}
}

// Validate checks entity types and ground sizes.
func (l *Level) Validate() error {
	for i, r := range l.Ground {
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("levels: %s: ground[%d] has non-positive size %vx%v", l.Name, i, r.W, r.H)
		}
	}
	for i, e := range l.Entities {
		switch e.Type {
		case EntityPlayer, EntityEnemy, EntityPickup:
		default:
			return fmt.Errorf("levels: %s: entities[%d] has unknown type %q", l.Name, i, e.Type)
		}
		if e.Type == EntityPickup && e.PropString("weapon", "") == "" {
			return fmt.Errorf("levels: %s: entities[%d] pickup without weapon", l.Name, i)
		}
	}
	_, err := l.PlayerSpawn()
	return err
}

// Load reads a level, preferring an edited copy on disk.
func Load(name string) (*Level, error) {
	data, err := os.ReadFile(filepath.Join(Dir, name))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}
