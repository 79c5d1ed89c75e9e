package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

type enemyDecision int

const (
	decideIdle enemyDecision = iota
	decideChase
	decideAttack
)

func parseEnemyDecision(s string) (enemyDecision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return decideIdle, nil
	case "chase":
		return decideChase, nil
	case "attack":
		return decideAttack, nil
	default:
		return decideIdle, fmt.Errorf("unknown enemy decision %q", s)
	}
}

// enemySense is what a decision script sees about one enemy this tick.
type enemySense struct {
	Dist           float64
	DX             float64
	DY             float64
	DetectionRange float64
	AttackRange    float64
	CooldownReady  bool
	HealthFraction float64
}

// Scripts define decide(enemy) returning "idle", "chase" or "attack".
const enemyDecisionDispatch = `
decision := decide(__enemy)
`

type enemyScript struct {
	path     string
	compiled *tengo.Compiled
	// broken is set after the first failure so it is only logged once.
	broken bool
}

func compileEnemyScript(path string, src []byte) (*enemyScript, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + enemyDecisionDispatch))
	_ = script.Add("__enemy", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &enemyScript{path: path, compiled: compiled}, nil
}

func (s *enemyScript) decide(in enemySense) (enemyDecision, error) {
	if s == nil || s.compiled == nil {
		return decideIdle, fmt.Errorf("nil enemy script")
	}
	ready := tengo.FalseValue
	if in.CooldownReady {
		ready = tengo.TrueValue
	}
	sense := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"dist":            &tengo.Float{Value: in.Dist},
		"dx":              &tengo.Float{Value: in.DX},
		"dy":              &tengo.Float{Value: in.DY},
		"detection_range": &tengo.Float{Value: in.DetectionRange},
		"attack_range":    &tengo.Float{Value: in.AttackRange},
		"cooldown_ready":  ready,
		"health":          &tengo.Float{Value: in.HealthFraction},
	}}
	if err := s.compiled.Set("__enemy", sense); err != nil {
		return decideIdle, err
	}
	if err := s.compiled.Run(); err != nil {
		return decideIdle, err
	}
	if !s.compiled.IsDefined("decision") {
		return decideIdle, fmt.Errorf("script %s did not produce a decision", s.path)
	}
	return parseEnemyDecision(s.compiled.Get("decision").String())
}

// builtinEnemyDecision ranks by distance: out of detection range idles,
// inside attack range attacks, anything between chases.
func builtinEnemyDecision(in enemySense) enemyDecision {
	switch {
	case in.Dist > in.DetectionRange:
		return decideIdle
	case in.Dist > in.AttackRange:
		return decideChase
	default:
		return decideAttack
	}
}
