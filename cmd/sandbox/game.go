package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/milk9111/actioncore/game"
	"github.com/milk9111/actioncore/levels"
	"github.com/milk9111/actioncore/prefabs"
)

const (
	baseWidth     = 1280
	baseHeight    = 720
	tps           = 60
	pixelsPerUnit = 32
	stickDeadzone = 0.2
)

var (
	backgroundColor = color.NRGBA{R: 0x1b, G: 0x1d, B: 0x24, A: 0xff}
	groundColor     = color.NRGBA{R: 0x55, G: 0x5a, B: 0x66, A: 0xff}
	playerColor     = color.NRGBA{R: 0x4f, G: 0xa3, B: 0xff, A: 0xff}
	enemyColor      = color.NRGBA{R: 0xe0, G: 0x50, B: 0x50, A: 0xff}
	pickupColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	hurtColor       = color.NRGBA{R: 0xff, G: 0x30, B: 0x30, A: 0x60}
	debugColor      = color.NRGBA{R: 0x7c, G: 0xff, B: 0x7c, A: 0xc0}
)

type Options struct {
	Level  string
	Debug  bool
	Weapon string
}

type Game struct {
	opts    Options
	sim     *game.Simulation
	camera  *game.Camera
	watcher *prefabs.Watcher

	paused  bool
	pauseUI *ebitenui.UI

	colors    map[string]color.Color
	hurtTicks int
	status    string
}

func NewGame(opts Options) (*Game, error) {
	g := &Game{
		opts:   opts,
		camera: game.NewCamera(baseWidth, baseHeight, pixelsPerUnit),
	}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// restart rebuilds the simulation from the level file and current prefabs.
func (g *Game) restart() error {
	name := g.opts.Level
	if path.Ext(name) == "" {
		name += ".json"
	}
	lvl, err := levels.Load(name)
	if err != nil {
		return fmt.Errorf("load level %s: %w", name, err)
	}
	sim, err := game.NewSimulation(game.Options{Gravity: lvl.Gravity})
	if err != nil {
		return err
	}
	if err := sim.LoadLevel(lvl); err != nil {
		return fmt.Errorf("level %s: %w", lvl.Name, err)
	}
	if g.opts.Weapon != "" {
		if err := sim.EquipWeapon(g.opts.Weapon); err != nil {
			log.Printf("weapon override: %v", err)
		}
	}

	g.sim = sim
	g.status = ""
	g.hurtTicks = 0
	g.hookPlayer()
	g.loadColors()
	if snap, ok := sim.PlayerSnapshot(); ok {
		g.camera.Center = snap.Position
	}
	g.pauseUI = NewPauseUI(g)
	return nil
}

// hookPlayer drives the hurt flash and death banner from the player's health
// and, in debug mode, logs motion state changes.
func (g *Game) hookPlayer() {
	e, ok := g.sim.Player()
	if !ok {
		return
	}
	if h, ok := ecs.Get(g.sim.World, e, component.HealthComponent.Kind()); ok {
		h.OnDamage = func(*component.Health, float64) { g.hurtTicks = 8 }
		h.OnDeath = func(*component.Health) { g.status = "You died. Press R to restart." }
	}
	if sm, ok := ecs.Get(g.sim.World, e, component.MotionStateComponent.Kind()); ok && g.opts.Debug {
		sm.OnChange = func(from, to component.MotionState) {
			log.Printf("player: %s -> %s", from, to)
		}
	}
}

func (g *Game) loadColors() {
	g.colors = map[string]color.Color{}
	if spec, err := prefabs.LoadPlayerSpec(); err == nil {
		g.colors["player"] = spec.Color.Or(playerColor)
	}
	for _, e := range g.sim.EnemySnapshots() {
		if _, ok := g.colors[e.Name]; ok {
			continue
		}
		if spec, err := prefabs.LoadEnemySpec(e.Name); err == nil {
			g.colors[e.Name] = spec.Color.Or(enemyColor)
		}
	}
	for name, spec := range g.sim.Armory.Specs {
		g.colors["weapon:"+name] = spec.Color.Or(pickupColor)
	}
}

func (g *Game) color(key string, fallback color.Color) color.Color {
	if c, ok := g.colors[key]; ok {
		return c
	}
	return fallback
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.restart(); err != nil {
			log.Printf("restart: %v", err)
		}
	}

	g.applyChanges()

	g.sim.SetInput(g.readInput())
	g.sim.Tick(1.0 / tps)
	g.handleEvents()

	if g.hurtTicks > 0 {
		g.hurtTicks--
	}
	if snap, ok := g.sim.PlayerSnapshot(); ok {
		g.camera.Follow(snap.Position)
	}
	return nil
}

func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	for _, c := range g.watcher.Drain() {
		if err := g.sim.ApplyChange(c); err != nil {
			log.Printf("hot reload %s: %v", c.Name(), err)
			continue
		}
		g.loadColors()
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("watch: %v", err)
		}
	default:
	}
}

func (g *Game) handleEvents() {
	for _, evt := range g.sim.DrainEvents() {
		switch evt.Type {
		case ecs.EventProjectileDone:
			if g.opts.Debug {
				log.Printf("projectile %s: %v", evt.Entity, evt.Data)
			}
		case ecs.EventRejected:
			log.Printf("rejected entity=%s: %v", evt.Entity, evt.Data)
		}
	}
}

func (g *Game) readInput() component.Input {
	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move.Y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move.Y -= 1
	}
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.JumpReleased = inpututil.IsKeyJustReleased(ebiten.KeySpace)
	in.DashPressed = inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft)
	in.AttackPressed = inpututil.IsKeyJustPressed(ebiten.KeyJ) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.SkillPressed = inpututil.IsKeyJustPressed(ebiten.KeyK) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	in.InteractPressed = inpututil.IsKeyJustPressed(ebiten.KeyE)

	if snap, ok := g.sim.PlayerSnapshot(); ok {
		sx, sy := ebiten.CursorPosition()
		in.Aim = g.camera.Aim(snap.Position, float64(sx), float64(sy))
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadzone {
			in.Move.X = lx
		}
		if math.Abs(ly) > stickDeadzone {
			in.Move.Y = -ly
		}
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpReleased = in.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		in.DashPressed = in.DashPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.AttackPressed = in.AttackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.SkillPressed = in.SkillPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		in.InteractPressed = in.InteractPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			// Stick y points down.
			in.Aim = cp.Vector{X: rx, Y: -ry}.Normalize()
		}
	}
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for _, r := range g.sim.Ground() {
		g.fillRect(screen, cp.Vector{X: r.X + r.W/2, Y: r.Y + r.H/2}, cp.Vector{X: r.W, Y: r.H}, groundColor)
	}

	for _, p := range g.sim.PickupSnapshots() {
		x, y := g.camera.WorldToScreen(p.Position)
		vector.DrawFilledCircle(screen, float32(x), float32(y), 5, g.color("weapon:"+p.Weapon, pickupColor), true)
		if g.opts.Debug {
			vector.StrokeCircle(screen, float32(x), float32(y), float32(p.Radius*pixelsPerUnit), 1, debugColor, true)
			ebitenutil.DebugPrintAt(screen, p.Weapon, int(x)-12, int(y)-22)
		}
	}

	for _, e := range g.sim.EnemySnapshots() {
		g.fillRect(screen, e.Position, e.Size, g.color(e.Name, enemyColor))
		top := e.Position.Add(cp.Vector{Y: e.Size.Y/2 + 0.25})
		g.healthBar(screen, top, e.Size.X, e.Health)
		if g.opts.Debug {
			x, y := g.camera.WorldToScreen(top)
			ebitenutil.DebugPrintAt(screen, e.State.String(), int(x)-16, int(y)-24)
		}
	}

	for _, p := range g.sim.ProjectileSnapshots() {
		x, y := g.camera.WorldToScreen(p.Position)
		r := math.Max(p.Radius*pixelsPerUnit, 3)
		clr := pickupColor
		if p.Returning {
			clr = debugColor
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), clr, true)
	}

	if snap, ok := g.sim.PlayerSnapshot(); ok {
		g.drawPlayer(screen, snap)
	}

	if g.hurtTicks > 0 {
		vector.DrawFilledRect(screen, 0, 0, baseWidth, baseHeight, hurtColor, false)
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, baseWidth/2-90, baseHeight/2)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, snap game.PlayerSnapshot) {
	g.fillRect(screen, snap.Position, snap.Size, g.color("player", playerColor))

	// facing marker
	eye := snap.Position.Add(cp.Vector{X: snap.Facing * snap.Size.X / 4, Y: snap.Size.Y / 4})
	ex, ey := g.camera.WorldToScreen(eye)
	vector.DrawFilledCircle(screen, float32(ex), float32(ey), 3, color.White, true)

	weapon := snap.Weapon
	if weapon == "" {
		weapon = "none"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"HP %.0f/%.0f  weapon %s  state %s  FPS %.0f\nmove A/D  jump space  dash shift  attack J  skill K  pick up E  pause esc",
		snap.Health.Current, snap.Health.Max, weapon, snap.State, ebiten.ActualFPS(),
	))
	vector.DrawFilledRect(screen, 8, 40, 120, 6, groundColor, false)
	vector.DrawFilledRect(screen, 8, 40, float32(120*snap.CooldownProgress), 6, g.color("weapon:"+snap.Weapon, pickupColor), false)

	if !g.opts.Debug {
		return
	}
	px, py := g.camera.WorldToScreen(snap.Position)
	sx, sy := ebiten.CursorPosition()
	vector.StrokeLine(screen, float32(px), float32(py), float32(sx), float32(sy), 1, debugColor, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("v=(%.2f, %.2f) wall=%v", snap.Velocity.X, snap.Velocity.Y, snap.OnWall), 8, 52)
}

// fillRect draws a world-space box centred on c.
func (g *Game) fillRect(screen *ebiten.Image, c, size cp.Vector, clr color.Color) {
	x, y := g.camera.WorldToScreen(c.Add(cp.Vector{X: -size.X / 2, Y: size.Y / 2}))
	z := g.camera.Zoom
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(size.X*z), float32(size.Y*z), clr, false)
}

func (g *Game) healthBar(screen *ebiten.Image, c cp.Vector, width float64, h component.HealthSnapshot) {
	x, y := g.camera.WorldToScreen(c.Add(cp.Vector{X: -width / 2}))
	w := width * g.camera.Zoom
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 3, groundColor, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w*h.Fraction()), 3, enemyColor, false)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
