package game

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/actioncore/ecs"
	"github.com/milk9111/actioncore/ecs/component"
	"github.com/milk9111/actioncore/ecs/system"
	"github.com/milk9111/actioncore/levels"
	"github.com/milk9111/actioncore/prefabs"
)

var ErrDuplicatePlayer = errors.New("game: duplicate player")

type Options struct {
	// Gravity defaults to system.DefaultGravity.
	Gravity float64
	Logger  *log.Logger
	// Armory defaults to the one decoded from weapons.yaml.
	Armory *prefabs.Armory
}

// Simulation owns the world and runs every system in a fixed order once per
// Tick. It is not safe for concurrent use; drivers call it from one loop.
type Simulation struct {
	World   *ecs.World
	Physics *system.PhysicsSystem
	Combat  *system.CombatResolver
	Armory  *prefabs.Armory
	Logger  *log.Logger

	players     *system.PlayerControllerSystem
	skills      *system.SkillSystem
	projectiles *system.ProjectileSystem
	enemies     *system.EnemySystem
	pickups     *system.PickupSystem
	scheduler   *ecs.Scheduler

	player ecs.Entity
	ground []levels.Rect
	ticks  int
}

func NewSimulation(opts Options) (*Simulation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	gravity := opts.Gravity
	if gravity <= 0 {
		gravity = system.DefaultGravity
	}
	armory := opts.Armory
	if armory == nil {
		a, err := prefabs.LoadArmory(logger)
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
		armory = a
	}

	w := ecs.NewWorld()
	physics := system.NewPhysicsSystem(w, gravity)
	combat := system.NewCombatResolver(physics, logger)
	skills := system.NewSkillSystem(physics, combat, logger)

	s := &Simulation{
		World:       w,
		Physics:     physics,
		Combat:      combat,
		Armory:      armory,
		Logger:      logger,
		players:     system.NewPlayerControllerSystem(physics, combat, logger),
		skills:      skills,
		projectiles: system.NewProjectileSystem(physics, combat, logger),
		enemies:     system.NewEnemySystem(physics, combat, logger),
		pickups:     system.NewPickupSystem(physics, skills, logger),
	}
	s.scheduler = ecs.NewScheduler(
		s.players,
		s.skills,
		s.projectiles,
		s.enemies,
		s.pickups,
		s.Physics,
		system.NewTimerSettleSystem(),
	)
	return s, nil
}

// Tick advances the simulation by dt seconds and consumes the input edges
// set since the previous tick.
func (s *Simulation) Tick(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	s.scheduler.Update(s.World, dt)
	if in, ok := ecs.Get(s.World, s.player, component.InputComponent.Kind()); ok {
		in.ClearEdges()
	}
	s.ticks++
}

func (s *Simulation) Ticks() int {
	return s.ticks
}

// SetInput replaces the player's input sample for the next tick.
func (s *Simulation) SetInput(in component.Input) {
	if cur, ok := ecs.Get(s.World, s.player, component.InputComponent.Kind()); ok {
		*cur = in
	}
}

// Player returns the player entity, or false when none is alive.
func (s *Simulation) Player() (ecs.Entity, bool) {
	if !ecs.IsAlive(s.World, s.player) {
		return 0, false
	}
	return s.player, true
}

// DrainEvents returns and clears everything the systems reported.
func (s *Simulation) DrainEvents() []ecs.Event {
	return s.World.Events().Drain()
}

func (s *Simulation) SpawnPlayer(pos cp.Vector, cfg component.PlayerConfig) (ecs.Entity, error) {
	if _, ok := s.Player(); ok {
		s.Logger.Printf("game: rejecting second player at %v (player=%s)", pos, s.player)
		s.World.Events().Push(ecs.Event{Type: ecs.EventRejected, Source: s.player})
		return 0, ErrDuplicatePlayer
	}

	e := ecs.CreateEntity(s.World)
	if _, err := s.Physics.AddBody(e, system.BodySpec{
		Position: pos,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Layer:    component.LayerPlayer,
	}); err != nil {
		ecs.DestroyEntity(s.World, e)
		return 0, fmt.Errorf("game: spawn player: %w", err)
	}

	err := errors.Join(
		ecs.Add(s.World, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(s.World, e, component.PlayerComponent.Kind(), component.NewPlayer(cfg)),
		ecs.Add(s.World, e, component.InputComponent.Kind(), &component.Input{}),
		ecs.Add(s.World, e, component.HealthComponent.Kind(), component.NewHealth(cfg.MaxHealth)),
		ecs.Add(s.World, e, component.KnockbackComponent.Kind(), component.NewKnockback(cfg.KnockbackResistance, cfg.KnockbackDuration)),
		ecs.Add(s.World, e, component.MotionStateComponent.Kind(), &component.MotionStateMachine{}),
		ecs.Add(s.World, e, component.SkillSlotComponent.Kind(), &component.SkillSlot{}),
	)
	if err != nil {
		s.Physics.RemoveBody(e)
		ecs.DestroyEntity(s.World, e)
		return 0, fmt.Errorf("game: spawn player: %w", err)
	}

	s.player = e
	s.enemies.SetPlayer(e)
	return e, nil
}

func (s *Simulation) SpawnEnemy(cfg component.EnemyConfig, pos cp.Vector) (ecs.Entity, error) {
	e := ecs.CreateEntity(s.World)
	if _, err := s.Physics.AddBody(e, system.BodySpec{
		Position: pos,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Layer:    component.LayerEnemy,
	}); err != nil {
		ecs.DestroyEntity(s.World, e)
		return 0, fmt.Errorf("game: spawn %s: %w", cfg.Name, err)
	}

	errs := []error{
		ecs.Add(s.World, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{}),
		ecs.Add(s.World, e, component.EnemyComponent.Kind(), component.NewEnemy(cfg)),
		ecs.Add(s.World, e, component.HealthComponent.Kind(), component.NewHealth(cfg.MaxHealth)),
	}
	if cfg.KnockbackAware {
		errs = append(errs, ecs.Add(s.World, e, component.KnockbackComponent.Kind(), component.NewKnockback(cfg.KnockbackResistance, cfg.KnockbackDuration)))
	}
	if err := errors.Join(errs...); err != nil {
		s.Physics.RemoveBody(e)
		ecs.DestroyEntity(s.World, e)
		return 0, fmt.Errorf("game: spawn %s: %w", cfg.Name, err)
	}
	return e, nil
}

// AddGround adds a static box. Raycasts that hit it report the returned entity.
func (s *Simulation) AddGround(r levels.Rect) ecs.Entity {
	e := ecs.CreateEntity(s.World)
	_ = ecs.Add(s.World, e, component.GroundTagComponent.Kind(), &component.GroundTag{})
	shape := s.Physics.AddStatic(cp.BB{L: r.X, B: r.Y, R: r.X + r.W, T: r.Y + r.H}, component.LayerGround)
	shape.UserData = e
	s.ground = append(s.ground, r)
	return e
}

func (s *Simulation) Ground() []levels.Rect {
	return s.ground
}

func (s *Simulation) AddPickup(tmpl component.WeaponTemplate, pos cp.Vector, radius float64) (ecs.Entity, error) {
	return system.SpawnPickup(s.World, tmpl, pos, radius)
}

// EquipWeapon gives the player the named weapon from the armory.
func (s *Simulation) EquipWeapon(name string) error {
	player, ok := s.Player()
	if !ok {
		return fmt.Errorf("game: equip %q: no player", name)
	}
	tmpl, err := s.Armory.Get(name)
	if err != nil {
		return err
	}
	_, err = s.skills.Equip(s.World, player, &tmpl)
	return err
}

// LoadLevel builds lvl into the simulation. Enemies and pickups that cannot
// be resolved are logged and skipped.
func (s *Simulation) LoadLevel(lvl *levels.Level) error {
	if lvl == nil {
		return errors.New("game: nil level")
	}
	if err := lvl.Validate(); err != nil {
		return err
	}
	if lvl.Gravity > 0 {
		s.Physics.Space().SetGravity(cp.Vector{X: 0, Y: -lvl.Gravity})
	}
	for _, r := range lvl.Ground {
		s.AddGround(r)
	}

	spawn, err := lvl.PlayerSpawn()
	if err != nil {
		return err
	}
	pspec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if _, err := s.SpawnPlayer(cp.Vector{X: spawn.X, Y: spawn.Y}, pspec.Config(s.Logger)); err != nil {
		return err
	}
	if weapon := spawn.PropString("weapon", pspec.StartingWeapon); weapon != "" {
		if err := s.EquipWeapon(weapon); err != nil {
			s.Logger.Printf("game: %s: starting weapon: %v", lvl.Name, err)
		}
	}

	for i, ent := range lvl.Entities {
		pos := cp.Vector{X: ent.X, Y: ent.Y}
		switch ent.Type {
		case levels.EntityEnemy:
			archetype := ent.PropString("archetype", prefabs.NewEnemySpec().Name)
			spec, err := prefabs.LoadEnemySpec(archetype)
			if err != nil {
				s.Logger.Printf("game: %s: entities[%d]: %v", lvl.Name, i, err)
				continue
			}
			if _, err := s.SpawnEnemy(spec.Config(s.Logger), pos); err != nil {
				s.Logger.Printf("game: %s: entities[%d]: %v", lvl.Name, i, err)
			}
		case levels.EntityPickup:
			tmpl, err := s.Armory.Get(ent.PropString("weapon", ""))
			if err != nil {
				s.Logger.Printf("game: %s: entities[%d]: %v", lvl.Name, i, err)
				continue
			}
			if _, err := s.AddPickup(tmpl, pos, ent.PropFloat("radius", 0)); err != nil {
				s.Logger.Printf("game: %s: entities[%d]: %v", lvl.Name, i, err)
			}
		}
	}
	return nil
}

// ApplyChange re-reads an edited prefab and pushes the new tuning into live
// entities. Runtime state such as timers and health is kept.
func (s *Simulation) ApplyChange(c prefabs.Change) error {
	name := c.Name()
	switch {
	case c.Kind == prefabs.ScriptChanged:
		s.enemies.InvalidateScripts()
		s.Logger.Printf("game: reloaded script %s", name)
		return nil
	case name == prefabs.PlayerFile:
		return s.reloadPlayer()
	case name == prefabs.WeaponsFile:
		a, err := prefabs.LoadArmory(s.Logger)
		if err != nil {
			return fmt.Errorf("game: reload: %w", err)
		}
		s.Armory = a
		s.Logger.Printf("game: reloaded %s (%d weapons)", name, len(a.Templates))
		return nil
	default:
		return s.reloadEnemy(strings.TrimSuffix(name, filepath.Ext(name)))
	}
}

func (s *Simulation) reloadPlayer() error {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return fmt.Errorf("game: reload: %w", err)
	}
	player, ok := s.Player()
	if !ok {
		return nil
	}
	cfg := spec.Config(s.Logger)
	if pl, ok := ecs.Get(s.World, player, component.PlayerComponent.Kind()); ok {
		pl.Config = cfg
	}
	s.retune(player, cfg.MaxHealth, cfg.KnockbackResistance, cfg.KnockbackDuration)
	s.Logger.Printf("game: reloaded %s", prefabs.PlayerFile)
	return nil
}

func (s *Simulation) reloadEnemy(archetype string) error {
	spec, err := prefabs.LoadEnemySpec(archetype)
	if err != nil {
		return fmt.Errorf("game: reload: %w", err)
	}
	cfg := spec.Config(s.Logger)
	n := 0
	ecs.ForEach(s.World, component.EnemyComponent.Kind(), func(e ecs.Entity, en *component.Enemy) {
		if en.Config.Name != cfg.Name {
			return
		}
		en.Config = cfg
		s.retune(e, cfg.MaxHealth, cfg.KnockbackResistance, cfg.KnockbackDuration)
		n++
	})
	s.enemies.InvalidateScripts()
	s.Logger.Printf("game: reloaded %s (%d live)", prefabs.EnemyFile(archetype), n)
	return nil
}

// retune updates health and knockback limits in place, leaving the running
// recovery window and current health alone unless it exceeds the new max.
func (s *Simulation) retune(e ecs.Entity, maxHealth, resistance, duration float64) {
	if kb, ok := ecs.Get(s.World, e, component.KnockbackComponent.Kind()); ok {
		kb.Resistance = cp.Clamp(resistance, component.MinKnockbackResistance, component.MaxKnockbackResistance)
		kb.Duration = duration
	}
	h, ok := ecs.Get(s.World, e, component.HealthComponent.Kind())
	if !ok || maxHealth <= 0 {
		return
	}
	h.Max = maxHealth
	if h.Current > maxHealth {
		h.Current = maxHealth
	}
}
