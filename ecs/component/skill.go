package component

// SkillInstance is the live copy of an equipped weapon with its own cooldown.
type SkillInstance struct {
	Template WeaponTemplate
	Cooldown Timer
	// Generation is unique per equip so late notifications from projectiles
	// launched by a replaced instance can be recognised and dropped.
	Generation uint64
	// Projectile is the live projectile entity, or zero.
	Projectile uint64
}

func (s *SkillInstance) Ready() bool {
	return s != nil && !s.Cooldown.Active()
}

func (s *SkillInstance) TickCooldown(dt float64) {
	if s != nil {
		s.Cooldown.Tick(dt)
	}
}

func (s *SkillInstance) CooldownProgress() float64 {
	if s == nil {
		return 1
	}
	return s.Cooldown.Progress()
}

// SkillSlot holds zero or one equipped skill.
type SkillSlot struct {
	Instance *SkillInstance
}

func (s *SkillSlot) Template() *WeaponTemplate {
	if s == nil || s.Instance == nil {
		return nil
	}
	t := s.Instance.Template
	return &t
}

var SkillSlotComponent = NewComponent[SkillSlot]()
