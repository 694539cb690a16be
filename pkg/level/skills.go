package level

import (
	"fmt"
	"gridtactics/internal/domain"
	"time"
)

// SkillBook - навыки уровня, собранные в доменные дескрипторы
type SkillBook struct {
	Movement map[string]*domain.MovementSkill
	Attack   map[string]*domain.AttackSkill
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// BuildSkills превращает описания из YAML в проверенные дескрипторы
func (f *File) BuildSkills() (SkillBook, error) {
	book := SkillBook{
		Movement: make(map[string]*domain.MovementSkill),
		Attack:   make(map[string]*domain.AttackSkill),
	}

	for id, spec := range f.Skills {
		name := spec.Name
		if name == "" {
			name = id
		}

		switch normalizeKind(spec.Kind) {
		case "movement", "dash", "dodge":
			mult := spec.SpeedMultiplier
			if mult == 0 {
				mult = 1
			}
			skill := &domain.MovementSkill{
				ID:              id,
				Name:            name,
				Cooldown:        seconds(spec.Cooldown),
				DashDistance:    spec.DashDistance,
				SpeedMultiplier: mult,
				Rules: domain.PassRules{
					PassWall:     spec.PassWall,
					PassOccupant: spec.PassOccupant,
					PassCliff:    spec.PassCliff,
				},
			}
			if err := skill.Validate(); err != nil {
				return book, err
			}
			book.Movement[id] = skill

		case "attack":
			pattern := spec.Pattern
			if len(pattern) == 0 && spec.Range != "" {
				preset, err := domain.ParseRangePreset(spec.Range)
				if err != nil {
					return book, fmt.Errorf("skill %q: %w", id, err)
				}
				pattern = preset.Pattern(spec.Length)
			}
			effectDuration := seconds(spec.EffectDuration)
			if spec.Effect != "" && effectDuration == 0 {
				effectDuration = domain.DefaultEffectDuration
			}
			skill := &domain.AttackSkill{
				ID:             id,
				Name:           name,
				Cooldown:       seconds(spec.Cooldown),
				Damage:         spec.Damage,
				Pattern:        pattern,
				EffectID:       spec.Effect,
				EffectDuration: effectDuration,
			}
			if err := skill.Validate(); err != nil {
				return book, err
			}
			book.Attack[id] = skill

		default:
			return book, fmt.Errorf("%w: skill %q has unknown kind %q", domain.ErrInvalidSkill, id, spec.Kind)
		}
	}
	return book, nil
}
