package domain

import (
	"fmt"
	"strings"
	"time"
)

// PassRules - какие препятствия рывок может пересекать
type PassRules struct {
	PassWall     bool `json:"passWall" yaml:"passWall"`
	PassOccupant bool `json:"passOccupant" yaml:"passOccupant"`
	// PassCliff зарезервирован: обрыв сейчас никогда не останавливает рывок
	PassCliff bool `json:"passCliff" yaml:"passCliff"`
}

// MovementSkill - рывок/уклонение
type MovementSkill struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Cooldown        time.Duration `json:"cooldown"`
	DashDistance    int           `json:"dashDistance"`
	SpeedMultiplier float64       `json:"speedMultiplier"`
	Rules           PassRules     `json:"rules"`
}

// Validate проверяет ограничения дескриптора
func (s *MovementSkill) Validate() error {
	if s == nil {
		return ErrMissingSkill
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("%w: %s: cooldown must be >= 0", ErrInvalidSkill, s.ID)
	}
	if s.DashDistance < 1 {
		return fmt.Errorf("%w: %s: dashDistance must be >= 1, got %d", ErrInvalidSkill, s.ID, s.DashDistance)
	}
	if s.SpeedMultiplier < 1 {
		return fmt.Errorf("%w: %s: speedMultiplier must be >= 1, got %v", ErrInvalidSkill, s.ID, s.SpeedMultiplier)
	}
	return nil
}

// AttackSkill - атака по шаблону клеток
type AttackSkill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Cooldown time.Duration `json:"cooldown"`
	Damage   int           `json:"damage"`
	// Pattern задан относительно атакующего, смотрящего вверх (0,1)
	Pattern        []Position    `json:"pattern"`
	EffectID       string        `json:"effectId,omitempty"`
	EffectDuration time.Duration `json:"effectDuration"`
}

// Validate проверяет ограничения дескриптора
func (s *AttackSkill) Validate() error {
	if s == nil {
		return ErrMissingSkill
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("%w: %s: cooldown must be >= 0", ErrInvalidSkill, s.ID)
	}
	if s.Damage < 1 {
		return fmt.Errorf("%w: %s: damage must be >= 1, got %d", ErrInvalidSkill, s.ID, s.Damage)
	}
	if s.EffectDuration < 0 {
		return fmt.Errorf("%w: %s: effectDuration must be >= 0", ErrInvalidSkill, s.ID)
	}
	return nil
}

// SkillSet - набор навыков сущности
type SkillSet struct {
	Dodge  *MovementSkill `json:"dodge,omitempty"`
	Attack *AttackSkill   `json:"attack,omitempty"`
}

// RangePreset - готовые шаблоны атаки
type RangePreset uint8

const (
	RangeSingle RangePreset = iota
	RangeCross
	RangeSquare3x3
	RangeLine
)

var rangePresetNames = map[string]RangePreset{
	"SINGLE":    RangeSingle,
	"CROSS":     RangeCross,
	"SQUARE3X3": RangeSquare3x3,
	"LINE":      RangeLine,
}

// ParseRangePreset конвертирует имя шаблона из файла уровня
func ParseRangePreset(s string) (RangePreset, error) {
	if p, ok := rangePresetNames[strings.ToUpper(s)]; ok {
		return p, nil
	}
	return RangeSingle, fmt.Errorf("unknown range preset %q", s)
}

// Pattern разворачивает шаблон в относительные клетки (лицом вверх).
// length используется только для RangeLine.
func (p RangePreset) Pattern(length int) []Position {
	switch p {
	case RangeCross:
		// Крест перед атакующим
		return []Position{{X: 0, Y: 1}, {X: -1, Y: 2}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 3}}
	case RangeSquare3x3:
		cells := make([]Position, 0, 9)
		for y := 1; y <= 3; y++ {
			for x := -1; x <= 1; x++ {
				cells = append(cells, Position{X: x, Y: y})
			}
		}
		return cells
	case RangeLine:
		if length < 1 {
			length = 3
		}
		cells := make([]Position, 0, length)
		for i := 1; i <= length; i++ {
			cells = append(cells, Position{X: 0, Y: i})
		}
		return cells
	}
	// Single: пустой шаблон = одна клетка прямо перед атакующим
	return nil
}
