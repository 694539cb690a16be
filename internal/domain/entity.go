package domain

import (
	"fmt"
	"strings"
)

// EntityType - вариант сущности на сетке
type EntityType uint8

const (
	EntityTypeUnknown EntityType = iota
	EntityTypePlayer
	EntityTypeEnemy
	EntityTypeBoss
	EntityTypeNPC
)

var entityTypeStrings = map[EntityType]string{
	EntityTypePlayer: "PLAYER",
	EntityTypeEnemy:  "ENEMY",
	EntityTypeBoss:   "BOSS",
	EntityTypeNPC:    "NPC",
}

// ParseEntityType конвертирует строку из файла уровня в EntityType
func ParseEntityType(s string) (EntityType, error) {
	upper := strings.ToUpper(s)
	for t, name := range entityTypeStrings {
		if name == upper {
			return t, nil
		}
	}
	return EntityTypeUnknown, fmt.Errorf("unknown entity type %q", s)
}

func (t EntityType) String() string {
	if s, ok := entityTypeStrings[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalText - в JSON тип пишется строкой
func (t EntityType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Capability - флаги возможностей вместо иерархии классов
type Capability uint8

const (
	CapDamageable Capability = 1 << iota
	CapControllable
)

// DefaultCapabilities - набор флагов по умолчанию для варианта
func DefaultCapabilities(t EntityType) Capability {
	switch t {
	case EntityTypePlayer:
		return CapDamageable | CapControllable
	case EntityTypeEnemy, EntityTypeBoss:
		return CapDamageable
	}
	return 0
}

// Footprint - размер прямоугольного следа сущности в клетках
type Footprint struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Destroyer - внешний объект, который умеет себя уничтожить (визуал, пул и т.п.)
type Destroyer interface {
	Destroy()
}

// Entity - сущность на сетке. Занятые клетки меняются только через SpatialIndex.
type Entity struct {
	ID   EntityID   `json:"id"`
	Key  string     `json:"key"` // внешний токен (имя из файла уровня, сессия клиента)
	Type EntityType `json:"type"`
	Name string     `json:"name"`
	Caps Capability `json:"caps"`

	Root     Position   `json:"root"`
	Size     Footprint  `json:"size"`
	Occupied []Position `json:"occupied"`
	Facing   Direction  `json:"facing"`

	// Компоненты (Если nil - значит свойство отсутствует)
	Health *HealthComponent `json:"health,omitempty"`
	Motion *MotionComponent `json:"motion,omitempty"`
	Skills *SkillSet        `json:"skills,omitempty"`

	// Owner - непрозрачная ссылка на внешний объект. Используется только
	// для колбэков урона/уничтожения, в индекс через неё не ходим.
	Owner any `json:"-"`

	active bool
}

// NewEntity создает сущность с прямоугольным следом w×h от root.
func NewEntity(id EntityID, t EntityType, root Position, size Footprint) *Entity {
	if size.W < 1 {
		size.W = 1
	}
	if size.H < 1 {
		size.H = 1
	}
	return &Entity{
		ID:       id,
		Type:     t,
		Caps:     DefaultCapabilities(t),
		Root:     root,
		Size:     size,
		Occupied: RectFootprint(root, size.W, size.H),
		Facing:   DirUp,
		Motion:   &MotionComponent{},
	}
}

// NewSingleCellEntity - сущность на одну клетку
func NewSingleCellEntity(id EntityID, t EntityType, at Position) *Entity {
	return NewEntity(id, t, at, Footprint{W: 1, H: 1})
}

// Has проверяет флаг возможности
func (e *Entity) Has(c Capability) bool {
	return e.Caps&c != 0
}

// IsActive - сущность сейчас зарегистрирована в индексе
func (e *Entity) IsActive() bool {
	return e.active
}

// IsDead - у сущности есть здоровье и оно закончилось
func (e *Entity) IsDead() bool {
	return e.Health != nil && e.Health.IsDead
}

// IsMoving - идет интерполяция движения
func (e *Entity) IsMoving() bool {
	return e.Motion != nil && e.Motion.Phase == MotionMoving
}

// FootprintAt возвращает клетки, которые сущность заняла бы с корнем в root
func (e *Entity) FootprintAt(root Position) []Position {
	return RectFootprint(root, e.Size.W, e.Size.H)
}

// OccupiesCell - входит ли клетка в текущий след
func (e *Entity) OccupiesCell(p Position) bool {
	for _, c := range e.Occupied {
		if c == p {
			return true
		}
	}
	return false
}

func (e *Entity) String() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s", e.Name, e.ID)
	}
	return e.ID.String()
}
