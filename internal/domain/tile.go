package domain

import (
	"fmt"
	"strings"
)

// ObstacleKind - тип препятствия на клетке (используется правилами прохода)
type ObstacleKind uint8

const (
	ObstacleNone ObstacleKind = iota
	ObstacleWall
	ObstacleOccupant
	ObstacleCliff
	ObstacleHazard
)

// Маппинг для конвертации YAML/JSON -> Domain
var obstacleStringToKind = map[string]ObstacleKind{
	"NONE":     ObstacleNone,
	"WALL":     ObstacleWall,
	"OCCUPANT": ObstacleOccupant,
	"MONSTER":  ObstacleOccupant, // старое имя из редактора уровней
	"CLIFF":    ObstacleCliff,
	"HAZARD":   ObstacleHazard,
}

var obstacleKindToString = map[ObstacleKind]string{
	ObstacleNone:     "NONE",
	ObstacleWall:     "WALL",
	ObstacleOccupant: "OCCUPANT",
	ObstacleCliff:    "CLIFF",
	ObstacleHazard:   "HAZARD",
}

// ParseObstacleKind конвертирует строку в ObstacleKind (без учета регистра).
// Пустая строка означает ObstacleNone.
func ParseObstacleKind(s string) (ObstacleKind, error) {
	if s == "" {
		return ObstacleNone, nil
	}
	if k, ok := obstacleStringToKind[strings.ToUpper(s)]; ok {
		return k, nil
	}
	return ObstacleNone, fmt.Errorf("unknown obstacle kind %q", s)
}

func (k ObstacleKind) String() string {
	if s, ok := obstacleKindToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// UnmarshalYAML позволяет писать obstacle: wall в файлах уровней
func (k *ObstacleKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseObstacleKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText нужен для JSON DTO и отладочных эндпоинтов
func (k ObstacleKind) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(k.String())), nil
}

// TileAttributes - свойства клетки. Создаются при загрузке уровня,
// дальше только читаются.
type TileAttributes struct {
	Name     string       `json:"name,omitempty" yaml:"name"`
	Walkable bool         `json:"walkable" yaml:"walkable"`
	Obstacle ObstacleKind `json:"obstacle" yaml:"obstacle"`
	// MoveCost - множитель времени прохода (1.0 норма, 2.0 вдвое медленнее)
	MoveCost float64 `json:"moveCost" yaml:"moveCost"`
}

// DefaultTileAttributes - ответ для клеток вне уровня:
// непроходимо, препятствие не записано.
func DefaultTileAttributes() TileAttributes {
	return TileAttributes{Walkable: false, Obstacle: ObstacleNone, MoveCost: 1}
}

// Validate проверяет, что множитель стоимости положительный
func (t TileAttributes) Validate() error {
	if t.MoveCost <= 0 {
		return fmt.Errorf("tile %q: moveCost must be > 0, got %v", t.Name, t.MoveCost)
	}
	return nil
}
