package domain

import (
	"fmt"
	"gridtactics/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Rect - прямоугольная область уровня [Min, Max] включительно
type Rect struct {
	Min Position `json:"min"`
	Max Position `json:"max"`
}

// Contains проверяет попадание клетки в область
func (r Rect) Contains(p Position) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Each обходит все клетки области построчно
func (r Rect) Each(fn func(p Position)) {
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			fn(Position{X: x, Y: y})
		}
	}
}

// TileSource - авторские данные уровня: ограниченная область и
// сырые идентификаторы тайлов внутри неё.
type TileSource interface {
	Bounds() Rect
	RawTileAt(p Position) (string, bool)
}

// TileMap - статическая классификация клеток уровня.
// После BuildTileMap только читается, поэтому конкурентные чтения безопасны без блокировок.
type TileMap struct {
	tiles  map[Position]TileAttributes
	bounds Rect
}

// BuildTileMap сканирует область уровня и раскладывает атрибуты по клеткам.
// Тайлы без записи в legend пропускаются (для них Classify вернет значение по умолчанию).
func BuildTileMap(src TileSource, legend map[string]TileAttributes) (*TileMap, error) {
	if src == nil {
		return nil, ErrMissingTileMap
	}

	for id, attrs := range legend {
		if err := attrs.Validate(); err != nil {
			return nil, fmt.Errorf("legend %q: %w", id, err)
		}
	}

	tm := &TileMap{
		tiles:  make(map[Position]TileAttributes),
		bounds: src.Bounds(),
	}

	skipped := 0
	tm.bounds.Each(func(p Position) {
		raw, ok := src.RawTileAt(p)
		if !ok {
			return
		}
		attrs, known := legend[raw]
		if !known {
			skipped++
			return
		}
		tm.tiles[p] = attrs
	})

	logger.Log.WithFields(logrus.Fields{
		"component": "tile_map",
		"tiles":     len(tm.tiles),
		"skipped":   skipped,
	}).Info("Tile map initialised")

	return tm, nil
}

// Classify возвращает атрибуты клетки. Вне уровня - DefaultTileAttributes, это не ошибка.
func (m *TileMap) Classify(p Position) TileAttributes {
	if m == nil {
		return DefaultTileAttributes()
	}
	if attrs, ok := m.tiles[p]; ok {
		return attrs
	}
	return DefaultTileAttributes()
}

// IsWalkable - клетки вне уровня непроходимы
func (m *TileMap) IsWalkable(p Position) bool {
	return m.Classify(p).Walkable
}

// ObstacleAt возвращает тип препятствия (ObstacleNone вне уровня)
func (m *TileMap) ObstacleAt(p Position) ObstacleKind {
	return m.Classify(p).Obstacle
}

// Len - количество классифицированных клеток
func (m *TileMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.tiles)
}

// Bounds - исходная область уровня
func (m *TileMap) Bounds() Rect {
	if m == nil {
		return Rect{}
	}
	return m.bounds
}
