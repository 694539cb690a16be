package domain

import (
	"fmt"
	"math"
	"strings"
)

// Position - координата клетки сетки. Значимый тип, годится как ключ map.
// Границ нет: индекс разреженный.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Direction - единичный вектор направления. Ось Y смотрит вверх.
type Direction = Position

// Канонические направления (модель движения 4-направленная)
var (
	DirNone  = Direction{X: 0, Y: 0}
	DirUp    = Direction{X: 0, Y: 1}
	DirDown  = Direction{X: 0, Y: -1}
	DirRight = Direction{X: 1, Y: 0}
	DirLeft  = Direction{X: -1, Y: 0}
)

// Add возвращает сумму координат (не меняя текущую)
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub возвращает разность координат
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale умножает вектор на целое
func (p Position) Scale(k int) Position {
	return Position{X: p.X * k, Y: p.Y * k}
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ManhattanTo - расстояние в шагах по 4 направлениям
func (p Position) ManhattanTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsCardinal возвращает true для одного из четырех единичных векторов
func (p Position) IsCardinal() bool {
	return p == DirUp || p == DirDown || p == DirLeft || p == DirRight
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

var directionNames = map[string]Direction{
	"UP":    DirUp,
	"DOWN":  DirDown,
	"LEFT":  DirLeft,
	"RIGHT": DirRight,
}

// ParseDirection конвертирует "up"/"down"/"left"/"right" в вектор.
func ParseDirection(s string) (Direction, error) {
	if d, ok := directionNames[strings.ToUpper(s)]; ok {
		return d, nil
	}
	return DirNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DirectionName - обратное преобразование для логов и DTO
func DirectionName(d Direction) string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// RectFootprint строит список клеток прямоугольника W×H от корня.
// Порядок: сначала по X, внутри по Y.
func RectFootprint(root Position, w, h int) []Position {
	if w < 1 || h < 1 {
		return nil
	}
	cells := make([]Position, 0, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			cells = append(cells, root.Shift(x, y))
		}
	}
	return cells
}

// MinCorner возвращает клетку с наименьшими X и Y (корень футпринта).
func MinCorner(cells []Position) Position {
	if len(cells) == 0 {
		return Position{}
	}
	root := cells[0]
	for _, c := range cells[1:] {
		if c.X < root.X || (c.X == root.X && c.Y < root.Y) {
			root = c
		}
	}
	return root
}

// GridLayout связывает сетку с непрерывными мировыми координатами.
// Центр клетки = Origin + (cell + 0.5) * CellSize.
type GridLayout struct {
	CellSize float64 `json:"cellSize" yaml:"cellSize"`
	OriginX  float64 `json:"originX" yaml:"originX"`
	OriginY  float64 `json:"originY" yaml:"originY"`
}

// NewGridLayout создает раскладку; неположительный размер клетки заменяется на 1.
func NewGridLayout(cellSize, originX, originY float64) GridLayout {
	if cellSize <= 0 {
		cellSize = 1
	}
	return GridLayout{CellSize: cellSize, OriginX: originX, OriginY: originY}
}

// WorldToCell возвращает клетку, в которую попадает мировая точка.
func (g GridLayout) WorldToCell(x, y float64) Position {
	size := g.CellSize
	if size <= 0 {
		size = 1
	}
	return Position{
		X: int(math.Floor((x - g.OriginX) / size)),
		Y: int(math.Floor((y - g.OriginY) / size)),
	}
}

// CellCenter возвращает мировые координаты центра клетки.
func (g GridLayout) CellCenter(p Position) (float64, float64) {
	size := g.CellSize
	if size <= 0 {
		size = 1
	}
	return g.OriginX + (float64(p.X)+0.5)*size, g.OriginY + (float64(p.Y)+0.5)*size
}
