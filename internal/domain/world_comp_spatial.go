package domain

import (
	"gridtactics/pkg/logger"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// SpatialIndex: клетка -> множество сущностей на ней.
// Индекс не владеет сущностями, это вторичная структура поиска.
// Ключ есть в карте только пока множество непустое.
//
// Не безопасен для конкурентной мутации: все вызовы должны идти
// из одной горутины симуляции (см. engine.Instance).
type SpatialIndex struct {
	cells map[Position]mapset.Set[*Entity]
	count int // число активных сущностей
}

// NewSpatialIndex создает пустой индекс. Глобального экземпляра нет.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		cells: make(map[Position]mapset.Set[*Entity]),
	}
}

// Register добавляет сущность во все занятые ею клетки.
// Повторная регистрация не дублирует записи.
func (idx *SpatialIndex) Register(e *Entity) error {
	if e == nil || len(e.Occupied) == 0 {
		idx.log(e).Warn("Register rejected: entity has no occupied cells")
		return ErrEmptyOccupancy
	}

	idx.put(e)
	if !e.active {
		e.active = true
		idx.count++
	}
	return nil
}

// Unregister убирает сущность из всех её клеток и чистит пустые клетки.
func (idx *SpatialIndex) Unregister(e *Entity) {
	if e == nil {
		return
	}
	idx.drop(e)
	if e.active {
		e.active = false
		idx.count--
	}
}

// Relocate переносит сущность на новый набор клеток: полная разрегистрация + регистрация.
// Корень пересчитывается как клетка с наименьшими X/Y.
// Для неактивной сущности меняется только её след, в индекс ничего не пишется.
func (idx *SpatialIndex) Relocate(e *Entity, cells []Position) error {
	if e == nil || len(cells) == 0 {
		idx.log(e).Warn("Relocate rejected: empty target cells")
		return ErrEmptyOccupancy
	}

	next := make([]Position, len(cells))
	copy(next, cells)

	if !e.active {
		e.Occupied = next
		e.Root = MinCorner(next)
		return nil
	}

	// Между drop и put нет точек выхода: читатели в той же горутине
	// не увидят сущность "нигде".
	idx.drop(e)
	e.Occupied = next
	e.Root = MinCorner(next)
	idx.put(e)
	return nil
}

// MoveRoot переносит прямоугольный след сущности так, чтобы корень оказался в root.
func (idx *SpatialIndex) MoveRoot(e *Entity, root Position) error {
	if e == nil {
		return ErrEmptyOccupancy
	}
	return idx.Relocate(e, e.FootprintAt(root))
}

// EntitiesAt возвращает сущности в клетке (пустой срез, если никого нет)
func (idx *SpatialIndex) EntitiesAt(p Position) []*Entity {
	set, ok := idx.cells[p]
	if !ok {
		return []*Entity{}
	}
	out := make([]*Entity, 0, set.Size())
	set.Each(func(e *Entity) {
		out = append(out, e)
	})
	sortByID(out)
	return out
}

// EntitiesAtOfType - то же, но только заданного типа
func (idx *SpatialIndex) EntitiesAtOfType(p Position, t EntityType) []*Entity {
	all := idx.EntitiesAt(p)
	out := all[:0]
	for _, e := range all {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// EntitiesInArea - объединение EntitiesAt по всем клеткам без повторов.
// Порядок: по первому появлению при обходе cells.
func (idx *SpatialIndex) EntitiesInArea(cells []Position) []*Entity {
	seen := mapset.New[*Entity]()
	out := make([]*Entity, 0)
	for _, p := range cells {
		for _, e := range idx.EntitiesAt(p) {
			if seen.Has(e) {
				continue
			}
			seen.Put(e)
			out = append(out, e)
		}
	}
	return out
}

// Contains - зарегистрирована ли сущность в клетке
func (idx *SpatialIndex) Contains(p Position, e *Entity) bool {
	set, ok := idx.cells[p]
	return ok && set.Has(e)
}

// IsOccupied - есть ли в клетке хоть кто-то
func (idx *SpatialIndex) IsOccupied(p Position) bool {
	_, ok := idx.cells[p]
	return ok
}

// CellCount - число непустых клеток
func (idx *SpatialIndex) CellCount() int {
	return len(idx.cells)
}

// Len - число активных сущностей
func (idx *SpatialIndex) Len() int {
	return idx.count
}

// Cells возвращает занятые клетки (для отладки), отсортированные по Y, затем X
func (idx *SpatialIndex) Cells() []Position {
	out := make([]Position, 0, len(idx.cells))
	for p := range idx.cells {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func (idx *SpatialIndex) put(e *Entity) {
	for _, p := range e.Occupied {
		set, ok := idx.cells[p]
		if !ok {
			set = mapset.New[*Entity]()
			idx.cells[p] = set
		}
		set.Put(e)
	}
}

func (idx *SpatialIndex) drop(e *Entity) {
	for _, p := range e.Occupied {
		set, ok := idx.cells[p]
		if !ok {
			continue
		}
		set.Remove(e)
		if set.Size() == 0 {
			delete(idx.cells, p)
		}
	}
}

func (idx *SpatialIndex) log(e *Entity) *logrus.Entry {
	fields := logrus.Fields{"component": "spatial_index"}
	if e != nil {
		fields["entity_id"] = e.ID
	}
	return logger.Log.WithFields(fields)
}

func sortByID(list []*Entity) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
