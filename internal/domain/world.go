package domain

import (
	"fmt"
	"gridtactics/pkg/logger"
	"sort"

	"github.com/sirupsen/logrus"
)

// World связывает статическую карту, пространственный индекс и реестр сущностей.
// Создается явно и принадлежит одному инстансу.
type World struct {
	Name   string
	Tiles  *TileMap
	Index  *SpatialIndex
	Layout GridLayout

	registry map[EntityID]*Entity
	byKey    map[string]*Entity
}

// NewWorld создает мир поверх готовой карты
func NewWorld(name string, tiles *TileMap, layout GridLayout) (*World, error) {
	if tiles == nil {
		return nil, ErrMissingTileMap
	}
	return &World{
		Name:     name,
		Tiles:    tiles,
		Index:    NewSpatialIndex(),
		Layout:   layout,
		registry: make(map[EntityID]*Entity),
		byKey:    make(map[string]*Entity),
	}, nil
}

// Spawn добавляет сущность в реестр и регистрирует её в индексе (активация).
func (w *World) Spawn(e *Entity) error {
	if e == nil {
		return ErrEntityNotFound
	}
	if _, dup := w.registry[e.ID]; dup {
		return fmt.Errorf("entity %s already spawned", e.ID)
	}
	if e.Key != "" {
		if _, dup := w.byKey[e.Key]; dup {
			return fmt.Errorf("entity key %q already in use", e.Key)
		}
	}
	if err := w.Index.Register(e); err != nil {
		return err
	}

	w.registry[e.ID] = e
	if e.Key != "" {
		w.byKey[e.Key] = e
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"entity_id": e.ID,
		"type":      e.Type,
		"root":      e.Root,
		"cells":     len(e.Occupied),
	}).Debug("Entity spawned")
	return nil
}

// Despawn: сначала разрегистрация в индексе, потом уничтожение внешнего объекта.
func (w *World) Despawn(e *Entity) {
	if e == nil {
		return
	}
	w.Index.Unregister(e)
	delete(w.registry, e.ID)
	if e.Key != "" && w.byKey[e.Key] == e {
		delete(w.byKey, e.Key)
	}
	if d, ok := e.Owner.(Destroyer); ok {
		d.Destroy()
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "world",
		"entity_id": e.ID,
	}).Debug("Entity despawned")
}

// GetEntity ищет сущность по ID
func (w *World) GetEntity(id EntityID) *Entity {
	return w.registry[id]
}

// GetByKey ищет сущность по внешнему ключу (токену)
func (w *World) GetByKey(key string) *Entity {
	return w.byKey[key]
}

// Entities возвращает все сущности в порядке ID
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.registry))
	for _, e := range w.registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
