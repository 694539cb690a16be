package engine

import (
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/pkg/level"
)

// buildWorld собирает карту, навыки и начальные сущности уровня.
// Одинаковый файл и зона всегда дают одинаковые ID - на этом держится replay.
func buildWorld(file *level.File, zone uint16) (*level.Level, *domain.World, error) {
	if file == nil {
		return nil, nil, domain.ErrMissingTileMap
	}
	lvl, err := file.Build()
	if err != nil {
		return nil, nil, err
	}
	world, err := lvl.NewWorld(zone)
	if err != nil {
		return nil, nil, fmt.Errorf("level %q: %w", file.Name, err)
	}
	return lvl, world, nil
}
