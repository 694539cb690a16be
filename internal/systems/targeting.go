package systems

import (
	"gridtactics/internal/domain"
)

// RotatePattern поворачивает относительную клетку шаблона под направление взгляда.
// Шаблоны авторятся для взгляда вверх (0,1):
//   - вверх: без изменений
//   - вниз: (-x, -y), 180°
//   - вправо: (-y, x)
//   - влево: (y, -x)
//
// Неканоническое направление оставляет клетку как есть.
func RotatePattern(rel domain.Position, facing domain.Direction) domain.Position {
	switch facing {
	case domain.DirUp:
		return rel
	case domain.DirDown:
		return domain.Position{X: -rel.X, Y: -rel.Y}
	case domain.DirRight:
		return domain.Position{X: -rel.Y, Y: rel.X}
	case domain.DirLeft:
		return domain.Position{X: rel.Y, Y: -rel.X}
	}
	return rel
}

// ComputeTargetCells переводит шаблон в абсолютные клетки, сохраняя порядок шаблона.
// Пустой шаблон = одна клетка прямо перед атакующим.
func ComputeTargetCells(anchor domain.Position, facing domain.Direction, pattern []domain.Position) []domain.Position {
	if len(pattern) == 0 {
		return []domain.Position{anchor.Add(facing)}
	}

	cells := make([]domain.Position, 0, len(pattern))
	for _, rel := range pattern {
		cells = append(cells, anchor.Add(RotatePattern(rel, facing)))
	}
	return cells
}

// ResolveTargets - все сущности в клетках, без повторов
func ResolveTargets(idx *domain.SpatialIndex, cells []domain.Position) []*domain.Entity {
	if idx == nil {
		return nil
	}
	return idx.EntitiesInArea(cells)
}

// FilterDamageable оставляет только врагов и боссов, способных получать урон.
// Игроки и NPC этим путем не задеваются никогда.
func FilterDamageable(targets []*domain.Entity) []*domain.Entity {
	out := make([]*domain.Entity, 0, len(targets))
	for _, e := range targets {
		if e.Type != domain.EntityTypeEnemy && e.Type != domain.EntityTypeBoss {
			continue
		}
		if !e.Has(domain.CapDamageable) || e.IsDead() {
			continue
		}
		out = append(out, e)
	}
	return out
}
