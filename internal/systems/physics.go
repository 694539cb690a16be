package systems

import (
	"gridtactics/internal/domain"
)

// OccupancyProbe классифицирует клетки для рывка: сначала тайл,
// а если тайл свободен - живые сущности из индекса считаются Occupant.
type OccupancyProbe struct {
	Tiles *domain.TileMap
	Index *domain.SpatialIndex
	Self  *domain.Entity // себя не считаем препятствием
}

// ObstacleAt реализует ObstacleProbe
func (p OccupancyProbe) ObstacleAt(pos domain.Position) domain.ObstacleKind {
	kind := p.Tiles.ObstacleAt(pos)
	if kind != domain.ObstacleNone || p.Index == nil {
		return kind
	}

	for _, other := range p.Index.EntitiesAt(pos) {
		if other == p.Self {
			continue
		}
		if blocksMovement(other) {
			return domain.ObstacleOccupant
		}
	}
	return kind
}

// blocksMovement: блокируют только живые существа с телом.
// Игроки друг друга не блокируют.
func blocksMovement(e *domain.Entity) bool {
	if e.IsDead() {
		return false
	}
	switch e.Type {
	case domain.EntityTypeEnemy, domain.EntityTypeBoss, domain.EntityTypeNPC:
		return true
	}
	return false
}

// CanStandAt - проходимость всей площади следа с корнем в root
func CanStandAt(tiles *domain.TileMap, e *domain.Entity, root domain.Position) bool {
	for _, c := range e.FootprintAt(root) {
		if !tiles.IsWalkable(c) {
			return false
		}
	}
	return true
}
