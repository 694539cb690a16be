package systems

import (
	"gridtactics/internal/domain"
	"gridtactics/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ObstacleProbe - всё, что умеет сказать тип препятствия в клетке.
// TileMap реализует его напрямую, OccupancyProbe добавляет живые сущности.
type ObstacleProbe interface {
	ObstacleAt(p domain.Position) domain.ObstacleKind
}

// TryStep - шаг на одну клетку. Проходимость здесь не проверяется,
// это политика вызывающего.
func TryStep(current domain.Position, dir domain.Direction) domain.Position {
	return current.Add(dir)
}

// DashResult - результат вычисления рывка. Не меняет состояние мира!
type DashResult struct {
	Final     domain.Position
	Steps     int                 // сколько клеток реально пройдено
	BlockedBy domain.ObstacleKind // ObstacleNone, если дистанция исчерпана
	BlockedAt *domain.Position
}

// HasMoved - false означает "рывок ничего не дал", это не ошибка
func (r DashResult) HasMoved() bool {
	return r.Steps > 0
}

// ResolveDash идет по клеткам start+dir*1 .. start+dir*maxDistance.
// Стена без PassWall или занятая клетка без PassOccupant останавливают рывок
// на последней принятой клетке (никогда не на блокирующей).
func ResolveDash(start domain.Position, dir domain.Direction, maxDistance int, rules domain.PassRules, probe ObstacleProbe) domain.Position {
	return TraceDash(start, dir, maxDistance, rules, probe).Final
}

// TraceDash - то же, что ResolveDash, но с подробностями для логов и клиента.
func TraceDash(start domain.Position, dir domain.Direction, maxDistance int, rules domain.PassRules, probe ObstacleProbe) DashResult {
	res := DashResult{Final: start}
	if probe == nil || maxDistance < 1 || dir == domain.DirNone {
		return res
	}

	for i := 1; i <= maxDistance; i++ {
		next := start.Add(dir.Scale(i))
		obstacle := probe.ObstacleAt(next)

		if obstacle == domain.ObstacleWall && !rules.PassWall {
			res.BlockedBy = obstacle
			res.BlockedAt = &next
			break
		}
		if obstacle == domain.ObstacleOccupant && !rules.PassOccupant {
			res.BlockedBy = obstacle
			res.BlockedAt = &next
			break
		}

		res.Final = next
		res.Steps = i
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "movement_system",
		"start":      start,
		"dir":        dir,
		"max":        maxDistance,
		"final":      res.Final,
		"blocked_by": res.BlockedBy,
	}).Debug("Dash resolved")

	return res
}
