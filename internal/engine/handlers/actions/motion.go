package actions

import (
	"gridtactics/internal/domain"
	"gridtactics/internal/engine/handlers"
	"gridtactics/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// commitMove синхронно переносит сущность в индексе и только потом
// запускает презентационное движение. Отмена прошлого движения ничего
// не откатывает: логическая позиция уже зафиксирована.
func commitMove(ctx handlers.Context, to domain.Position, duration time.Duration) error {
	actor := ctx.Actor
	from := actor.Root

	if err := ctx.World.Index.MoveRoot(actor, to); err != nil {
		return err
	}

	if actor.Motion == nil {
		actor.Motion = &domain.MotionComponent{}
	}
	interrupted := actor.Motion.Start(from, to, ctx.Now, duration)

	logger.Log.WithFields(logrus.Fields{
		"component":   "motion",
		"entity_id":   actor.ID,
		"from":        from,
		"to":          to,
		"duration":    duration,
		"interrupted": interrupted,
		"seq":         actor.Motion.Seq,
	}).Debug("Motion started")
	return nil
}

// pathDuration - время прохода по клеткам от from до to (не включая from).
// Каждая клетка стоит StepDuration со своим MoveCost.
func pathDuration(ctx handlers.Context, from, to domain.Position, dir domain.Direction, speedMultiplier float64) time.Duration {
	var total time.Duration
	for p := from; p != to; {
		p = p.Add(dir)
		cost := ctx.World.Tiles.Classify(p).MoveCost
		total += domain.StepDuration(ctx.MoveSpeed, speedMultiplier, cost)
	}
	return total
}

// directionOr - направление из payload или текущий взгляд
func directionOr(dx, dy int, facing domain.Direction) domain.Direction {
	if dx == 0 && dy == 0 {
		return facing
	}
	return domain.Direction{X: dx, Y: dy}
}
