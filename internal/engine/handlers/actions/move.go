package actions

import (
	"gridtactics/internal/domain"
	"gridtactics/internal/engine/handlers"
	"gridtactics/internal/systems"
	"gridtactics/pkg/api"
)

// HandleMove - шаг на одну клетку. Незавершенное движение перезаписывается.
func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	dir := domain.Direction{X: p.Dx, Y: p.Dy}
	ctx.Actor.Facing = dir

	target := systems.TryStep(ctx.Actor.Root, dir)
	if !systems.CanStandAt(ctx.World.Tiles, ctx.Actor, target) {
		// Поворот все равно произошел
		return handlers.Result{Msg: "Путь прегражден.", MsgType: "ERROR", Changed: true}, nil
	}

	duration := pathDuration(ctx, ctx.Actor.Root, target, dir, 1)
	if err := commitMove(ctx, target, duration); err != nil {
		return handlers.Reject("Не удалось сдвинуться.", err)
	}
	return handlers.Result{Changed: true}, nil
}
