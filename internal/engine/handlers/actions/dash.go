package actions

import (
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/internal/engine/handlers"
	"gridtactics/internal/systems"
	"gridtactics/pkg/api"
	"gridtactics/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HandleDash - рывок навыком Dodge. Без направления - туда, куда смотрит сущность.
// Если рывок ничего не дал, перезарядка не тратится.
func HandleDash(ctx handlers.Context, p api.FacingPayload) (handlers.Result, error) {
	actor := ctx.Actor
	if actor.Skills == nil || actor.Skills.Dodge == nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "dash",
			"entity_id": actor.ID,
		}).Warn("Dash aborted: no movement skill configured")
		return handlers.Reject("Нет навыка рывка.", domain.ErrMissingSkill)
	}
	skill := actor.Skills.Dodge
	if err := skill.Validate(); err != nil {
		return handlers.Reject("Навык рывка настроен неверно.", err)
	}
	if err := ctx.Cooldowns.Ready(actor, skill.ID, ctx.Now); err != nil {
		return handlers.Reject(fmt.Sprintf("%s еще не готов.", skill.Name), err)
	}

	dir := directionOr(p.Dx, p.Dy, actor.Facing)
	actor.Facing = dir

	probe := systems.OccupancyProbe{Tiles: ctx.World.Tiles, Index: ctx.World.Index, Self: actor}
	trace := systems.TraceDash(actor.Root, dir, skill.DashDistance, skill.Rules, probe)
	final := landing(ctx, actor.Root, trace.Final, dir)

	if final == actor.Root {
		return handlers.Result{Msg: "Рывок невозможен.", MsgType: "INFO", Changed: true}, nil
	}

	duration := pathDuration(ctx, actor.Root, final, dir, skill.SpeedMultiplier)
	if err := commitMove(ctx, final, duration); err != nil {
		return handlers.Reject("Не удалось выполнить рывок.", err)
	}
	ctx.Cooldowns.Trigger(actor, skill.ID, skill.Cooldown, ctx.Now)

	return handlers.Result{Changed: true}, nil
}

// landing откатывает конец рывка назад по пути, пока след сущности
// не окажется целиком на проходимых клетках. Может вернуть start.
func landing(ctx handlers.Context, start, final domain.Position, dir domain.Direction) domain.Position {
	back := dir.Scale(-1)
	for p := final; p != start; p = p.Add(back) {
		if systems.CanStandAt(ctx.World.Tiles, ctx.Actor, p) {
			return p
		}
	}
	return start
}
