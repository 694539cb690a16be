package actions

import (
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/internal/engine/handlers"
	"gridtactics/internal/systems"
	"gridtactics/pkg/api"
	"gridtactics/pkg/logger"
	"strings"

	"github.com/sirupsen/logrus"
)

// HandleAttack - атака навыком Attack по шаблону от текущего взгляда.
// Направление в payload сначала разворачивает сущность.
func HandleAttack(ctx handlers.Context, p api.FacingPayload) (handlers.Result, error) {
	actor := ctx.Actor
	if actor.Skills == nil || actor.Skills.Attack == nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "attack",
			"entity_id": actor.ID,
		}).Warn("Attack aborted: no attack skill configured")
		return handlers.Reject("Нет навыка атаки.", domain.ErrMissingSkill)
	}
	skill := actor.Skills.Attack

	if err := ctx.Cooldowns.Ready(actor, skill.ID, ctx.Now); err != nil {
		return handlers.Reject(fmt.Sprintf("%s еще не готов.", skill.Name), err)
	}
	if actor.IsMoving() {
		return handlers.Reject("Нельзя атаковать на ходу.", domain.ErrBusy)
	}

	if !p.IsZero() {
		actor.Facing = domain.Direction{X: p.Dx, Y: p.Dy}
	}

	report, err := systems.ResolveAttack(ctx.World, actor, skill)
	if err != nil {
		return handlers.Reject("Навык атаки настроен неверно.", err)
	}
	ctx.Cooldowns.Trigger(actor, skill.ID, skill.Cooldown, ctx.Now)

	spawnEffects(ctx, skill, report.Cells)

	return handlers.Result{
		Msg:     describeAttack(actor, skill, report),
		MsgType: "COMBAT",
		Changed: true,
	}, nil
}

// spawnEffects берет эффекты из пула в порядке шаблона
func spawnEffects(ctx handlers.Context, skill *domain.AttackSkill, cells []domain.Position) {
	if skill.EffectID == "" || ctx.Effects == nil {
		return
	}
	for _, c := range cells {
		if _, err := ctx.Effects.Acquire(skill.EffectID, c, ctx.Now, skill.EffectDuration); err != nil {
			// Пул переполнен - остальные клетки тоже без эффекта
			return
		}
	}
}

func describeAttack(actor *domain.Entity, skill *domain.AttackSkill, report systems.AttackReport) string {
	if len(report.Hits) == 0 {
		return fmt.Sprintf("%s: %s - мимо.", actor.Name, skill.Name)
	}

	parts := make([]string, 0, len(report.Hits))
	for _, target := range report.Hits {
		out, ok := report.Outcome[target.ID]
		if !ok || !out.Applied {
			continue
		}
		if out.Died {
			parts = append(parts, fmt.Sprintf("%s погибает", target.Name))
		} else {
			parts = append(parts, fmt.Sprintf("%s (%d/%d)", target.Name, out.HPAfter, target.Health.MaxHP))
		}
	}
	return fmt.Sprintf("%s: %s - %s.", actor.Name, skill.Name, strings.Join(parts, ", "))
}
