package systems

import (
	"gridtactics/internal/domain"
	"gridtactics/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Despawner - владелец жизненного цикла: снимает сущность с индекса и уничтожает её.
// domain.World реализует этот интерфейс.
type Despawner interface {
	Despawn(e *domain.Entity)
}

// DamageOutcome - результат применения урона
type DamageOutcome struct {
	Applied  bool // false, если цель не умеет получать урон
	HPBefore int
	HPAfter  int
	Died     bool
}

// ApplyDamage наносит урон цели. Цели без CapDamageable молча пропускаются.
// При смерти сущность сначала снимается с индекса, потом уничтожается.
func ApplyDamage(world Despawner, target *domain.Entity, amount int) (DamageOutcome, error) {
	var out DamageOutcome
	if amount < 0 {
		return out, domain.ErrNegativeDamage
	}
	if target == nil || !target.Has(domain.CapDamageable) || target.Health == nil {
		return out, nil
	}

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"target_id":   target.ID,
		"target_name": target.Name,
	})

	if target.Health.IsDead {
		combatLogger.Info("Damage ignored: target is already dead.")
		return out, nil
	}

	out.HPBefore = target.Health.HP
	died, err := target.Health.TakeDamage(amount)
	if err != nil {
		return DamageOutcome{}, err
	}
	out.Applied = true
	out.HPAfter = target.Health.HP
	out.Died = died

	combatLogger.WithFields(logrus.Fields{
		"damage":      amount,
		"hp_before":   out.HPBefore,
		"hp_after":    out.HPAfter,
		"target_died": died,
	}).Info("Damage applied.")

	if died && world != nil {
		world.Despawn(target)
	}
	return out, nil
}

// AttackReport - итог одной атаки по площади
type AttackReport struct {
	Cells   []domain.Position
	Hits    []*domain.Entity
	Killed  []*domain.Entity
	Outcome map[domain.EntityID]DamageOutcome
}

// ResolveAttack выполняет атаку строго по порядку:
// клетки -> запрос индекса -> урон -> снятие/уничтожение погибших.
func ResolveAttack(world *domain.World, attacker *domain.Entity, skill *domain.AttackSkill) (AttackReport, error) {
	report := AttackReport{Outcome: make(map[domain.EntityID]DamageOutcome)}
	if world == nil {
		return report, domain.ErrMissingTileMap
	}
	if err := skill.Validate(); err != nil {
		return report, err
	}

	report.Cells = ComputeTargetCells(attacker.Root, attacker.Facing, skill.Pattern)
	report.Hits = FilterDamageable(ResolveTargets(world.Index, report.Cells))

	for _, target := range report.Hits {
		if target == attacker {
			continue
		}
		res, err := ApplyDamage(world, target, skill.Damage)
		if err != nil {
			return report, err
		}
		report.Outcome[target.ID] = res
		if res.Died {
			report.Killed = append(report.Killed, target)
		}
	}
	return report, nil
}
