package engine

import (
	"fmt"
	"gridtactics/internal/domain"
	"sort"
	"time"
)

// SkillController хранит моменты готовности навыков в симуляционном времени.
// Сами резолверы времени не знают, все проверки "можно ли" живут здесь.
type SkillController struct {
	readyAt map[domain.EntityID]map[string]time.Duration
}

func NewSkillController() *SkillController {
	return &SkillController{
		readyAt: make(map[domain.EntityID]map[string]time.Duration),
	}
}

// Ready возвращает ErrOnCooldown, если навык еще перезаряжается
func (c *SkillController) Ready(e *domain.Entity, skillID string, now time.Duration) error {
	if left := c.Remaining(e, skillID, now); left > 0 {
		return fmt.Errorf("%w: %s ready in %v", domain.ErrOnCooldown, skillID, left)
	}
	return nil
}

// Trigger запускает перезарядку навыка с момента now
func (c *SkillController) Trigger(e *domain.Entity, skillID string, cooldown, now time.Duration) {
	if cooldown <= 0 {
		return
	}
	m, ok := c.readyAt[e.ID]
	if !ok {
		m = make(map[string]time.Duration)
		c.readyAt[e.ID] = m
	}
	m[skillID] = now + cooldown
}

// Remaining - сколько осталось до готовности (0, если готов)
func (c *SkillController) Remaining(e *domain.Entity, skillID string, now time.Duration) time.Duration {
	at, ok := c.readyAt[e.ID][skillID]
	if !ok || at <= now {
		return 0
	}
	return at - now
}

// Pending - перезаряжающиеся навыки сущности: id -> миллисекунды до готовности
func (c *SkillController) Pending(e *domain.Entity, now time.Duration) map[string]int64 {
	var out map[string]int64
	ids := make([]string, 0, len(c.readyAt[e.ID]))
	for id := range c.readyAt[e.ID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if left := c.Remaining(e, id, now); left > 0 {
			if out == nil {
				out = make(map[string]int64)
			}
			out[id] = left.Milliseconds()
		}
	}
	return out
}

// Forget удаляет все таймеры сущности (после смерти/ухода)
func (c *SkillController) Forget(id domain.EntityID) {
	delete(c.readyAt, id)
}
