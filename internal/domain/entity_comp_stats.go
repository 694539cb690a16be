package domain

// HealthComponent - здоровье. Alive -> Dead, воскрешения нет.
type HealthComponent struct {
	HP     int  `json:"hp"`
	MaxHP  int  `json:"maxHp"`
	IsDead bool `json:"isDead"`
}

// NewHealth создает полное здоровье
func NewHealth(max int) *HealthComponent {
	if max < 1 {
		max = 1
	}
	return &HealthComponent{HP: max, MaxHP: max}
}

// TakeDamage наносит урон. Возвращает true, если цель погибла именно этим ударом.
// Отрицательный урон - ошибка вызывающего, состояние не меняется.
func (h *HealthComponent) TakeDamage(amount int) (bool, error) {
	if amount < 0 {
		return false, ErrNegativeDamage
	}
	if h.IsDead {
		return false, nil
	}

	h.HP -= amount

	if h.HP <= 0 {
		h.HP = 0
		h.IsDead = true
		return true, nil
	}
	return false, nil
}

// Heal лечит живую сущность
func (h *HealthComponent) Heal(amount int) {
	if h.IsDead || amount <= 0 {
		return // Не лечим трупы! Нет некромантии!
	}
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}
