package domain

import "errors"

// Ошибки ядра. Ни одна из них не фатальна: вызывающий всегда может
// откатиться к варианту "ничего не произошло".
var (
	// Нарушения инвариантов (состояние не меняется)
	ErrEmptyOccupancy   = errors.New("entity has no occupied cells")
	ErrNegativeDamage   = errors.New("damage amount must not be negative")
	ErrInvalidDirection = errors.New("direction must be one of up/down/left/right")

	// Ошибки конфигурации (действие отменяется)
	ErrMissingTileMap = errors.New("tile map is not configured")
	ErrMissingSkill   = errors.New("skill descriptor is not configured")
	ErrInvalidSkill   = errors.New("invalid skill descriptor")

	// Политики контроллеров
	ErrEntityNotFound   = errors.New("entity not found")
	ErrNotControllable  = errors.New("entity is not controllable")
	ErrOnCooldown       = errors.New("skill is on cooldown")
	ErrBusy             = errors.New("entity is moving")
	ErrEntityDead       = errors.New("entity is dead")
	ErrInstanceShutdown = errors.New("instance is shut down")
)
