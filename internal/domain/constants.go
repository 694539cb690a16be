package domain

import "time"

// Параметры движения по умолчанию
const (
	// DefaultMoveSpeed - клеток в секунду для обычного шага
	DefaultMoveSpeed = 5.0
	// DefaultTickRate - тиков симуляции в секунду
	DefaultTickRate = 30
)

// Параметры эффектов
const (
	DefaultEffectPoolCapacity = 64
	DefaultEffectDuration     = 300 * time.Millisecond
)

// StepDuration возвращает время прохода одной клетки: 1/speed секунд,
// ускоренное множителем навыка и замедленное стоимостью клетки.
func StepDuration(moveSpeed, speedMultiplier, moveCost float64) time.Duration {
	if moveSpeed <= 0 {
		moveSpeed = DefaultMoveSpeed
	}
	if speedMultiplier < 1 {
		speedMultiplier = 1
	}
	if moveCost <= 0 {
		moveCost = 1
	}
	seconds := moveCost / (moveSpeed * speedMultiplier)
	return time.Duration(seconds * float64(time.Second))
}
