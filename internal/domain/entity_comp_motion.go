package domain

import "time"

// MotionPhase - состояние интерполяции движения
type MotionPhase uint8

const (
	MotionIdle MotionPhase = iota
	MotionMoving
)

func (p MotionPhase) String() string {
	if p == MotionMoving {
		return "MOVING"
	}
	return "IDLE"
}

// MotionComponent - Idle -> Moving(from, to, start, duration) -> Idle.
// Логическая позиция уже зафиксирована в индексе, здесь только презентация.
type MotionComponent struct {
	Phase     MotionPhase   `json:"phase"`
	From      Position      `json:"from"`
	To        Position      `json:"to"`
	StartedAt time.Duration `json:"startedAt"` // симуляционное время
	Duration  time.Duration `json:"duration"`
	Seq       uint64        `json:"seq"` // растет с каждым стартом, старые завершения игнорируются
}

// Start запускает новое движение. Если предыдущее не закончилось,
// оно просто перезаписывается (побеждает последний запрос).
// Возвращает true, если было прервано незавершенное движение.
func (m *MotionComponent) Start(from, to Position, now, duration time.Duration) bool {
	interrupted := m.Phase == MotionMoving
	m.Phase = MotionMoving
	m.From = from
	m.To = to
	m.StartedAt = now
	m.Duration = duration
	m.Seq++
	return interrupted
}

// Advance двигает состояние к моменту now. Возвращает true, если движение завершилось на этом шаге.
func (m *MotionComponent) Advance(now time.Duration) bool {
	if m.Phase != MotionMoving {
		return false
	}
	if now-m.StartedAt < m.Duration {
		return false
	}
	m.Phase = MotionIdle
	return true
}

// Progress - доля пройденного пути [0..1] для клиента
func (m *MotionComponent) Progress(now time.Duration) float64 {
	if m.Phase != MotionMoving || m.Duration <= 0 {
		return 1
	}
	t := float64(now-m.StartedAt) / float64(m.Duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Cancel сбрасывает презентационное состояние
func (m *MotionComponent) Cancel() {
	m.Phase = MotionIdle
}
