package handlers

import (
	"encoding/json"
	"gridtactics/internal/domain"
	"gridtactics/internal/infrastructure/pool"
	"time"
)

// Cooldowns - проверка и запуск перезарядки навыков.
// engine.SkillController реализует этот интерфейс.
type Cooldowns interface {
	Ready(e *domain.Entity, skillID string, now time.Duration) error
	Trigger(e *domain.Entity, skillID string, cooldown, now time.Duration)
}

// Context передает хендлеру состояние мира.
// Мы передаем ссылки, чтобы хендлер мог менять состояние (мутировать данные).
type Context struct {
	World     *domain.World
	Actor     *domain.Entity // Тот, кто выполняет команду
	Tick      int
	Now       time.Duration // симуляционное время
	MoveSpeed float64       // клеток в секунду
	Cooldowns Cooldowns
	Effects   *pool.EffectPool
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи инстанса напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, COMBAT, ERROR)

	// FullState - клиенту нужен полный снимок с картой (INIT)
	FullState bool
	// Changed - команда изменила мир, снимок нужно разослать всем
	Changed bool
}

// HandlerFunc - это контракт для любой команды (MOVE, ATTACK, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Reject - результат отказа с сообщением для игрока
func Reject(msg string, err error) (Result, error) {
	return Result{Msg: msg, MsgType: "ERROR"}, err
}
