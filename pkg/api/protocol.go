package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Снимок мира для конкретного клиента. Отправляется после каждого тика,
// в котором что-то изменилось.
type ServerResponse struct {
	// Type тип сообщения: "INIT" (с картой) или "UPDATE".
	Type string `json:"type"`

	// Tick номер шага симуляции.
	Tick int `json:"tick"`

	// TickRate шагов симуляции в секунду, нужен клиенту для интерполяции.
	TickRate int `json:"tickRate"`

	// MyEntityID ID сущности, которой управляет данный клиент.
	MyEntityID string `json:"myEntityId,omitempty"`

	// Grid метаданные о размере карты. Только в INIT.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map классифицированные клетки уровня. Только в INIT.
	Map []TileView `json:"map,omitempty"`

	// Entities все активные сущности.
	Entities []EntityView `json:"entities"`

	// Effects активные эффекты атак.
	Effects []EffectView `json:"effects,omitempty"`

	// Logs новые сообщения с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`
}

// GridMeta описывает прямоугольник уровня и размер клетки в мировых единицах.
type GridMeta struct {
	MinX     int     `json:"minX"`
	MinY     int     `json:"minY"`
	Width    int     `json:"w"`
	Height   int     `json:"h"`
	CellSize float64 `json:"cellSize"`
}

// TileView DTO одной классифицированной клетки.
type TileView struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Name     string  `json:"name,omitempty"`
	Walkable bool    `json:"walkable"`
	Obstacle string  `json:"obstacle"` // none, wall, occupant, cliff, hazard
	MoveCost float64 `json:"moveCost"`
}

// PointView - координата клетки
type PointView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EntityView это DTO для сущности на сетке.
type EntityView struct {
	ID   string `json:"id"`
	Key  string `json:"key,omitempty"`
	Type string `json:"type"` // PLAYER, ENEMY, BOSS, NPC
	Name string `json:"name"`

	Root   PointView   `json:"root"`
	Size   PointView   `json:"size"` // x = ширина, y = высота
	Facing PointView   `json:"facing"`
	Cells  []PointView `json:"cells"`

	Stats  *StatsView  `json:"stats,omitempty"`
	Motion *MotionView `json:"motion,omitempty"`
	Skills *SkillsView `json:"skills,omitempty"`

	// Cooldowns - сколько миллисекунд осталось до готовности навыка (только для своей сущности)
	Cooldowns map[string]int64 `json:"cooldowns,omitempty"`
}

// SkillsView id навыков сущности, ключи для Cooldowns.
type SkillsView struct {
	Dodge  string `json:"dodge,omitempty"`
	Attack string `json:"attack,omitempty"`
	// AttackPattern клетки атаки относительно сущности, смотрящей вверх.
	// Пусто = одна клетка перед сущностью.
	AttackPattern []PointView `json:"attackPattern,omitempty"`
}

// StatsView это DTO здоровья.
type StatsView struct {
	HP     int  `json:"hp"`
	MaxHP  int  `json:"maxHp"`
	IsDead bool `json:"isDead"`
}

// MotionView - презентационная интерполяция. Логически сущность уже в To.
type MotionView struct {
	From       PointView `json:"from"`
	To         PointView `json:"to"`
	StartTick  int       `json:"startTick"`
	DurationMs int64     `json:"durationMs"`
	Progress   float64   `json:"progress"`
}

// EffectView - эффект атаки в клетке
type EffectView struct {
	Key       string    `json:"key"`
	At        PointView `json:"at"`
	Seq       uint64    `json:"seq"`
	ExpiresMs int64     `json:"expiresMs"` // симуляционное время истечения
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ключ сущности, от имени которой выполняется действие.
	Token string `json:"token,omitempty"`

	// Action название действия: INIT, MOVE, DASH, ATTACK, WAIT.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// DirectionPayload используется для MOVE: ровно один шаг по одной оси.
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}

// FacingPayload используется для DASH и ATTACK.
// Нулевой вектор значит "в сторону, куда смотрит сущность".
type FacingPayload struct {
	Dx int `json:"dx,omitempty"`
	Dy int `json:"dy,omitempty"`
}

// IsZero - направление не задано
func (p FacingPayload) IsZero() bool {
	return p.Dx == 0 && p.Dy == 0
}
