package domain

import "encoding/json"

// JournalAction - одна принятая команда, записанная с номером тика
type JournalAction struct {
	Tick    int             `json:"tick"`
	Token   string          `json:"token"`   // Кто сделал
	Action  ActionType      `json:"action"`  // Что сделал
	Payload json.RawMessage `json:"payload"` // С какими параметрами
}

// JournalSession - журнал команд одного инстанса.
// Это не сохранение мира: по журналу уровень переигрывается с нуля.
type JournalSession struct {
	Level     string          `json:"level"`
	TickRate  int             `json:"tickRate"`
	Timestamp int64           `json:"timestamp"`
	Actions   []JournalAction `json:"actions"`
}
