package engine

import (
	"fmt"
	"gridtactics/pkg/api"
	"time"

	"github.com/sirupsen/logrus"
)

// addLog добавляет запись в лог инстанса. Вызывающий держит mu.
func (i *Instance) addLog(text, logType string) {
	i.logSeq++
	i.logs = append(i.logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d_%d", i.cfg.Zone, i.tick, i.logSeq),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	i.log.WithFields(logrus.Fields{
		"component": "game_log",
		"tick":      i.tick,
		"log_type":  logType,
	}).Info(text)
}
