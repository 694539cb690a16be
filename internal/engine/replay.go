package engine

import (
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/internal/infrastructure/storage"
	"gridtactics/pkg/level"
)

// saveJournal пишет журнал в cfg.JournalDir. Пустой журнал не сохраняется.
func (i *Instance) saveJournal() (string, error) {
	journal := i.Journal()
	if i.cfg.JournalDir == "" || len(journal.Actions) == 0 {
		return "", nil
	}
	svc, err := storage.NewJournalService(i.cfg.JournalDir)
	if err != nil {
		return "", err
	}
	return svc.Save(journal)
}

// Replay создает новый инстанс уровня и прогоняет по нему журнал команд
// тик за тиком, в том же порядке, что и живой цикл: время вперед,
// движения и эффекты, команды тика.
func Replay(cfg Config, file *level.File, session *domain.JournalSession) (*Instance, error) {
	if session.Level != file.Name {
		return nil, fmt.Errorf("journal recorded on level %q, got %q", session.Level, file.Name)
	}
	if session.TickRate > 0 {
		cfg.TickRate = session.TickRate
	}
	cfg.JournalDir = ""

	inst, err := NewInstance(cfg, file, nil)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	actions := session.Actions
	next := 0

	// Команды, выполненные до первого тика
	for next < len(actions) && actions[next].Tick <= inst.tick {
		inst.replayAction(actions[next])
		next++
	}

	for next < len(actions) {
		inst.tick++
		inst.simulate()
		for next < len(actions) && actions[next].Tick == inst.tick {
			inst.replayAction(actions[next])
			next++
		}
		inst.publish()
	}

	inst.log.WithField("actions", len(actions)).Info("Journal replayed")
	return inst, nil
}

func (i *Instance) replayAction(act domain.JournalAction) {
	cmd := domain.InternalCommand{Action: act.Action, Token: act.Token, Payload: act.Payload}
	if _, err := i.execute(cmd); err != nil {
		// Принятая в живом режиме команда не должна падать при повторе
		i.log.WithError(err).WithField("tick", act.Tick).Warn("Replayed command rejected")
	}
}

// SimulateUntil прогоняет пустые тики до tick включительно (без рассылки по времени стены)
func (i *Instance) SimulateUntil(tick int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for i.tick < tick {
		i.tick++
		i.simulate()
		i.publish()
	}
}
