package engine

import (
	"context"
	"errors"
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/internal/engine/handlers"
	"gridtactics/internal/engine/handlers/actions"
	"gridtactics/internal/infrastructure/pool"
	"gridtactics/internal/network"
	"gridtactics/pkg/api"
	"gridtactics/pkg/level"
	"gridtactics/pkg/logger"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull - очередь команд инстанса переполнена
var ErrQueueFull = errors.New("command queue full")

// Instance представляет собой один изолированный запущенный уровень.
// Вся мутация мира идет из одной горутины (Run -> Step); mu нужен только
// для чтения снимков из HTTP-хендлеров.
type Instance struct {
	cfg   Config
	Level *level.Level
	World *domain.World

	Effects *pool.EffectPool
	Skills  *SkillController
	Hub     *network.Broadcaster // может быть nil (тесты, replay)

	handlers map[domain.ActionType]handlers.HandlerFunc

	commands chan domain.InternalCommand

	mu      sync.RWMutex
	tick    int
	logs    []api.LogEntry
	logSeq  int
	journal *domain.JournalSession
	dirty   bool
	pending map[string]bool // кому нужен полный снимок (после INIT)

	sessionMu sync.Mutex
	sessions  map[string]bool // ключи сущностей, занятых клиентами

	closeOnce sync.Once
	closed    chan struct{}

	log *logrus.Entry
}

// NewInstance собирает уровень и готовит инстанс к запуску
func NewInstance(cfg Config, file *level.File, hub *network.Broadcaster) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lvl, world, err := buildWorld(file, cfg.Zone)
	if err != nil {
		return nil, err
	}

	queue := cfg.CommandQueue
	if queue < 1 {
		queue = 100
	}

	i := &Instance{
		cfg:      cfg,
		Level:    lvl,
		World:    world,
		Effects:  pool.NewEffectPool(cfg.PoolCapacity),
		Skills:   NewSkillController(),
		Hub:      hub,
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		commands: make(chan domain.InternalCommand, queue),
		logs:     []api.LogEntry{},
		pending:  make(map[string]bool),
		sessions: make(map[string]bool),
		closed:   make(chan struct{}),
		journal: &domain.JournalSession{
			Level:     file.Name,
			TickRate:  cfg.TickRate,
			Timestamp: time.Now().Unix(),
			Actions:   make([]domain.JournalAction, 0),
		},
		log: logger.Log.WithFields(logrus.Fields{
			"component":  "instance",
			"level_name": file.Name,
			"zone":       cfg.Zone,
		}),
	}
	i.registerHandlers()
	return i, nil
}

func (i *Instance) registerHandlers() {
	i.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	i.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	i.handlers[domain.ActionDash] = handlers.WithPayload(actions.HandleDash)
	i.handlers[domain.ActionAttack] = handlers.WithPayload(actions.HandleAttack)
	i.handlers[domain.ActionWait] = handlers.WithEmptyPayload(actions.HandleWait)
}

// Config - параметры, с которыми запущен инстанс
func (i *Instance) Config() Config {
	return i.cfg
}

// Tick - текущий шаг симуляции
func (i *Instance) Tick() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tick
}

// now - симуляционное время текущего тика. Вызывающий держит mu.
func (i *Instance) now() time.Duration {
	return time.Duration(i.tick) * i.cfg.TickDuration()
}

// Run запускает игровой цикл инстанса. Возвращается по отмене ctx или Shutdown.
func (i *Instance) Run(ctx context.Context) {
	ticker := time.NewTicker(i.cfg.TickDuration())
	defer ticker.Stop()

	i.log.WithField("tick_rate", i.cfg.TickRate).Info("Instance loop started")
	for {
		select {
		case <-ctx.Done():
			i.log.Info("Instance loop stopped: context cancelled")
			return
		case <-i.closed:
			i.log.Info("Instance loop stopped: shutdown")
			return
		case <-ticker.C:
			i.Step()
		}
	}
}

// Submit ставит команду в очередь следующего тика. Не блокирует.
func (i *Instance) Submit(cmd domain.InternalCommand) error {
	select {
	case <-i.closed:
		return domain.ErrInstanceShutdown
	default:
	}

	select {
	case i.commands <- cmd:
		return nil
	default:
		i.log.WithField("token", cmd.Token).Warn("Command dropped: queue full")
		return ErrQueueFull
	}
}

// Step - один тик: время вперед, движения и эффекты, команды из очереди, рассылка.
// Команды тика видят мир уже продвинутым к его времени.
func (i *Instance) Step() {
	i.mu.Lock()
	i.tick++
	i.simulate()

	for drained := false; !drained; {
		select {
		case cmd := <-i.commands:
			_, _ = i.execute(cmd)
		default:
			drained = true
		}
	}

	i.publish()
	i.mu.Unlock()
}

// Execute выполняет команду немедленно в текущем тике, так же как команды
// из очереди внутри Step (после simulate этого тика). В журнал попадает
// текущий тик. Живой трафик идет через Submit.
func (i *Instance) Execute(cmd domain.InternalCommand) (handlers.Result, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.execute(cmd)
}

// execute: вызывающий держит mu
func (i *Instance) execute(cmd domain.InternalCommand) (handlers.Result, error) {
	cmdLog := i.log.WithFields(logrus.Fields{
		"tick":   i.tick,
		"token":  cmd.Token,
		"action": cmd.Action,
	})

	handler, ok := i.handlers[cmd.Action]
	if !ok {
		cmdLog.Warn("Unknown action")
		return handlers.Result{}, fmt.Errorf("unsupported action %s", cmd.Action)
	}

	actor := i.World.GetByKey(cmd.Token)
	switch {
	case actor == nil:
		cmdLog.Debug("Command for unknown entity")
		return handlers.Result{}, domain.ErrEntityNotFound
	case !actor.Has(domain.CapControllable):
		cmdLog.Warn("Command for non-controllable entity")
		return handlers.Result{}, domain.ErrNotControllable
	case actor.IsDead():
		return handlers.Result{}, domain.ErrEntityDead
	}

	ctx := handlers.Context{
		World:     i.World,
		Actor:     actor,
		Tick:      i.tick,
		Now:       i.now(),
		MoveSpeed: i.cfg.MoveSpeed,
		Cooldowns: i.Skills,
		Effects:   i.Effects,
	}

	result, err := handler(ctx, cmd.Payload)

	if result.Msg != "" {
		i.addLog(result.Msg, result.MsgType)
	}
	if result.Changed {
		i.dirty = true
	}
	if result.FullState {
		i.pending[cmd.Token] = true
	}

	if err != nil {
		cmdLog.WithError(err).Debug("Command rejected")
		return result, err
	}

	// В журнал попадают только принятые команды
	i.journal.Actions = append(i.journal.Actions, domain.JournalAction{
		Tick:    i.tick,
		Token:   cmd.Token,
		Action:  cmd.Action,
		Payload: cmd.Payload,
	})
	i.reapDead()
	return result, nil
}

// simulate двигает презентационные состояния к текущему времени
func (i *Instance) simulate() {
	now := i.now()
	for _, e := range i.World.Entities() {
		if e.Motion != nil && e.Motion.Advance(now) {
			i.dirty = true
		}
	}
	if expired := i.Effects.Expire(now); len(expired) > 0 {
		i.dirty = true
	}
}

// reapDead чистит таймеры навыков у сущностей, покинувших мир
func (i *Instance) reapDead() {
	for id := range i.Skills.readyAt {
		if i.World.GetEntity(id) == nil {
			i.Skills.Forget(id)
		}
	}
}

// Shutdown останавливает цикл и сохраняет журнал (если задан JournalDir).
// Возвращает путь к файлу журнала или пустую строку.
func (i *Instance) Shutdown() (string, error) {
	var path string
	var err error
	i.closeOnce.Do(func() {
		close(i.closed)
		path, err = i.saveJournal()
		i.log.Info("Instance shut down")
	})
	return path, err
}

// Journal - копия журнала принятых команд
func (i *Instance) Journal() *domain.JournalSession {
	i.mu.RLock()
	defer i.mu.RUnlock()
	cp := *i.journal
	cp.Actions = append([]domain.JournalAction(nil), i.journal.Actions...)
	return &cp
}
