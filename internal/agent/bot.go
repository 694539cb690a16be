package agent

import (
	"context"
	"encoding/json"
	"errors"
	"gridtactics/internal/domain"
	"gridtactics/internal/engine"
	"gridtactics/internal/network"
	"gridtactics/internal/systems"
	"gridtactics/pkg/api"
	"gridtactics/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent) для спарринга.
// Он занимает сессию сущности так же, как клиент по WebSocket, и ставит
// команды в ту же очередь инстанса. Поиска пути нет: бот жадно идет к
// ближайшему врагу по одной из осей и бьет, когда тот рядом.
//
// Жизненный цикл:
//  1. NewBot -> Join, подписка в хабе, карта проходимости из полного снимка.
//  2. Run -> в отдельной горутине; кадры хаба и таймер будят бота.
//  3. step -> свежий снимок, Decide, Submit.
type Bot struct {
	Key      string
	Instance *engine.Instance
	Hub      *network.Broadcaster // может быть nil
	Inbox    chan api.ServerResponse
	Think    time.Duration

	walkable map[api.PointView]bool
	lastTick int // тик снимка, по которому ушла последняя команда
	log      *logrus.Entry
}

func NewBot(inst *engine.Instance, hub *network.Broadcaster, key string) (*Bot, error) {
	joined, err := inst.Join(key)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Key:      joined,
		Instance: inst,
		Hub:      hub,
		Think:    4 * inst.Config().TickDuration(),
		walkable: WalkableCells(inst.Snapshot(joined, true).Map),
		lastTick: -1,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"key":       joined,
		}),
	}
	if hub != nil {
		b.Inbox = hub.Register(joined)
	}
	b.log.Info("Agent created")
	return b, nil
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
func (b *Bot) Run(ctx context.Context) {
	defer func() {
		if b.Hub != nil {
			b.Hub.Unregister(b.Key, b.Inbox)
		}
		b.Instance.Leave(b.Key)
		b.log.Info("Agent shut down")
	}()

	ticker := time.NewTicker(b.Think)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-b.Inbox:
			if !ok {
				return // сессию забрал другой подписчик
			}
			if !b.step() {
				return
			}
		case <-ticker.C:
			if !b.step() {
				return
			}
		}
	}
}

// step возвращает false, если инстанс остановлен.
// Одна команда на снимок: следующая только после того, как тик её обработал.
func (b *Bot) step() bool {
	state := b.Instance.Snapshot(b.Key, false)
	if state.Tick <= b.lastTick {
		return true
	}
	cmd, ok := Decide(b.Key, state, b.walkable)
	if !ok {
		return true
	}
	b.lastTick = state.Tick
	err := b.Instance.Submit(cmd)
	if errors.Is(err, domain.ErrInstanceShutdown) {
		return false
	}
	if err != nil {
		b.log.WithError(err).Debug("Command not queued")
	}
	return true
}

// WalkableCells строит множество проходимых клеток из тайлов INIT-кадра
func WalkableCells(tiles []api.TileView) map[api.PointView]bool {
	out := make(map[api.PointView]bool, len(tiles))
	for _, t := range tiles {
		if t.Walkable {
			out[api.PointView{X: t.X, Y: t.Y}] = true
		}
	}
	return out
}

// dashRange - с какой дистанции бот предпочитает рывок шагу
const dashRange = 3

// Decide выбирает следующую команду по снимку. false = ждать.
func Decide(key string, state api.ServerResponse, walkable map[api.PointView]bool) (domain.InternalCommand, bool) {
	me := findEntity(state.Entities, key)
	if me == nil || me.Stats == nil || me.Stats.IsDead || me.Motion != nil {
		return domain.InternalCommand{}, false
	}
	target, cell, dist := nearestHostile(me.Root, state.Entities)
	if target == nil {
		return domain.InternalCommand{}, false
	}

	skills := me.Skills
	if skills == nil {
		skills = &api.SkillsView{}
	}

	// 1. Цель вплотную - бьем туда, где шаблон её накрывает, или ждем перезарядку
	if dist == 1 {
		if skills.Attack == "" || me.Cooldowns[skills.Attack] > 0 {
			return domain.InternalCommand{}, false
		}
		toward := domain.Direction{X: cell.X - me.Root.X, Y: cell.Y - me.Root.Y}
		facing, ok := attackFacing(me.Root, toward, skills.AttackPattern, target.Cells)
		if !ok {
			return domain.InternalCommand{}, false
		}
		return command(domain.ActionAttack, key, api.FacingPayload{Dx: facing.X, Dy: facing.Y}), true
	}

	free := func(p api.PointView) bool {
		if !walkable[p] {
			return false
		}
		for _, e := range state.Entities {
			if e.Key == key {
				continue
			}
			for _, c := range e.Cells {
				if c == p {
					return false
				}
			}
		}
		return true
	}

	for idx, d := range stepsToward(me.Root, cell) {
		next := api.PointView{X: me.Root.X + d.X, Y: me.Root.Y + d.Y}
		if !free(next) {
			continue
		}
		// 2. Далеко по основной оси - рывок
		if idx == 0 && dist > dashRange && skills.Dodge != "" && me.Cooldowns[skills.Dodge] == 0 {
			return command(domain.ActionDash, key, api.FacingPayload{Dx: d.X, Dy: d.Y}), true
		}
		// 3. Шаг
		return command(domain.ActionMove, key, api.DirectionPayload{Dx: d.X, Dy: d.Y}), true
	}
	return domain.InternalCommand{}, false
}

// attackFacing перебирает направления (сначала toward, затем вверх, вправо,
// вниз, влево) и возвращает первое, при котором шаблон задевает цель.
// Горизонтальные повороты отражают шаблон, поэтому "лицом к цели" не всегда попадает.
func attackFacing(root api.PointView, toward domain.Direction, pattern, targetCells []api.PointView) (domain.Direction, bool) {
	rel := make([]domain.Position, 0, len(pattern))
	for _, c := range pattern {
		rel = append(rel, domain.Position{X: c.X, Y: c.Y})
	}
	hit := make(map[domain.Position]bool, len(targetCells))
	for _, c := range targetCells {
		hit[domain.Position{X: c.X, Y: c.Y}] = true
	}

	anchor := domain.Position{X: root.X, Y: root.Y}
	candidates := append([]domain.Direction{toward}, domain.DirUp, domain.DirRight, domain.DirDown, domain.DirLeft)
	for _, facing := range candidates {
		for _, c := range systems.ComputeTargetCells(anchor, facing, rel) {
			if hit[c] {
				return facing, true
			}
		}
	}
	return domain.Direction{}, false
}

func findEntity(list []api.EntityView, key string) *api.EntityView {
	for idx := range list {
		if list[idx].Key == key {
			return &list[idx]
		}
	}
	return nil
}

// nearestHostile - ближайший живой враг или босс и его ближайшая клетка (манхэттен)
func nearestHostile(from api.PointView, list []api.EntityView) (*api.EntityView, api.PointView, int) {
	var best *api.EntityView
	var bestCell api.PointView
	bestDist := -1
	for idx := range list {
		e := &list[idx]
		if e.Type != "ENEMY" && e.Type != "BOSS" {
			continue
		}
		if e.Stats == nil || e.Stats.IsDead {
			continue
		}
		for _, c := range e.Cells {
			d := abs(c.X-from.X) + abs(c.Y-from.Y)
			if bestDist < 0 || d < bestDist {
				best, bestCell, bestDist = e, c, d
			}
		}
	}
	return best, bestCell, bestDist
}

// stepsToward - единичные шаги к цели: сначала по оси с большим разрывом
func stepsToward(from, to api.PointView) []api.PointView {
	dx, dy := to.X-from.X, to.Y-from.Y
	x := api.PointView{X: sign(dx)}
	y := api.PointView{Y: sign(dy)}

	var out []api.PointView
	if abs(dx) >= abs(dy) {
		out = append(out, x, y)
	} else {
		out = append(out, y, x)
	}

	steps := out[:0]
	for _, s := range out {
		if s != (api.PointView{}) {
			steps = append(steps, s)
		}
	}
	return steps
}

func command(action domain.ActionType, key string, payload interface{}) domain.InternalCommand {
	raw, _ := json.Marshal(payload)
	return domain.InternalCommand{Action: action, Token: key, Payload: raw}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
