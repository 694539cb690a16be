package engine

import (
	"gridtactics/internal/domain"
	"gridtactics/pkg/api"
	"time"
)

// publish рассылает снимки всем подписчикам хаба. Вызывающий держит mu.
func (i *Instance) publish() {
	defer func() {
		i.dirty = false
		i.logs = i.logs[:0]
		for k := range i.pending {
			delete(i.pending, k)
		}
	}()

	if i.Hub == nil {
		return
	}
	changed := i.dirty || len(i.logs) > 0
	for _, key := range i.Hub.Keys() {
		full := i.pending[key]
		if !changed && !full {
			continue
		}
		i.Hub.SendTo(key, i.buildState(key, full))
	}
}

// Snapshot - снимок мира для наблюдателя (ключ сущности, может быть пустым).
// full добавляет карту клеток.
func (i *Instance) Snapshot(observer string, full bool) api.ServerResponse {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.buildState(observer, full)
}

// buildState: вызывающий держит mu (на чтение или запись)
func (i *Instance) buildState(observer string, full bool) api.ServerResponse {
	now := i.now()
	resp := api.ServerResponse{
		Type:       "UPDATE",
		Tick:       i.tick,
		TickRate:   i.cfg.TickRate,
		MyEntityID: observer,
		Entities:   make([]api.EntityView, 0),
	}

	if full {
		resp.Type = "INIT"
		resp.Grid, resp.Map = i.buildMap()
	}

	for _, e := range i.World.Entities() {
		view := entityView(e, now, i.cfg.TickDuration())
		if e.Key == observer && observer != "" {
			view.Cooldowns = i.Skills.Pending(e, now)
		}
		resp.Entities = append(resp.Entities, view)
	}

	for _, h := range i.Effects.Active() {
		resp.Effects = append(resp.Effects, api.EffectView{
			Key:       h.Key,
			At:        point(h.At),
			Seq:       h.Seq,
			ExpiresMs: h.ExpiresAt.Milliseconds(),
		})
	}

	if len(i.logs) > 0 {
		resp.Logs = append([]api.LogEntry(nil), i.logs...)
	}
	return resp
}

func (i *Instance) buildMap() (*api.GridMeta, []api.TileView) {
	bounds := i.World.Tiles.Bounds()
	meta := &api.GridMeta{
		MinX:     bounds.Min.X,
		MinY:     bounds.Min.Y,
		Width:    bounds.Max.X - bounds.Min.X + 1,
		Height:   bounds.Max.Y - bounds.Min.Y + 1,
		CellSize: i.World.Layout.CellSize,
	}

	tiles := make([]api.TileView, 0, i.World.Tiles.Len())
	bounds.Each(func(p domain.Position) {
		attrs := i.World.Tiles.Classify(p)
		if attrs.Name == "" && !attrs.Walkable && attrs.Obstacle == domain.ObstacleNone {
			return // клетка вне уровня
		}
		tiles = append(tiles, api.TileView{
			X:        p.X,
			Y:        p.Y,
			Name:     attrs.Name,
			Walkable: attrs.Walkable,
			Obstacle: lower(attrs.Obstacle),
			MoveCost: attrs.MoveCost,
		})
	})
	return meta, tiles
}

func entityView(e *domain.Entity, now time.Duration, tickDuration time.Duration) api.EntityView {
	view := api.EntityView{
		ID:     e.ID.String(),
		Key:    e.Key,
		Type:   e.Type.String(),
		Name:   e.Name,
		Root:   point(e.Root),
		Size:   api.PointView{X: e.Size.W, Y: e.Size.H},
		Facing: point(e.Facing),
		Cells:  make([]api.PointView, 0, len(e.Occupied)),
	}
	for _, c := range e.Occupied {
		view.Cells = append(view.Cells, point(c))
	}

	if e.Health != nil {
		view.Stats = &api.StatsView{HP: e.Health.HP, MaxHP: e.Health.MaxHP, IsDead: e.Health.IsDead}
	}

	if e.Skills != nil {
		view.Skills = &api.SkillsView{}
		if e.Skills.Dodge != nil {
			view.Skills.Dodge = e.Skills.Dodge.ID
		}
		if e.Skills.Attack != nil {
			view.Skills.Attack = e.Skills.Attack.ID
			for _, c := range e.Skills.Attack.Pattern {
				view.Skills.AttackPattern = append(view.Skills.AttackPattern, point(c))
			}
		}
	}

	if e.IsMoving() {
		m := e.Motion
		view.Motion = &api.MotionView{
			From:       point(m.From),
			To:         point(m.To),
			StartTick:  int(m.StartedAt / tickDuration),
			DurationMs: m.Duration.Milliseconds(),
			Progress:   m.Progress(now),
		}
	}
	return view
}

func point(p domain.Position) api.PointView {
	return api.PointView{X: p.X, Y: p.Y}
}

func lower(k domain.ObstacleKind) string {
	text, _ := k.MarshalText()
	return string(text)
}

// Inspect дает прочитать мир под блокировкой чтения (debug-эндпоинты).
// fn не должна мутировать мир и сохранять ссылки на него.
func (i *Instance) Inspect(fn func(w *domain.World, tick int)) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	fn(i.World, i.tick)
}
