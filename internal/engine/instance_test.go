package engine

import (
	"context"
	"errors"
	"gridtactics/internal/domain"
	"gridtactics/internal/network"
	"gridtactics/pkg/api"
	"gridtactics/pkg/logger"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestMove_CommitsBeforeInterpolation(t *testing.T) {
	inst := newTestInstance(t)
	hero := mustEntity(t, inst, "hero")
	from := hero.Root

	if _, err := inst.Execute(command(domain.ActionMove, "hero", api.DirectionPayload{Dx: 1})); err != nil {
		t.Fatalf("MOVE: %v", err)
	}

	to := domain.Position{X: 2, Y: 1}
	if hero.Root != to {
		t.Fatalf("Root = %v, want %v", hero.Root, to)
	}
	// Индекс уже указывает на новую клетку, хотя движение еще идет
	if inst.World.Index.Contains(from, hero) || !inst.World.Index.Contains(to, hero) {
		t.Error("index not updated synchronously")
	}
	if !hero.IsMoving() || hero.Motion.From != from {
		t.Errorf("motion = %+v", hero.Motion)
	}

	inst.SimulateUntil(1) // 100ms из 200ms
	if !hero.IsMoving() {
		t.Error("motion finished too early")
	}
	inst.SimulateUntil(2)
	if hero.IsMoving() {
		t.Error("motion should be finished after 200ms")
	}
}

func TestMove_LatestWins(t *testing.T) {
	inst := newTestInstance(t)
	hero := mustEntity(t, inst, "hero")

	_, _ = inst.Execute(command(domain.ActionMove, "hero", api.DirectionPayload{Dx: 1}))
	if _, err := inst.Execute(command(domain.ActionMove, "hero", api.DirectionPayload{Dy: 1})); err != nil {
		t.Fatalf("second MOVE: %v", err)
	}

	want := domain.Position{X: 2, Y: 2}
	if hero.Root != want {
		t.Fatalf("Root = %v, want %v", hero.Root, want)
	}
	if hero.Motion.Seq != 2 || hero.Motion.From != (domain.Position{X: 2, Y: 1}) {
		t.Errorf("motion = %+v", hero.Motion)
	}
	for _, p := range []domain.Position{{X: 1, Y: 1}, {X: 2, Y: 1}} {
		if inst.World.Index.Contains(p, hero) {
			t.Errorf("stale registration at %v", p)
		}
	}
}

func TestMove_Blocked(t *testing.T) {
	inst := newTestInstance(t)
	hero := mustEntity(t, inst, "hero")

	res, err := inst.Execute(command(domain.ActionMove, "hero", api.DirectionPayload{Dy: -1}))
	if err != nil {
		t.Fatalf("blocked move must not be an error: %v", err)
	}
	if res.MsgType != "ERROR" {
		t.Errorf("expected an ERROR log, got %+v", res)
	}
	if hero.Root != (domain.Position{X: 1, Y: 1}) || hero.IsMoving() {
		t.Error("hero moved into a wall")
	}
	if hero.Facing != domain.DirDown {
		t.Errorf("Facing = %v, want down", hero.Facing)
	}
}

func TestDash(t *testing.T) {
	t.Run("stops before enemy and starts cooldown", func(t *testing.T) {
		inst := newTestInstance(t)
		hero := mustEntity(t, inst, "hero")

		if _, err := inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: 1})); err != nil {
			t.Fatalf("DASH: %v", err)
		}
		if hero.Root != (domain.Position{X: 3, Y: 1}) {
			t.Fatalf("Root = %v, want (3,1)", hero.Root)
		}
		if hero.Motion.Duration != 200*time.Millisecond {
			t.Errorf("Duration = %v, want 200ms", hero.Motion.Duration)
		}

		_, err := inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: -1}))
		if !errors.Is(err, domain.ErrOnCooldown) {
			t.Fatalf("second DASH: err = %v, want ErrOnCooldown", err)
		}

		inst.SimulateUntil(10) // 1s
		if _, err := inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: -1})); err != nil {
			t.Fatalf("DASH after cooldown: %v", err)
		}
		if hero.Root != (domain.Position{X: 1, Y: 1}) {
			t.Errorf("Root = %v, want (1,1)", hero.Root)
		}
	})

	t.Run("wall stops the dash", func(t *testing.T) {
		inst := newTestInstance(t)
		hero := mustEntity(t, inst, "hero")

		_, _ = inst.Execute(command(domain.ActionMove, "hero", api.DirectionPayload{Dy: 1}))
		// Рывок во время шага отменяет интерполяцию шага
		if _, err := inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: 1})); err != nil {
			t.Fatalf("DASH: %v", err)
		}
		if hero.Root != (domain.Position{X: 2, Y: 2}) {
			t.Errorf("Root = %v, want (2,2)", hero.Root)
		}
		if hero.Motion.Seq != 2 {
			t.Errorf("Seq = %d, want 2", hero.Motion.Seq)
		}
	})

	t.Run("no movement keeps cooldown", func(t *testing.T) {
		inst := newTestInstance(t)
		hero := mustEntity(t, inst, "hero")

		res, err := inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dy: -1}))
		if err != nil {
			t.Fatalf("DASH into wall: %v", err)
		}
		if res.Msg == "" || hero.Root != (domain.Position{X: 1, Y: 1}) {
			t.Errorf("unexpected result %+v at %v", res, hero.Root)
		}
		if _, err := inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: 1})); err != nil {
			t.Errorf("cooldown was consumed by a failed dash: %v", err)
		}
	})

	t.Run("missing skill", func(t *testing.T) {
		inst := newTestInstance(t)
		_, err := inst.Execute(command(domain.ActionDash, "rookie", nil))
		if !errors.Is(err, domain.ErrMissingSkill) {
			t.Errorf("err = %v, want ErrMissingSkill", err)
		}
	})
}

func TestAttack(t *testing.T) {
	inst := newTestInstance(t)
	hero := mustEntity(t, inst, "hero")

	_, _ = inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: 1}))

	_, err := inst.Execute(command(domain.ActionAttack, "hero", nil))
	if !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("attack while moving: err = %v, want ErrBusy", err)
	}

	inst.SimulateUntil(2)
	res, err := inst.Execute(command(domain.ActionAttack, "hero", nil))
	if err != nil {
		t.Fatalf("ATTACK: %v", err)
	}
	if res.MsgType != "COMBAT" {
		t.Errorf("MsgType = %q", res.MsgType)
	}

	goblinCell := domain.Position{X: 4, Y: 1}
	if inst.World.GetByKey("goblin") != nil || inst.World.Index.IsOccupied(goblinCell) {
		t.Error("goblin must be removed from the world")
	}

	active := inst.Effects.Active()
	if len(active) != 1 || active[0].At != goblinCell || active[0].Key != "slash" {
		t.Fatalf("effects = %+v", active)
	}

	if _, err := inst.Execute(command(domain.ActionAttack, "hero", nil)); !errors.Is(err, domain.ErrOnCooldown) {
		t.Errorf("second attack: err = %v, want ErrOnCooldown", err)
	}

	inst.SimulateUntil(5) // 200ms + 300ms
	if len(inst.Effects.Active()) != 0 {
		t.Error("effect should expire after 300ms")
	}
	if hero.Health.HP != 100 {
		t.Error("attacker was damaged")
	}
}

func TestExecute_Permissions(t *testing.T) {
	inst := newTestInstance(t)

	tests := []struct {
		name  string
		cmd   domain.InternalCommand
		want  error
		plain bool // ошибка без sentinel (валидация payload)
	}{
		{"enemy", command(domain.ActionMove, "goblin", api.DirectionPayload{Dx: 1}), domain.ErrNotControllable, false},
		{"npc", command(domain.ActionWait, "keeper", nil), domain.ErrNotControllable, false},
		{"unknown", command(domain.ActionWait, "ghost", nil), domain.ErrEntityNotFound, false},
		{"diagonal", command(domain.ActionMove, "hero", api.DirectionPayload{Dx: 1, Dy: 1}), nil, true},
		{"no attack skill", command(domain.ActionAttack, "rookie", nil), domain.ErrMissingSkill, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inst.Execute(tt.cmd)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.plain && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if n := len(inst.Journal().Actions); n != 0 {
		t.Errorf("rejected commands were journaled: %d", n)
	}
}

func TestSubmitStep_Journal(t *testing.T) {
	inst := newTestInstance(t)

	if err := inst.Submit(command(domain.ActionMove, "hero", api.DirectionPayload{Dx: 1})); err != nil {
		t.Fatal(err)
	}
	if err := inst.Submit(command(domain.ActionMove, "goblin", api.DirectionPayload{Dx: 1})); err != nil {
		t.Fatal(err)
	}
	inst.Step()

	if inst.Tick() != 1 {
		t.Errorf("Tick = %d, want 1", inst.Tick())
	}
	journal := inst.Journal()
	if len(journal.Actions) != 1 {
		t.Fatalf("journal = %+v, want only the accepted command", journal.Actions)
	}
	if a := journal.Actions[0]; a.Tick != 1 || a.Token != "hero" || a.Action != domain.ActionMove {
		t.Errorf("journal entry = %+v", a)
	}
	if journal.Level != "arena" || journal.TickRate != 10 {
		t.Errorf("journal header = %+v", journal)
	}
}

func TestShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.JournalDir = t.TempDir()
	inst, err := NewInstance(cfg, arenaFile(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = inst.Execute(command(domain.ActionWait, "hero", nil))

	path, err := inst.Shutdown()
	if err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("journal file missing: %v", err)
	}

	if err := inst.Submit(command(domain.ActionWait, "hero", nil)); !errors.Is(err, domain.ErrInstanceShutdown) {
		t.Errorf("Submit after shutdown: err = %v", err)
	}
	if path, err := inst.Shutdown(); path != "" || err != nil {
		t.Errorf("second Shutdown = %q, %v", path, err)
	}
}

func TestRun_ProcessesQueue(t *testing.T) {
	inst := newTestInstance(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		inst.Run(ctx)
		close(done)
	}()

	if err := inst.Submit(command(domain.ActionMove, "hero", api.DirectionPayload{Dx: 1})); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for len(inst.Journal().Actions) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("command was not processed by the loop")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	<-done

	if root := mustEntity(t, inst, "hero").Root; root != (domain.Position{X: 2, Y: 1}) {
		t.Errorf("Root = %v", root)
	}
}

func TestJoin(t *testing.T) {
	inst := newTestInstance(t)

	steps := []struct {
		token   string
		wantKey string
		wantErr error
	}{
		{"", "hero", nil},
		{"hero", "", ErrSessionTaken},
		{"unknown-token", "rookie", nil},
		{"", "", domain.ErrEntityNotFound},
		{"goblin", "", domain.ErrNotControllable},
	}
	for _, s := range steps {
		key, err := inst.Join(s.token)
		if key != s.wantKey || !errors.Is(err, s.wantErr) {
			t.Errorf("Join(%q) = %q, %v; want %q, %v", s.token, key, err, s.wantKey, s.wantErr)
		}
	}

	inst.Leave("hero")
	if key, err := inst.Join("hero"); key != "hero" || err != nil {
		t.Errorf("rejoin = %q, %v", key, err)
	}
}

func TestPublish(t *testing.T) {
	hub := network.NewBroadcaster()
	inst, err := NewInstance(testConfig(), arenaFile(t), hub)
	if err != nil {
		t.Fatal(err)
	}
	ch := hub.Register("hero")

	_ = inst.Submit(command(domain.ActionInit, "hero", nil))
	inst.Step()

	select {
	case msg := <-ch:
		if msg.Type != "INIT" || msg.MyEntityID != "hero" || msg.Grid == nil {
			t.Fatalf("unexpected INIT frame: %+v", msg)
		}
		if msg.Grid.Width != 8 || msg.Grid.Height != 5 || len(msg.Map) != 40 {
			t.Errorf("grid = %+v, tiles = %d", msg.Grid, len(msg.Map))
		}
		if len(msg.Entities) != 4 || len(msg.Logs) != 1 {
			t.Errorf("entities = %d, logs = %d", len(msg.Entities), len(msg.Logs))
		}
	default:
		t.Fatal("no INIT frame published")
	}

	// Ничего не изменилось - кадров нет
	inst.Step()
	select {
	case msg := <-ch:
		t.Errorf("unexpected frame %+v", msg)
	default:
	}

	_ = inst.Submit(command(domain.ActionMove, "hero", api.DirectionPayload{Dx: 1}))
	inst.Step()
	select {
	case msg := <-ch:
		if msg.Type != "UPDATE" || msg.Map != nil {
			t.Errorf("unexpected UPDATE frame: %+v", msg)
		}
		var hero *api.EntityView
		for idx := range msg.Entities {
			if msg.Entities[idx].Key == "hero" {
				hero = &msg.Entities[idx]
			}
		}
		if hero == nil || hero.Motion == nil || hero.Motion.StartTick != 3 || hero.Motion.DurationMs != 200 {
			t.Errorf("hero view = %+v", hero)
		}
	default:
		t.Fatal("no UPDATE frame after move")
	}
}

func TestStep_CommandsSeeFinishedMotion(t *testing.T) {
	inst := newTestInstance(t)

	_, _ = inst.Execute(command(domain.ActionDash, "hero", api.FacingPayload{Dx: 1}))
	inst.Step() // 100ms, рывок еще идет

	// Рывок заканчивается на тике 2, атака из очереди этого тика уже не "на ходу"
	if err := inst.Submit(command(domain.ActionAttack, "hero", nil)); err != nil {
		t.Fatal(err)
	}
	inst.Step()

	if inst.World.GetByKey("goblin") != nil {
		t.Fatal("attack queued for the arrival tick was rejected")
	}
	journal := inst.Journal()
	if n := len(journal.Actions); n != 2 || journal.Actions[1].Tick != 2 {
		t.Errorf("journal = %+v", journal.Actions)
	}
}

func TestInstanceLog_LevelField(t *testing.T) {
	hook := test.NewLocal(logger.Log)
	defer logger.Log.ReplaceHooks(make(logrus.LevelHooks))

	inst := newTestInstance(t)
	if _, err := inst.Shutdown(); err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Data["component"] != "instance" {
			continue
		}
		found = true
		if _, clash := entry.Data["level"]; clash {
			t.Errorf("entry %q uses the reserved logrus key \"level\"", entry.Message)
		}
		if entry.Data["level_name"] != "arena" {
			t.Errorf("entry %q: level_name = %v", entry.Message, entry.Data["level_name"])
		}
	}
	if !found {
		t.Fatal("no instance log entries captured")
	}
}
