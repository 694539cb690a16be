package main

import (
	"context"
	"flag"
	"gridtactics/internal/agent"
	"gridtactics/internal/engine"
	"gridtactics/internal/infrastructure/storage"
	"gridtactics/internal/network"
	"gridtactics/internal/server"
	"gridtactics/internal/version"
	"gridtactics/pkg/level"
	"gridtactics/pkg/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configPath, levelPath, replayPath, botKey string
	var tickRate int
	flag.StringVar(&configPath, "config", "", "Path to YAML config (defaults are used if empty)")
	flag.StringVar(&levelPath, "level", "", "Path to level YAML (overrides config, builtin level if empty)")
	flag.IntVar(&tickRate, "tick", 0, "Simulation ticks per second (overrides config)")
	flag.StringVar(&replayPath, "replay", "", "Path to .gtj journal to replay instead of serving")
	flag.StringVar(&botKey, "bot", "", "Entity key for a sparring bot (\"auto\" picks a free player)")
	flag.Parse()

	logger.Log.Info("Starting Grid Tactics...")
	logger.Log.Info(version.Current().String())

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	if levelPath != "" {
		cfg.LevelPath = levelPath
	}
	if tickRate > 0 {
		cfg.TickRate = tickRate
	}
	if port := os.Getenv("GT_PORT"); port != "" {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("Invalid config")
	}

	file, err := level.Load(cfg.LevelPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load level")
	}

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay Simulation")
		runReplay(cfg, file, replayPath)
		return
	}

	// 2. Инициализация инстанса уровня
	hub := network.NewBroadcaster()
	inst, err := engine.NewInstance(cfg, file, hub)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to build level instance")
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		inst.Run(ctx)
		close(loopDone)
	}()

	if botKey != "" {
		if botKey == "auto" {
			botKey = ""
		}
		bot, err := agent.NewBot(inst, hub, botKey)
		if err != nil {
			logger.Log.WithError(err).Warn("Sparring bot not started")
		} else {
			go bot.Run(ctx)
		}
	}

	// 3. Запуск сервера
	srv := server.New(inst, hub, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	<-loopDone

	// Сохраняем журнал команд
	path, err := inst.Shutdown()
	switch {
	case err != nil:
		logger.Log.WithError(err).Error("Failed to save journal")
	case path != "":
		logger.Log.WithField("path", path).Info("Journal saved")
	}

	logger.Log.Info("Done.")
}

// runReplay переигрывает журнал и печатает итоговое состояние сущностей
func runReplay(cfg engine.Config, file *level.File, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open journal")
	}
	defer f.Close()

	session, err := storage.ReadJournal(f)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to read journal")
	}

	inst, err := engine.Replay(cfg, file, session)
	if err != nil {
		logger.Log.WithError(err).Fatal("Replay failed")
	}

	snap := inst.Snapshot("", false)
	for _, e := range snap.Entities {
		fields := logrus.Fields{
			"key":  e.Key,
			"type": e.Type,
			"x":    e.Root.X,
			"y":    e.Root.Y,
		}
		if e.Stats != nil {
			fields["hp"] = e.Stats.HP
		}
		logger.Log.WithFields(fields).Info("Final state")
	}
	logger.Log.WithFields(logrus.Fields{
		"tick":    snap.Tick,
		"actions": len(session.Actions),
	}).Info("Replay finished")
}
