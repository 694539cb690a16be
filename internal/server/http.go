package server

import (
	"context"
	"encoding/json"
	"errors"
	"gridtactics/internal/engine"
	"gridtactics/internal/network"
	"gridtactics/internal/version"
	"gridtactics/pkg/logger"
	"net/http"
	"net/http/pprof"
	"time"
)

type Server struct {
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Port     string

	httpServer *http.Server
}

func New(inst *engine.Instance, hub *network.Broadcaster, port string) *Server {
	return &Server{
		Instance: inst,
		Hub:      hub,
		Port:     port,
	}
}

// Handler собирает все роуты сервера
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Instance)
	debugHandler.RegisterRoutes(mux)

	// Profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Run запускает HTTP сервер. Блокирует до Shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Log.Infof("🛡️  Grid Tactics server running on :%s", s.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown закрывает listener и ждет активные HTTP-запросы.
// Вебсокеты закрываются сами, когда хаб закрывает их каналы.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Instance, s.Hub, conn, codecFor(r.URL.Query().Get("codec")))
	go client.run()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Current())
}
