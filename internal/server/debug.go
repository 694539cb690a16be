package server

import (
	"encoding/json"
	"gridtactics/internal/domain"
	"gridtactics/internal/engine"
	"net/http"
)

// DebugHandler предоставляет доступ к внутреннему состоянию инстанса
type DebugHandler struct {
	Instance *engine.Instance
}

func NewDebugHandler(inst *engine.Instance) *DebugHandler {
	return &DebugHandler{Instance: inst}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/cells", h.handleDumpCells)
	mux.HandleFunc("/debug/journal", h.handleJournal)
}

// /debug/entities?observer=hero - снимок сущностей глазами наблюдателя (с перезарядками)
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	snap := h.Instance.Snapshot(r.URL.Query().Get("observer"), false)
	writeDebugJSON(w, snap.Entities)
}

type cellView struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Entities []string `json:"entities"`
}

// /debug/cells - содержимое пространственного индекса: клетка -> ключи сущностей
func (h *DebugHandler) handleDumpCells(w http.ResponseWriter, r *http.Request) {
	var cells []cellView
	h.Instance.Inspect(func(world *domain.World, _ int) {
		for _, p := range world.Index.Cells() {
			view := cellView{X: p.X, Y: p.Y}
			for _, e := range world.Index.EntitiesAt(p) {
				view.Entities = append(view.Entities, e.Key)
			}
			cells = append(cells, view)
		}
	})
	writeDebugJSON(w, cells)
}

// /debug/journal - принятые команды текущей сессии
func (h *DebugHandler) handleJournal(w http.ResponseWriter, r *http.Request) {
	writeDebugJSON(w, h.Instance.Journal())
}

func writeDebugJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Пустой срез отдаем как [], а не null
	if cells, ok := data.([]cellView); ok && cells == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}
