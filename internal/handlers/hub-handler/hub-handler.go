package hub_handler

import (
	"encoding/json"
	"net/http"
	"time"

	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
	"github.com/concordlabs/concord/internal/websocket"
)

type HubHandler struct {
	Hub *websocket.Hub
}

func NewHubHandler(hub *websocket.Hub) *HubHandler {
	return &HubHandler{
		Hub: hub,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "concord",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	stats := h.Hub.GetHubStats()
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get websocket stats", stats, reqID))
	return nil
}
