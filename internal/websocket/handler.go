package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/broker"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

type AuthenticatorFunc func(r *http.Request) (userID string, err error)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

type WebSocketHandler struct {
	Hub           *Hub
	authenticator AuthenticatorFunc
}

func NewWebSocketHandler(hub *Hub, auth AuthenticatorFunc) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:           hub,
		authenticator: auth,
	}
}

// HandleWS upgrades the handshake and attaches the client to the add
// and update topics of the scope named in the query string.
func (h *WebSocketHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := h.authenticator(r)
	if err != nil {
		log.Warn().Err(err).Msg("ws: handshake rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	scopeID := r.URL.Query().Get("channelId")
	if scopeID == "" {
		scopeID = r.URL.Query().Get("conversationId")
	}
	if scopeID == "" {
		http.Error(w, "scope id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	topics := []string{
		broker.AddTopic(scopeID),
		broker.UpdateTopic(scopeID),
	}

	client := NewClient(uuid.New().String(), userID, topics, conn)
	h.Hub.Register(client)
}
