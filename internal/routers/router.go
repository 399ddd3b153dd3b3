package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/concordlabs/concord/config"
	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
	"github.com/concordlabs/concord/internal/websocket"
	"github.com/concordlabs/concord/state"
)

func NewRouter(appState *state.AppState, b broker.Broker, wsHub *websocket.Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	ProfileRouter(r, appState)
	ChatRouter(r, appState, b)
	ServerRouter(r, appState)
	HubRouter(r, wsHub)

	r.Handle("/metrics", promhttp.Handler())

	wsHandler := websocket.NewWebSocketHandler(wsHub, websocket.JWTWebSocketAuth(appState.JwtSecret.Public))
	r.Get(config.Conf.SOCKET.Path, wsHandler.HandleWS)

	return r
}
