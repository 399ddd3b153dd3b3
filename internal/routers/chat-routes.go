package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/handlers"
	message_handler "github.com/concordlabs/concord/internal/handlers/message-handler"
	"github.com/concordlabs/concord/internal/middleware"
	profile_repo "github.com/concordlabs/concord/internal/repo/profile"
	"github.com/concordlabs/concord/state"
)

func ChatRouter(r chi.Router, appState *state.AppState, b broker.Broker) {
	messageHandler := message_handler.NewMessageHandler(appState, b)
	profiles := profile_repo.NewProfileRepo(appState)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(appState.JwtSecret.Public, appState.Redis, profiles))

		// reads; channelId/conversationId carried as query params
		protected.Get("/api/v1/messages", handlers.WrapHandler(messageHandler.ListChannelMessages))
		protected.Get("/api/v1/direct-messages", handlers.WrapHandler(messageHandler.ListDirectMessages))

		// mutations, published to the socket topics after commit
		protected.Post("/api/v1/socket/messages", handlers.WrapHandler(messageHandler.CreateChannelMessage))
		protected.Patch("/api/v1/socket/messages/{messageId}", handlers.WrapHandler(messageHandler.UpdateChannelMessage))
		protected.Delete("/api/v1/socket/messages/{messageId}", handlers.WrapHandler(messageHandler.DeleteChannelMessage))

		protected.Post("/api/v1/socket/direct-messages", handlers.WrapHandler(messageHandler.CreateDirectMessage))
		protected.Patch("/api/v1/socket/direct-messages/{directMessageId}", handlers.WrapHandler(messageHandler.UpdateDirectMessage))
		protected.Delete("/api/v1/socket/direct-messages/{directMessageId}", handlers.WrapHandler(messageHandler.DeleteDirectMessage))
	})
}
