package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/concordlabs/concord/internal/handlers"
	server_handler "github.com/concordlabs/concord/internal/handlers/server-handler"
	"github.com/concordlabs/concord/internal/middleware"
	profile_repo "github.com/concordlabs/concord/internal/repo/profile"
	"github.com/concordlabs/concord/state"
)

func ServerRouter(r chi.Router, appState *state.AppState) {
	serverHandler := server_handler.NewServerHandler(appState)
	profiles := profile_repo.NewProfileRepo(appState)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(appState.JwtSecret.Public, appState.Redis, profiles))

		protected.Post("/api/v1/servers", handlers.WrapHandler(serverHandler.CreateServer))
		protected.Patch("/api/v1/servers/{serverId}", handlers.WrapHandler(serverHandler.UpdateServer))
		protected.Delete("/api/v1/servers/{serverId}", handlers.WrapHandler(serverHandler.DeleteServer))
		protected.Patch("/api/v1/servers/{serverId}/leave", handlers.WrapHandler(serverHandler.LeaveServer))
		protected.Patch("/api/v1/servers/{serverId}/invite-code", handlers.WrapHandler(serverHandler.RegenerateInviteCode))
		protected.Post("/api/v1/invite/{inviteCode}", handlers.WrapHandler(serverHandler.JoinByInviteCode))

		protected.Post("/api/v1/channels", handlers.WrapHandler(serverHandler.CreateChannel))
		protected.Patch("/api/v1/channels/{channelId}", handlers.WrapHandler(serverHandler.UpdateChannel))
		protected.Delete("/api/v1/channels/{channelId}", handlers.WrapHandler(serverHandler.DeleteChannel))

		protected.Patch("/api/v1/members/{memberId}", handlers.WrapHandler(serverHandler.UpdateMemberRole))
		protected.Delete("/api/v1/members/{memberId}", handlers.WrapHandler(serverHandler.KickMember))

		protected.Post("/api/v1/conversations/{memberId}", handlers.WrapHandler(serverHandler.GetOrCreateConversation))
	})
}
