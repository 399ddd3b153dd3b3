package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/concordlabs/concord/internal/handlers"
	profile_handler "github.com/concordlabs/concord/internal/handlers/profile-handler"
	"github.com/concordlabs/concord/internal/middleware"
	profile_repo "github.com/concordlabs/concord/internal/repo/profile"
	"github.com/concordlabs/concord/state"
)

func ProfileRouter(r chi.Router, appState *state.AppState) {
	profileHandler := profile_handler.NewProfileHandler(appState)

	// bootstrap runs before the profile exists, so no JWTAuth here
	r.Post("/api/v1/profile", handlers.WrapHandler(profileHandler.Bootstrap))

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(appState.JwtSecret.Public, appState.Redis, profile_repo.NewProfileRepo(appState)))
		protected.Get("/api/v1/profile", handlers.WrapHandler(profileHandler.GetCurrent))
	})
}
