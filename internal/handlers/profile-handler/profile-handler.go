package profile_handler

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/concordlabs/concord/internal/dtos/profile_dto"
	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/handlers"
	"github.com/concordlabs/concord/internal/middleware"
	profile_repo "github.com/concordlabs/concord/internal/repo/profile"
	"github.com/concordlabs/concord/internal/utils"
	"github.com/concordlabs/concord/state"
)

type ProfileHandler struct {
	State     *state.AppState
	Validate  *validator.Validate
	PublicKey *rsa.PublicKey
	Profiles  profile_repo.ProfileRepoContract
}

func NewProfileHandler(appState *state.AppState) *ProfileHandler {
	return &ProfileHandler{
		State:     appState,
		Validate:  validator.New(),
		PublicKey: appState.JwtSecret.Public,
		Profiles:  profile_repo.NewProfileRepo(appState),
	}
}

// Bootstrap verifies the bearer token directly instead of going
// through JWTAuth, because the profile it resolves to may not exist
// yet. First call creates the row, later calls refresh it.
func (h *ProfileHandler) Bootstrap(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	defer r.Body.Close()

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return app_error.Unauthorized("Missing Authorization header", "auth")
	}

	claims, err := utils.ParseAndVerifySign(strings.TrimPrefix(authHeader, "Bearer "), h.PublicKey)
	if err != nil {
		return app_error.Unauthorized("Invalid token", "auth")
	}

	var req profile_dto.BootstrapProfileRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil && decodeErr != io.EOF {
		return app_error.Validation("Invalid JSON", "body")
	}
	if validateErr := h.Validate.Struct(req); validateErr != nil {
		return app_error.Validation(fmt.Sprintf("Invalid fields: %v", validateErr), "validation")
	}

	name := req.Name
	if name == "" {
		name = claims.Name
	}

	profile, appErr := h.Profiles.Upsert(r.Context(), &entity.Profile{
		UserID:   claims.Sub,
		Name:     name,
		ImageURL: req.ImageURL,
		Email:    req.Email,
	})
	if appErr != nil {
		return appErr
	}

	utils.DeleteCacheData(r.Context(), h.State.Redis, "profile:"+claims.Sub)

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("profile synced", profile_dto.FromProfile(profile), reqID))
	return nil
}

func (h *ProfileHandler) GetCurrent(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		return app_error.Unauthorized("profile is not found in context", "context")
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("current profile", profile_dto.FromProfile(profile), reqID))
	return nil
}
