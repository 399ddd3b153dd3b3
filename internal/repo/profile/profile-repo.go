package profile_repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/state"
)

type ProfileRepo struct {
	AppState *state.AppState
}

func NewProfileRepo(appState *state.AppState) ProfileRepoContract {
	return &ProfileRepo{
		AppState: appState,
	}
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID string) (*entity.Profile, *app_error.AppError) {
	var profile entity.Profile
	err := r.AppState.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("profile not found", "not-found")
		}
		log.Error().Err(err).Str("userID", userID).Msg("failed to fetch profile")
		return nil, app_error.Internal("failed to fetch profile", "db-error")
	}
	return &profile, nil
}

// Upsert creates the profile on first sign-in and refreshes the
// mutable identity fields afterwards.
func (r *ProfileRepo) Upsert(ctx context.Context, profile *entity.Profile) (*entity.Profile, *app_error.AppError) {
	existing, appErr := r.FindByUserID(ctx, profile.UserID)
	if appErr == nil {
		err := r.AppState.DB.WithContext(ctx).Model(existing).
			Updates(map[string]any{
				"name":      profile.Name,
				"image_url": profile.ImageURL,
				"email":     profile.Email,
			}).Error
		if err != nil {
			return nil, app_error.Internal("failed to update profile", "db-update")
		}
		return r.FindByUserID(ctx, profile.UserID)
	}
	if appErr.Code != 404 {
		return nil, appErr
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if err := r.AppState.DB.WithContext(ctx).Create(profile).Error; err != nil {
		log.Error().Err(err).Msg("failed to create profile")
		return nil, app_error.Internal("failed to create profile", "db-create")
	}
	return profile, nil
}
