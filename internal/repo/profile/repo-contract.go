package profile_repo

import (
	"context"

	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
)

type ProfileRepoContract interface {
	FindByUserID(ctx context.Context, userID string) (*entity.Profile, *app_error.AppError)
	Upsert(ctx context.Context, profile *entity.Profile) (*entity.Profile, *app_error.AppError)
}
