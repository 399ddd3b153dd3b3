package middleware

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
	profile_repo "github.com/concordlabs/concord/internal/repo/profile"
	"github.com/concordlabs/concord/internal/utils"
)

type profileKey string

const ProfileKey profileKey = "profile"

const profileCacheTTL = 5 * time.Minute

// JWTAuth verifies the bearer token and resolves its subject to a
// local profile, cached in Redis. The resolved *entity.Profile is
// placed in the request context.
func JWTAuth(publicKey *rsa.PublicKey, rdb *redis.Client, profiles profile_repo.ProfileRepoContract) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAppError(w, app_error.Unauthorized("Missing Authorization header", "auth"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeAppError(w, app_error.Unauthorized("Invalid Authorization header format", "auth"))
				return
			}

			tokenStr := parts[1]

			claims, err := utils.ParseAndVerifySign(tokenStr, publicKey)
			if err != nil {
				log.Error().Err(err).Msg("jwt verify failed")
				writeAppError(w, app_error.Unauthorized("Invalid or expired token", "auth"))
				return
			}

			profile, appErr := resolveProfile(r.Context(), rdb, profiles, claims.Sub)
			if appErr != nil {
				writeAppError(w, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), ProfileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveProfile(ctx context.Context, rdb *redis.Client, profiles profile_repo.ProfileRepoContract, userID string) (*entity.Profile, *app_error.AppError) {
	cacheKey := "profile:" + userID

	cached, cacheErr := utils.GetCacheData[entity.Profile](ctx, rdb, cacheKey)
	if cacheErr == nil && cached != nil {
		return cached, nil
	}

	profile, err := profiles.FindByUserID(ctx, userID)
	if err != nil {
		if err.Code == http.StatusNotFound {
			return nil, app_error.Unauthorized("no profile for token subject", "auth")
		}
		return nil, err
	}

	if setErr := utils.SetCacheData(ctx, rdb, cacheKey, profile, profileCacheTTL); setErr != nil {
		log.Warn().Err(setErr).Str("userID", userID).Msg("failed to cache profile")
	}
	return profile, nil
}

// ProfileFromContext is the handler-side accessor for the resolved
// identity.
func ProfileFromContext(ctx context.Context) (*entity.Profile, bool) {
	profile, ok := ctx.Value(ProfileKey).(*entity.Profile)
	return profile, ok && profile != nil
}

func writeAppError(w http.ResponseWriter, appErr *app_error.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Code)
	_ = appErr.JSON(w)
}
