package server_repo

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

type ServerRepo struct {
	AppState *state.AppState
}

func NewServerRepo(appState *state.AppState) ServerRepoContract {
	return &ServerRepo{
		AppState: appState,
	}
}

// CreateServer persists the server together with its seed channel and
// owner membership in one transaction.
func (r *ServerRepo) CreateServer(ctx context.Context, srv *entity.Server) *app_error.AppError {
	tx := r.AppState.DB.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if srv.ID == "" {
		srv.ID = uuid.New().String()
	}

	if err := tx.Create(srv).Error; err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("failed to create server")
		return app_error.Internal("failed to create server", "db-create")
	}

	general := &entity.Channel{
		ID:        uuid.New().String(),
		Name:      "general",
		Type:      entity.ChannelText,
		ProfileID: srv.ProfileID,
		ServerID:  srv.ID,
	}
	if err := tx.Create(general).Error; err != nil {
		tx.Rollback()
		return app_error.Internal("failed to create default channel", "db-create")
	}

	owner := &entity.Member{
		ID:        uuid.New().String(),
		Role:      entity.RoleAdmin,
		ProfileID: srv.ProfileID,
		ServerID:  srv.ID,
	}
	if err := tx.Create(owner).Error; err != nil {
		tx.Rollback()
		return app_error.Internal("failed to create owner membership", "db-create")
	}

	if err := tx.Commit().Error; err != nil {
		return app_error.Internal("failed to commit server creation", "db-commit")
	}
	return nil
}

// FindServerWithMember returns the server only when the profile is a
// member of it, along with that membership.
func (r *ServerRepo) FindServerWithMember(ctx context.Context, serverID, profileID string) (*entity.Server, *entity.Member, *app_error.AppError) {
	var srv entity.Server
	err := r.AppState.DB.WithContext(ctx).
		Preload("Members.Profile").
		Where("id = ?", serverID).
		First(&srv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, app_error.NotFound("server not found", "not-found")
		}
		log.Error().Err(err).Str("serverID", serverID).Msg("failed to fetch server")
		return nil, nil, app_error.Internal("failed to fetch server", "db-error")
	}

	for i := range srv.Members {
		if srv.Members[i].ProfileID == profileID {
			return &srv, &srv.Members[i], nil
		}
	}
	return nil, nil, app_error.NotFound("server not found", "not-found")
}

func (r *ServerRepo) FindServerByInviteCode(ctx context.Context, inviteCode string) (*entity.Server, *app_error.AppError) {
	var srv entity.Server
	err := r.AppState.DB.WithContext(ctx).
		Preload("Members").
		Where("invite_code = ?", inviteCode).
		First(&srv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("invite not found", "not-found")
		}
		return nil, app_error.Internal("failed to fetch invite", "db-error")
	}
	return &srv, nil
}

func (r *ServerRepo) UpdateServer(ctx context.Context, serverID, name, imageURL string) (*entity.Server, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Server{}).
		Where("id = ?", serverID).
		Updates(map[string]any{"name": name, "image_url": imageURL}).Error
	if err != nil {
		log.Error().Err(err).Str("serverID", serverID).Msg("failed to update server")
		return nil, app_error.Internal("failed to update server", "db-update")
	}
	return r.reloadServer(ctx, serverID)
}

func (r *ServerRepo) UpdateInviteCode(ctx context.Context, serverID, inviteCode string) (*entity.Server, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Server{}).
		Where("id = ?", serverID).
		Update("invite_code", inviteCode).Error
	if err != nil {
		return nil, app_error.Internal("failed to update invite code", "db-update")
	}
	return r.reloadServer(ctx, serverID)
}

func (r *ServerRepo) reloadServer(ctx context.Context, serverID string) (*entity.Server, *app_error.AppError) {
	var srv entity.Server
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", serverID).First(&srv).Error; err != nil {
		return nil, app_error.Internal("failed to reload server", "db-error")
	}
	return &srv, nil
}

func (r *ServerRepo) DeleteServer(ctx context.Context, serverID string) *app_error.AppError {
	tx := r.AppState.DB.WithContext(ctx).Begin()
	if err := tx.Where("server_id = ?", serverID).Delete(&entity.Channel{}).Error; err != nil {
		tx.Rollback()
		return app_error.Internal("failed to delete server channels", "db-delete")
	}
	if err := tx.Where("server_id = ?", serverID).Delete(&entity.Member{}).Error; err != nil {
		tx.Rollback()
		return app_error.Internal("failed to delete server members", "db-delete")
	}
	if err := tx.Where("id = ?", serverID).Delete(&entity.Server{}).Error; err != nil {
		tx.Rollback()
		return app_error.Internal("failed to delete server", "db-delete")
	}
	if err := tx.Commit().Error; err != nil {
		return app_error.Internal("failed to commit server deletion", "db-commit")
	}
	return nil
}

func (r *ServerRepo) AddMember(ctx context.Context, member *entity.Member) *app_error.AppError {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if err := r.AppState.DB.WithContext(ctx).Create(member).Error; err != nil {
		log.Error().Err(err).Str("serverID", member.ServerID).Msg("failed to add member")
		return app_error.Internal("failed to add member", "db-create")
	}
	return nil
}

func (r *ServerRepo) FindMemberByID(ctx context.Context, memberID, serverID string) (*entity.Member, *app_error.AppError) {
	var member entity.Member
	err := r.AppState.DB.WithContext(ctx).
		Preload("Profile").
		Where("id = ? AND server_id = ?", memberID, serverID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("member not found", "not-found")
		}
		return nil, app_error.Internal("failed to fetch member", "db-error")
	}
	return &member, nil
}

func (r *ServerRepo) UpdateMemberRole(ctx context.Context, memberID string, role entity.MemberRole) (*entity.Member, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Member{}).
		Where("id = ?", memberID).
		Update("role", role).Error
	if err != nil {
		return nil, app_error.Internal("failed to update member role", "db-update")
	}

	var member entity.Member
	if err := r.AppState.DB.WithContext(ctx).Preload("Profile").Where("id = ?", memberID).First(&member).Error; err != nil {
		return nil, app_error.Internal("failed to reload member", "db-error")
	}
	return &member, nil
}

func (r *ServerRepo) RemoveMember(ctx context.Context, memberID string) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", memberID).Delete(&entity.Member{}).Error; err != nil {
		return app_error.Internal("failed to remove member", "db-delete")
	}
	return nil
}

func (r *ServerRepo) CreateChannel(ctx context.Context, channel *entity.Channel) *app_error.AppError {
	if channel.ID == "" {
		channel.ID = uuid.New().String()
	}
	if err := r.AppState.DB.WithContext(ctx).Create(channel).Error; err != nil {
		log.Error().Err(err).Str("serverID", channel.ServerID).Msg("failed to create channel")
		return app_error.Internal("failed to create channel", "db-create")
	}
	return nil
}

func (r *ServerRepo) FindChannel(ctx context.Context, channelID, serverID string) (*entity.Channel, *app_error.AppError) {
	var channel entity.Channel
	err := r.AppState.DB.WithContext(ctx).
		Where("id = ? AND server_id = ?", channelID, serverID).
		First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("channel not found", "not-found")
		}
		log.Error().Err(err).Str("channelID", channelID).Msg("failed to fetch channel")
		return nil, app_error.Internal("failed to fetch channel", "db-error")
	}
	return &channel, nil
}

func (r *ServerRepo) UpdateChannel(ctx context.Context, channelID, name string, channelType entity.ChannelType) (*entity.Channel, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Channel{}).
		Where("id = ?", channelID).
		Updates(map[string]any{"name": name, "type": channelType}).Error
	if err != nil {
		return nil, app_error.Internal("failed to update channel", "db-update")
	}

	var channel entity.Channel
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", channelID).First(&channel).Error; err != nil {
		return nil, app_error.Internal("failed to reload channel", "db-error")
	}
	return &channel, nil
}

func (r *ServerRepo) DeleteChannel(ctx context.Context, channelID string) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", channelID).Delete(&entity.Channel{}).Error; err != nil {
		return app_error.Internal("failed to delete channel", "db-delete")
	}
	return nil
}
