package chat_repo

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/state"
)

type ChatRepo struct {
	AppState *state.AppState
}

func NewChatRepo(appState *state.AppState) ChatRepoContract {
	return &ChatRepo{
		AppState: appState,
	}
}

func (r *ChatRepo) CreateMessage(ctx context.Context, msg *entity.Message) *app_error.AppError {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if err := r.AppState.DB.WithContext(ctx).Create(msg).Error; err != nil {
		log.Error().Err(err).Str("channelID", msg.ChannelID).Msg("failed to create message")
		return app_error.Internal("failed to create message", "db-create")
	}
	return nil
}

func (r *ChatRepo) FindMessageByID(ctx context.Context, channelID, messageID string) (*entity.Message, *app_error.AppError) {
	var msg entity.Message
	err := r.AppState.DB.WithContext(ctx).
		Preload("Member.Profile").
		Where("id = ? AND channel_id = ?", messageID, channelID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("message not found", "not-found")
		}
		log.Error().Err(err).Str("messageID", messageID).Msg("failed to fetch message")
		return nil, app_error.Internal("failed to fetch message", "db-error")
	}
	return &msg, nil
}

// UpdateMessageContent is last-write-wins: concurrent edits race at
// the storage layer with no version check.
func (r *ChatRepo) UpdateMessageContent(ctx context.Context, messageID, content string) (*entity.Message, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]any{
			"content":    content,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		log.Error().Err(err).Str("messageID", messageID).Msg("failed to update message")
		return nil, app_error.Internal("failed to update message", "db-update")
	}
	return r.reloadMessage(ctx, messageID)
}

func (r *ChatRepo) SoftDeleteMessage(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]any{
			"content":    entity.DeletedContent,
			"file_url":   nil,
			"deleted":    true,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		log.Error().Err(err).Str("messageID", messageID).Msg("failed to soft-delete message")
		return nil, app_error.Internal("failed to delete message", "db-update")
	}
	return r.reloadMessage(ctx, messageID)
}

func (r *ChatRepo) reloadMessage(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	var msg entity.Message
	err := r.AppState.DB.WithContext(ctx).
		Preload("Member.Profile").
		Where("id = ?", messageID).
		First(&msg).Error
	if err != nil {
		return nil, app_error.Internal("failed to reload message", "db-error")
	}
	return &msg, nil
}

// ListMessages pages oldest-ward from the cursor message, newest
// first. The cursor row itself is excluded.
func (r *ChatRepo) ListMessages(ctx context.Context, channelID string, cursor *string, limit int) ([]entity.Message, *app_error.AppError) {
	query := r.AppState.DB.WithContext(ctx).
		Preload("Member.Profile").
		Where("channel_id = ?", channelID)

	if cursor != nil && *cursor != "" {
		var pivot entity.Message
		if err := r.AppState.DB.WithContext(ctx).Select("id", "created_at").Where("id = ?", *cursor).First(&pivot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, app_error.Validation("invalid cursor", "cursor")
			}
			return nil, app_error.Internal("failed to resolve cursor", "db-error")
		}
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", pivot.CreatedAt, pivot.CreatedAt, pivot.ID)
	}

	var messages []entity.Message
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		log.Error().Err(err).Str("channelID", channelID).Msg("failed to list messages")
		return nil, app_error.Internal("failed to fetch messages", "db-error")
	}
	return messages, nil
}

func (r *ChatRepo) CreateDirectMessage(ctx context.Context, msg *entity.DirectMessage) *app_error.AppError {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if err := r.AppState.DB.WithContext(ctx).Create(msg).Error; err != nil {
		log.Error().Err(err).Str("conversationID", msg.ConversationID).Msg("failed to create direct message")
		return app_error.Internal("failed to create direct message", "db-create")
	}
	return nil
}

func (r *ChatRepo) FindDirectMessageByID(ctx context.Context, conversationID, messageID string) (*entity.DirectMessage, *app_error.AppError) {
	var msg entity.DirectMessage
	err := r.AppState.DB.WithContext(ctx).
		Preload("Member.Profile").
		Where("id = ? AND conversation_id = ?", messageID, conversationID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("message not found", "not-found")
		}
		log.Error().Err(err).Str("messageID", messageID).Msg("failed to fetch direct message")
		return nil, app_error.Internal("failed to fetch direct message", "db-error")
	}
	return &msg, nil
}

func (r *ChatRepo) UpdateDirectMessageContent(ctx context.Context, messageID, content string) (*entity.DirectMessage, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.DirectMessage{}).
		Where("id = ?", messageID).
		Updates(map[string]any{
			"content":    content,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		log.Error().Err(err).Str("messageID", messageID).Msg("failed to update direct message")
		return nil, app_error.Internal("failed to update direct message", "db-update")
	}
	return r.reloadDirectMessage(ctx, messageID)
}

func (r *ChatRepo) SoftDeleteDirectMessage(ctx context.Context, messageID string) (*entity.DirectMessage, *app_error.AppError) {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.DirectMessage{}).
		Where("id = ?", messageID).
		Updates(map[string]any{
			"content":    entity.DeletedContent,
			"file_url":   nil,
			"deleted":    true,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		log.Error().Err(err).Str("messageID", messageID).Msg("failed to soft-delete direct message")
		return nil, app_error.Internal("failed to delete direct message", "db-update")
	}
	return r.reloadDirectMessage(ctx, messageID)
}

func (r *ChatRepo) reloadDirectMessage(ctx context.Context, messageID string) (*entity.DirectMessage, *app_error.AppError) {
	var msg entity.DirectMessage
	err := r.AppState.DB.WithContext(ctx).
		Preload("Member.Profile").
		Where("id = ?", messageID).
		First(&msg).Error
	if err != nil {
		return nil, app_error.Internal("failed to reload direct message", "db-error")
	}
	return &msg, nil
}

func (r *ChatRepo) ListDirectMessages(ctx context.Context, conversationID string, cursor *string, limit int) ([]entity.DirectMessage, *app_error.AppError) {
	query := r.AppState.DB.WithContext(ctx).
		Preload("Member.Profile").
		Where("conversation_id = ?", conversationID)

	if cursor != nil && *cursor != "" {
		var pivot entity.DirectMessage
		if err := r.AppState.DB.WithContext(ctx).Select("id", "created_at").Where("id = ?", *cursor).First(&pivot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, app_error.Validation("invalid cursor", "cursor")
			}
			return nil, app_error.Internal("failed to resolve cursor", "db-error")
		}
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", pivot.CreatedAt, pivot.CreatedAt, pivot.ID)
	}

	var messages []entity.DirectMessage
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error; err != nil {
		log.Error().Err(err).Str("conversationID", conversationID).Msg("failed to list direct messages")
		return nil, app_error.Internal("failed to fetch direct messages", "db-error")
	}
	return messages, nil
}

func (r *ChatRepo) FindConversationByID(ctx context.Context, conversationID string) (*entity.Conversation, *app_error.AppError) {
	var conv entity.Conversation
	err := r.AppState.DB.WithContext(ctx).
		Preload("MemberOne.Profile").
		Preload("MemberTwo.Profile").
		Where("id = ?", conversationID).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("conversation not found", "not-found")
		}
		log.Error().Err(err).Str("conversationID", conversationID).Msg("failed to fetch conversation")
		return nil, app_error.Internal("failed to fetch conversation", "db-error")
	}
	return &conv, nil
}

// GetOrCreateConversation finds the pair in either ordering before
// creating, and retries the lookup when a concurrent create wins the
// unique-index race.
func (r *ChatRepo) GetOrCreateConversation(ctx context.Context, memberOneID, memberTwoID string) (*entity.Conversation, *app_error.AppError) {
	conv, err := r.findConversationPair(ctx, memberOneID, memberTwoID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, app_error.Internal("failed to query conversation", "db-error")
	}

	newConv := &entity.Conversation{
		ID:          uuid.New().String(),
		MemberOneID: memberOneID,
		MemberTwoID: memberTwoID,
	}
	if createErr := r.AppState.DB.WithContext(ctx).Create(newConv).Error; createErr != nil {
		if strings.Contains(createErr.Error(), "duplicate") || strings.Contains(createErr.Error(), "unique") {
			conv, err := r.findConversationPair(ctx, memberOneID, memberTwoID)
			if err == nil {
				return conv, nil
			}
		}
		log.Error().Err(createErr).Msg("failed to create conversation")
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to create conversation", "db-create")
	}

	return r.FindConversationByID(ctx, newConv.ID)
}

func (r *ChatRepo) findConversationPair(ctx context.Context, memberOneID, memberTwoID string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.AppState.DB.WithContext(ctx).
		Preload("MemberOne.Profile").
		Preload("MemberTwo.Profile").
		Where("(member_one_id = ? AND member_two_id = ?) OR (member_one_id = ? AND member_two_id = ?)",
			memberOneID, memberTwoID, memberTwoID, memberOneID).
		First(&conv).Error
	return &conv, err
}
