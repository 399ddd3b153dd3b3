package chat_repo

import (
	"context"

	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
)

type ChatRepoContract interface {
	CreateMessage(ctx context.Context, msg *entity.Message) *app_error.AppError
	FindMessageByID(ctx context.Context, channelID, messageID string) (*entity.Message, *app_error.AppError)
	UpdateMessageContent(ctx context.Context, messageID, content string) (*entity.Message, *app_error.AppError)
	SoftDeleteMessage(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError)
	ListMessages(ctx context.Context, channelID string, cursor *string, limit int) ([]entity.Message, *app_error.AppError)

	CreateDirectMessage(ctx context.Context, msg *entity.DirectMessage) *app_error.AppError
	FindDirectMessageByID(ctx context.Context, conversationID, messageID string) (*entity.DirectMessage, *app_error.AppError)
	UpdateDirectMessageContent(ctx context.Context, messageID, content string) (*entity.DirectMessage, *app_error.AppError)
	SoftDeleteDirectMessage(ctx context.Context, messageID string) (*entity.DirectMessage, *app_error.AppError)
	ListDirectMessages(ctx context.Context, conversationID string, cursor *string, limit int) ([]entity.DirectMessage, *app_error.AppError)

	FindConversationByID(ctx context.Context, conversationID string) (*entity.Conversation, *app_error.AppError)
	GetOrCreateConversation(ctx context.Context, memberOneID, memberTwoID string) (*entity.Conversation, *app_error.AppError)
}
