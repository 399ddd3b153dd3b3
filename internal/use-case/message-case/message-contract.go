package message_service

import (
	"context"

	"github.com/concordlabs/concord/internal/dtos/chat_dto"
	app_error "github.com/concordlabs/concord/internal/errors"
)

type MessageServiceContract interface {
	CreateChannelMessage(ctx context.Context, req chat_dto.CreateMessageRequest, profileID, serverID, channelID string) (*chat_dto.MessagePayload, *app_error.AppError)
	UpdateChannelMessage(ctx context.Context, req chat_dto.UpdateMessageRequest, profileID, serverID, channelID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError)
	DeleteChannelMessage(ctx context.Context, profileID, serverID, channelID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError)
	ListChannelMessages(ctx context.Context, channelID string, cursor *string) (*chat_dto.ListMessagesResponse, *app_error.AppError)

	CreateDirectMessage(ctx context.Context, req chat_dto.CreateMessageRequest, profileID, conversationID string) (*chat_dto.MessagePayload, *app_error.AppError)
	UpdateDirectMessage(ctx context.Context, req chat_dto.UpdateMessageRequest, profileID, conversationID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError)
	DeleteDirectMessage(ctx context.Context, profileID, conversationID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError)
	ListDirectMessages(ctx context.Context, conversationID string, cursor *string) (*chat_dto.ListMessagesResponse, *app_error.AppError)
}
