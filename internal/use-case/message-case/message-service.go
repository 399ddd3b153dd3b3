package message_service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/dtos/chat_dto"
	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
	"github.com/concordlabs/concord/internal/metrics"
	chat_repo "github.com/concordlabs/concord/internal/repo/chat"
	server_repo "github.com/concordlabs/concord/internal/repo/server"
	"github.com/concordlabs/concord/state"
)

type MessageService struct {
	AppState   *state.AppState
	ChatRepo   chat_repo.ChatRepoContract
	ServerRepo server_repo.ServerRepoContract
	Broker     broker.Broker
	PageSize   int
}

func NewMessageService(appState *state.AppState, b broker.Broker, pageSize int) MessageServiceContract {
	return &MessageService{
		AppState:   appState,
		ChatRepo:   chat_repo.NewChatRepo(appState),
		ServerRepo: server_repo.NewServerRepo(appState),
		Broker:     b,
		PageSize:   pageSize,
	}
}

// publish runs after the durable write committed. A failed broadcast
// is logged and swallowed: the mutation already succeeded and the
// change surfaces on the next poll.
func (s *MessageService) publish(ctx context.Context, topic string, payload *chat_dto.MessagePayload) {
	if err := s.Broker.Publish(ctx, topic, payload); err != nil {
		log.Error().Err(err).Str("topic", topic).Str("messageID", payload.ID).Msg("failed to broadcast message event")
	}
}

func (s *MessageService) CreateChannelMessage(ctx context.Context, req chat_dto.CreateMessageRequest, profileID, serverID, channelID string) (*chat_dto.MessagePayload, *app_error.AppError) {
	if req.Content == "" && req.FileURL == nil {
		return nil, app_error.Validation("content missing", "content")
	}

	_, member, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ServerRepo.FindChannel(ctx, channelID, serverID); err != nil {
		return nil, err
	}

	msg := &entity.Message{
		Content:   req.Content,
		FileURL:   req.FileURL,
		ChannelID: channelID,
		MemberID:  member.ID,
	}
	if err := s.ChatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	msg.Member = member
	metrics.MessagesCreated.Inc()

	payload := chat_dto.FromMessage(msg)
	s.publish(ctx, broker.AddTopic(channelID), &payload)
	return &payload, nil
}

func (s *MessageService) UpdateChannelMessage(ctx context.Context, req chat_dto.UpdateMessageRequest, profileID, serverID, channelID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError) {
	_, member, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ServerRepo.FindChannel(ctx, channelID, serverID); err != nil {
		return nil, err
	}

	msg, err := s.ChatRepo.FindMessageByID(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	// editing is author-only regardless of role
	if msg.MemberID != member.ID {
		return nil, app_error.Unauthorized("unauthorized", "member")
	}

	updated, err := s.ChatRepo.UpdateMessageContent(ctx, messageID, req.Content)
	if err != nil {
		return nil, err
	}

	payload := chat_dto.FromMessage(updated)
	s.publish(ctx, broker.UpdateTopic(channelID), &payload)
	return &payload, nil
}

func (s *MessageService) DeleteChannelMessage(ctx context.Context, profileID, serverID, channelID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError) {
	_, member, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ServerRepo.FindChannel(ctx, channelID, serverID); err != nil {
		return nil, err
	}

	msg, err := s.ChatRepo.FindMessageByID(ctx, channelID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	if msg.MemberID != member.ID && !member.Role.Elevated() {
		return nil, app_error.Unauthorized("unauthorized", "member")
	}

	deleted, err := s.ChatRepo.SoftDeleteMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	metrics.MessagesDeleted.Inc()

	payload := chat_dto.FromMessage(deleted)
	s.publish(ctx, broker.UpdateTopic(channelID), &payload)
	return &payload, nil
}

func (s *MessageService) ListChannelMessages(ctx context.Context, channelID string, cursor *string) (*chat_dto.ListMessagesResponse, *app_error.AppError) {
	messages, err := s.ChatRepo.ListMessages(ctx, channelID, cursor, s.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]chat_dto.MessagePayload, 0, len(messages))
	for i := range messages {
		items = append(items, chat_dto.FromMessage(&messages[i]))
	}

	var nextCursor *string
	if len(items) == s.PageSize {
		nextCursor = &items[len(items)-1].ID
	}

	return &chat_dto.ListMessagesResponse{
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}

// actingMember resolves the conversation participant owned by the
// profile, or NotFound when the profile is on neither side.
func (s *MessageService) actingMember(ctx context.Context, conversationID, profileID string) (*entity.Conversation, *entity.Member, *app_error.AppError) {
	conv, err := s.ChatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}

	if conv.MemberOne != nil && conv.MemberOne.ProfileID == profileID {
		return conv, conv.MemberOne, nil
	}
	if conv.MemberTwo != nil && conv.MemberTwo.ProfileID == profileID {
		return conv, conv.MemberTwo, nil
	}
	return nil, nil, app_error.NotFound("conversation not found", "not-found")
}

func (s *MessageService) CreateDirectMessage(ctx context.Context, req chat_dto.CreateMessageRequest, profileID, conversationID string) (*chat_dto.MessagePayload, *app_error.AppError) {
	if req.Content == "" && req.FileURL == nil {
		return nil, app_error.Validation("content missing", "content")
	}

	conv, member, err := s.actingMember(ctx, conversationID, profileID)
	if err != nil {
		return nil, err
	}

	msg := &entity.DirectMessage{
		Content:        req.Content,
		FileURL:        req.FileURL,
		ConversationID: conv.ID,
		MemberID:       member.ID,
	}
	if err := s.ChatRepo.CreateDirectMessage(ctx, msg); err != nil {
		return nil, err
	}
	msg.Member = member
	metrics.MessagesCreated.Inc()

	payload := chat_dto.FromDirectMessage(msg)
	s.publish(ctx, broker.AddTopic(conv.ID), &payload)
	return &payload, nil
}

func (s *MessageService) UpdateDirectMessage(ctx context.Context, req chat_dto.UpdateMessageRequest, profileID, conversationID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError) {
	conv, member, err := s.actingMember(ctx, conversationID, profileID)
	if err != nil {
		return nil, err
	}

	msg, err := s.ChatRepo.FindDirectMessageByID(ctx, conv.ID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	if msg.MemberID != member.ID {
		return nil, app_error.Unauthorized("unauthorized", "member")
	}

	updated, err := s.ChatRepo.UpdateDirectMessageContent(ctx, messageID, req.Content)
	if err != nil {
		return nil, err
	}

	payload := chat_dto.FromDirectMessage(updated)
	s.publish(ctx, broker.UpdateTopic(conv.ID), &payload)
	return &payload, nil
}

func (s *MessageService) DeleteDirectMessage(ctx context.Context, profileID, conversationID, messageID string) (*chat_dto.MessagePayload, *app_error.AppError) {
	conv, member, err := s.actingMember(ctx, conversationID, profileID)
	if err != nil {
		return nil, err
	}

	msg, err := s.ChatRepo.FindDirectMessageByID(ctx, conv.ID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	if msg.MemberID != member.ID && !member.Role.Elevated() {
		return nil, app_error.Unauthorized("unauthorized", "member")
	}

	deleted, err := s.ChatRepo.SoftDeleteDirectMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	metrics.MessagesDeleted.Inc()

	payload := chat_dto.FromDirectMessage(deleted)
	s.publish(ctx, broker.UpdateTopic(conv.ID), &payload)
	return &payload, nil
}

func (s *MessageService) ListDirectMessages(ctx context.Context, conversationID string, cursor *string) (*chat_dto.ListMessagesResponse, *app_error.AppError) {
	messages, err := s.ChatRepo.ListDirectMessages(ctx, conversationID, cursor, s.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]chat_dto.MessagePayload, 0, len(messages))
	for i := range messages {
		items = append(items, chat_dto.FromDirectMessage(&messages[i]))
	}

	var nextCursor *string
	if len(items) == s.PageSize {
		nextCursor = &items[len(items)-1].ID
	}

	return &chat_dto.ListMessagesResponse{
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}
