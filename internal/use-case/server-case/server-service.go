package server_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/concordlabs/concord/internal/dtos/server_dto"
	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
	chat_repo "github.com/concordlabs/concord/internal/repo/chat"
	server_repo "github.com/concordlabs/concord/internal/repo/server"
	"github.com/concordlabs/concord/state"
)

type ServerService struct {
	AppState   *state.AppState
	ServerRepo server_repo.ServerRepoContract
	ChatRepo   chat_repo.ChatRepoContract
}

func NewServerService(appState *state.AppState) ServerServiceContract {
	return &ServerService{
		AppState:   appState,
		ServerRepo: server_repo.NewServerRepo(appState),
		ChatRepo:   chat_repo.NewChatRepo(appState),
	}
}

func (s *ServerService) CreateServer(ctx context.Context, req server_dto.CreateServerRequest, profileID string) (*server_dto.ServerResponse, *app_error.AppError) {
	srv := &entity.Server{
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		InviteCode: uuid.New().String(),
		ProfileID:  profileID,
	}
	if err := s.ServerRepo.CreateServer(ctx, srv); err != nil {
		return nil, err
	}

	resp := server_dto.FromServer(srv)
	return &resp, nil
}

func (s *ServerService) UpdateServer(ctx context.Context, req server_dto.UpdateServerRequest, profileID, serverID string) (*server_dto.ServerResponse, *app_error.AppError) {
	if _, err := s.requireRole(ctx, serverID, profileID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	srv, err := s.ServerRepo.UpdateServer(ctx, serverID, req.Name, req.ImageURL)
	if err != nil {
		return nil, err
	}

	resp := server_dto.FromServer(srv)
	return &resp, nil
}

func (s *ServerService) DeleteServer(ctx context.Context, profileID, serverID string) *app_error.AppError {
	if _, err := s.requireRole(ctx, serverID, profileID, entity.RoleAdmin); err != nil {
		return err
	}
	return s.ServerRepo.DeleteServer(ctx, serverID)
}

func (s *ServerService) LeaveServer(ctx context.Context, profileID, serverID string) *app_error.AppError {
	srv, member, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return err
	}
	// the owner cannot leave, only delete
	if srv.ProfileID == profileID {
		return app_error.Unauthorized("owner cannot leave the server", "member")
	}
	return s.ServerRepo.RemoveMember(ctx, member.ID)
}

func (s *ServerService) RegenerateInviteCode(ctx context.Context, profileID, serverID string) (*server_dto.ServerResponse, *app_error.AppError) {
	if _, err := s.requireRole(ctx, serverID, profileID, entity.RoleAdmin); err != nil {
		return nil, err
	}

	srv, err := s.ServerRepo.UpdateInviteCode(ctx, serverID, uuid.New().String())
	if err != nil {
		return nil, err
	}

	resp := server_dto.FromServer(srv)
	return &resp, nil
}

func (s *ServerService) JoinByInviteCode(ctx context.Context, inviteCode, profileID string) (*server_dto.ServerResponse, *app_error.AppError) {
	srv, err := s.ServerRepo.FindServerByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	for i := range srv.Members {
		if srv.Members[i].ProfileID == profileID {
			resp := server_dto.FromServer(srv)
			return &resp, nil
		}
	}

	member := &entity.Member{
		Role:      entity.RoleGuest,
		ProfileID: profileID,
		ServerID:  srv.ID,
	}
	if err := s.ServerRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	resp := server_dto.FromServer(srv)
	return &resp, nil
}

func (s *ServerService) CreateChannel(ctx context.Context, req server_dto.CreateChannelRequest, profileID, serverID string) (*server_dto.ChannelResponse, *app_error.AppError) {
	if req.Name == "general" {
		return nil, app_error.Validation("channel name cannot be 'general'", "name")
	}

	member, err := s.requireElevated(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}

	channel := &entity.Channel{
		Name:      req.Name,
		Type:      entity.ChannelType(req.Type),
		ProfileID: member.ProfileID,
		ServerID:  serverID,
	}
	if err := s.ServerRepo.CreateChannel(ctx, channel); err != nil {
		return nil, err
	}

	resp := server_dto.FromChannel(channel)
	return &resp, nil
}

func (s *ServerService) UpdateChannel(ctx context.Context, req server_dto.UpdateChannelRequest, profileID, serverID, channelID string) (*server_dto.ChannelResponse, *app_error.AppError) {
	if req.Name == "general" {
		return nil, app_error.Validation("channel name cannot be 'general'", "name")
	}

	if _, err := s.requireElevated(ctx, serverID, profileID); err != nil {
		return nil, err
	}

	existing, err := s.ServerRepo.FindChannel(ctx, channelID, serverID)
	if err != nil {
		return nil, err
	}
	if existing.Name == "general" {
		return nil, app_error.Validation("the general channel cannot be edited", "name")
	}

	channel, err := s.ServerRepo.UpdateChannel(ctx, channelID, req.Name, entity.ChannelType(req.Type))
	if err != nil {
		return nil, err
	}

	resp := server_dto.FromChannel(channel)
	return &resp, nil
}

func (s *ServerService) DeleteChannel(ctx context.Context, profileID, serverID, channelID string) *app_error.AppError {
	if _, err := s.requireElevated(ctx, serverID, profileID); err != nil {
		return err
	}

	existing, err := s.ServerRepo.FindChannel(ctx, channelID, serverID)
	if err != nil {
		return err
	}
	if existing.Name == "general" {
		return app_error.Validation("the general channel cannot be deleted", "name")
	}

	return s.ServerRepo.DeleteChannel(ctx, channelID)
}

func (s *ServerService) UpdateMemberRole(ctx context.Context, req server_dto.UpdateMemberRoleRequest, profileID, serverID, memberID string) (*server_dto.MemberResponse, *app_error.AppError) {
	acting, err := s.requireRole(ctx, serverID, profileID, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if acting.ID == memberID {
		return nil, app_error.Unauthorized("cannot change your own role", "member")
	}

	if _, err := s.ServerRepo.FindMemberByID(ctx, memberID, serverID); err != nil {
		return nil, err
	}

	member, err := s.ServerRepo.UpdateMemberRole(ctx, memberID, entity.MemberRole(req.Role))
	if err != nil {
		return nil, err
	}

	resp := server_dto.FromMember(member)
	return &resp, nil
}

func (s *ServerService) KickMember(ctx context.Context, profileID, serverID, memberID string) *app_error.AppError {
	acting, err := s.requireRole(ctx, serverID, profileID, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if acting.ID == memberID {
		return app_error.Unauthorized("cannot kick yourself", "member")
	}

	if _, err := s.ServerRepo.FindMemberByID(ctx, memberID, serverID); err != nil {
		return err
	}

	return s.ServerRepo.RemoveMember(ctx, memberID)
}

func (s *ServerService) GetOrCreateConversation(ctx context.Context, profileID, serverID, otherMemberID string) (*server_dto.ConversationResponse, *app_error.AppError) {
	_, acting, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ServerRepo.FindMemberByID(ctx, otherMemberID, serverID); err != nil {
		return nil, err
	}

	conv, err := s.ChatRepo.GetOrCreateConversation(ctx, acting.ID, otherMemberID)
	if err != nil {
		return nil, err
	}

	resp := server_dto.FromConversation(conv)
	return &resp, nil
}

func (s *ServerService) requireRole(ctx context.Context, serverID, profileID string, role entity.MemberRole) (*entity.Member, *app_error.AppError) {
	_, member, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}
	if member.Role != role {
		return nil, app_error.Unauthorized("insufficient role", "member")
	}
	return member, nil
}

func (s *ServerService) requireElevated(ctx context.Context, serverID, profileID string) (*entity.Member, *app_error.AppError) {
	_, member, err := s.ServerRepo.FindServerWithMember(ctx, serverID, profileID)
	if err != nil {
		return nil, err
	}
	if !member.Role.Elevated() {
		return nil, app_error.Unauthorized("insufficient role", "member")
	}
	return member, nil
}
