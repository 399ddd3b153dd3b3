package server_service

import (
	"context"

	"github.com/concordlabs/concord/internal/dtos/server_dto"
	app_error "github.com/concordlabs/concord/internal/errors"
)

type ServerServiceContract interface {
	CreateServer(ctx context.Context, req server_dto.CreateServerRequest, profileID string) (*server_dto.ServerResponse, *app_error.AppError)
	UpdateServer(ctx context.Context, req server_dto.UpdateServerRequest, profileID, serverID string) (*server_dto.ServerResponse, *app_error.AppError)
	DeleteServer(ctx context.Context, profileID, serverID string) *app_error.AppError
	LeaveServer(ctx context.Context, profileID, serverID string) *app_error.AppError
	RegenerateInviteCode(ctx context.Context, profileID, serverID string) (*server_dto.ServerResponse, *app_error.AppError)
	JoinByInviteCode(ctx context.Context, inviteCode, profileID string) (*server_dto.ServerResponse, *app_error.AppError)

	CreateChannel(ctx context.Context, req server_dto.CreateChannelRequest, profileID, serverID string) (*server_dto.ChannelResponse, *app_error.AppError)
	UpdateChannel(ctx context.Context, req server_dto.UpdateChannelRequest, profileID, serverID, channelID string) (*server_dto.ChannelResponse, *app_error.AppError)
	DeleteChannel(ctx context.Context, profileID, serverID, channelID string) *app_error.AppError

	UpdateMemberRole(ctx context.Context, req server_dto.UpdateMemberRoleRequest, profileID, serverID, memberID string) (*server_dto.MemberResponse, *app_error.AppError)
	KickMember(ctx context.Context, profileID, serverID, memberID string) *app_error.AppError

	GetOrCreateConversation(ctx context.Context, profileID, serverID, otherMemberID string) (*server_dto.ConversationResponse, *app_error.AppError)
}
