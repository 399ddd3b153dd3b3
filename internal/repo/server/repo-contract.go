package server_repo

import (
	"context"

	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
)

type ServerRepoContract interface {
	CreateServer(ctx context.Context, srv *entity.Server) *app_error.AppError
	FindServerWithMember(ctx context.Context, serverID, profileID string) (*entity.Server, *entity.Member, *app_error.AppError)
	FindServerByInviteCode(ctx context.Context, inviteCode string) (*entity.Server, *app_error.AppError)
	UpdateServer(ctx context.Context, serverID, name, imageURL string) (*entity.Server, *app_error.AppError)
	UpdateInviteCode(ctx context.Context, serverID, inviteCode string) (*entity.Server, *app_error.AppError)
	DeleteServer(ctx context.Context, serverID string) *app_error.AppError

	AddMember(ctx context.Context, member *entity.Member) *app_error.AppError
	FindMemberByID(ctx context.Context, memberID, serverID string) (*entity.Member, *app_error.AppError)
	UpdateMemberRole(ctx context.Context, memberID string, role entity.MemberRole) (*entity.Member, *app_error.AppError)
	RemoveMember(ctx context.Context, memberID string) *app_error.AppError

	CreateChannel(ctx context.Context, channel *entity.Channel) *app_error.AppError
	FindChannel(ctx context.Context, channelID, serverID string) (*entity.Channel, *app_error.AppError)
	UpdateChannel(ctx context.Context, channelID, name string, channelType entity.ChannelType) (*entity.Channel, *app_error.AppError)
	DeleteChannel(ctx context.Context, channelID string) *app_error.AppError
}
