package server_service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordlabs/concord/internal/dtos/server_dto"
	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
)

// memServerRepo is an in-memory ServerRepoContract covering the paths
// the service exercises.
type memServerRepo struct {
	servers  map[string]*entity.Server
	members  map[string]*entity.Member
	channels map[string]*entity.Channel
}

func newMemServerRepo() *memServerRepo {
	return &memServerRepo{
		servers:  make(map[string]*entity.Server),
		members:  make(map[string]*entity.Member),
		channels: make(map[string]*entity.Channel),
	}
}

func (m *memServerRepo) CreateServer(_ context.Context, srv *entity.Server) *app_error.AppError {
	if srv.ID == "" {
		srv.ID = uuid.New().String()
	}
	owner := &entity.Member{ID: uuid.New().String(), Role: entity.RoleAdmin, ProfileID: srv.ProfileID, ServerID: srv.ID}
	general := &entity.Channel{ID: uuid.New().String(), Name: "general", Type: entity.ChannelText, ProfileID: srv.ProfileID, ServerID: srv.ID}
	srv.Members = []entity.Member{*owner}
	srv.Channels = []entity.Channel{*general}
	m.servers[srv.ID] = srv
	m.members[owner.ID] = owner
	m.channels[general.ID] = general
	return nil
}

func (m *memServerRepo) FindServerWithMember(_ context.Context, serverID, profileID string) (*entity.Server, *entity.Member, *app_error.AppError) {
	srv, ok := m.servers[serverID]
	if !ok {
		return nil, nil, app_error.NotFound("server not found", "not-found")
	}
	for _, member := range m.members {
		if member.ServerID == serverID && member.ProfileID == profileID {
			return srv, member, nil
		}
	}
	return nil, nil, app_error.NotFound("server not found", "not-found")
}

func (m *memServerRepo) FindServerByInviteCode(_ context.Context, inviteCode string) (*entity.Server, *app_error.AppError) {
	for _, srv := range m.servers {
		if srv.InviteCode == inviteCode {
			withMembers := *srv
			withMembers.Members = nil
			for _, member := range m.members {
				if member.ServerID == srv.ID {
					withMembers.Members = append(withMembers.Members, *member)
				}
			}
			return &withMembers, nil
		}
	}
	return nil, app_error.NotFound("server not found", "not-found")
}

func (m *memServerRepo) UpdateServer(_ context.Context, serverID, name, imageURL string) (*entity.Server, *app_error.AppError) {
	srv, ok := m.servers[serverID]
	if !ok {
		return nil, app_error.NotFound("server not found", "not-found")
	}
	srv.Name = name
	srv.ImageURL = imageURL
	return srv, nil
}

func (m *memServerRepo) UpdateInviteCode(_ context.Context, serverID, inviteCode string) (*entity.Server, *app_error.AppError) {
	srv, ok := m.servers[serverID]
	if !ok {
		return nil, app_error.NotFound("server not found", "not-found")
	}
	srv.InviteCode = inviteCode
	return srv, nil
}

func (m *memServerRepo) DeleteServer(_ context.Context, serverID string) *app_error.AppError {
	delete(m.servers, serverID)
	return nil
}

func (m *memServerRepo) AddMember(_ context.Context, member *entity.Member) *app_error.AppError {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	m.members[member.ID] = member
	return nil
}

func (m *memServerRepo) FindMemberByID(_ context.Context, memberID, serverID string) (*entity.Member, *app_error.AppError) {
	member, ok := m.members[memberID]
	if !ok || member.ServerID != serverID {
		return nil, app_error.NotFound("member not found", "not-found")
	}
	return member, nil
}

func (m *memServerRepo) UpdateMemberRole(_ context.Context, memberID string, role entity.MemberRole) (*entity.Member, *app_error.AppError) {
	member, ok := m.members[memberID]
	if !ok {
		return nil, app_error.NotFound("member not found", "not-found")
	}
	member.Role = role
	return member, nil
}

func (m *memServerRepo) RemoveMember(_ context.Context, memberID string) *app_error.AppError {
	delete(m.members, memberID)
	return nil
}

func (m *memServerRepo) CreateChannel(_ context.Context, channel *entity.Channel) *app_error.AppError {
	if channel.ID == "" {
		channel.ID = uuid.New().String()
	}
	m.channels[channel.ID] = channel
	return nil
}

func (m *memServerRepo) FindChannel(_ context.Context, channelID, serverID string) (*entity.Channel, *app_error.AppError) {
	channel, ok := m.channels[channelID]
	if !ok || channel.ServerID != serverID {
		return nil, app_error.NotFound("channel not found", "not-found")
	}
	return channel, nil
}

func (m *memServerRepo) UpdateChannel(_ context.Context, channelID, name string, channelType entity.ChannelType) (*entity.Channel, *app_error.AppError) {
	channel, ok := m.channels[channelID]
	if !ok {
		return nil, app_error.NotFound("channel not found", "not-found")
	}
	channel.Name = name
	channel.Type = channelType
	return channel, nil
}

func (m *memServerRepo) DeleteChannel(_ context.Context, channelID string) *app_error.AppError {
	delete(m.channels, channelID)
	return nil
}

// memConversations only needs the get-or-create path here.
type memConversations struct {
	conversations map[string]*entity.Conversation
}

func (m *memConversations) GetOrCreateConversation(_ context.Context, memberOneID, memberTwoID string) (*entity.Conversation, *app_error.AppError) {
	for _, conv := range m.conversations {
		if (conv.MemberOneID == memberOneID && conv.MemberTwoID == memberTwoID) ||
			(conv.MemberOneID == memberTwoID && conv.MemberTwoID == memberOneID) {
			return conv, nil
		}
	}
	conv := &entity.Conversation{ID: uuid.New().String(), MemberOneID: memberOneID, MemberTwoID: memberTwoID}
	m.conversations[conv.ID] = conv
	return conv, nil
}

func (m *memConversations) FindConversationByID(_ context.Context, conversationID string) (*entity.Conversation, *app_error.AppError) {
	conv, ok := m.conversations[conversationID]
	if !ok {
		return nil, app_error.NotFound("conversation not found", "not-found")
	}
	return conv, nil
}

func (m *memConversations) CreateMessage(context.Context, *entity.Message) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (m *memConversations) FindMessageByID(context.Context, string, string) (*entity.Message, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) UpdateMessageContent(context.Context, string, string) (*entity.Message, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) SoftDeleteMessage(context.Context, string) (*entity.Message, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) ListMessages(context.Context, string, *string, int) ([]entity.Message, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) CreateDirectMessage(context.Context, *entity.DirectMessage) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (m *memConversations) FindDirectMessageByID(context.Context, string, string) (*entity.DirectMessage, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) UpdateDirectMessageContent(context.Context, string, string) (*entity.DirectMessage, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) SoftDeleteDirectMessage(context.Context, string) (*entity.DirectMessage, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (m *memConversations) ListDirectMessages(context.Context, string, *string, int) ([]entity.DirectMessage, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func newTestServerService() (*ServerService, *memServerRepo) {
	repo := newMemServerRepo()
	svc := &ServerService{
		ServerRepo: repo,
		ChatRepo:   &memConversations{conversations: make(map[string]*entity.Conversation)},
	}
	return svc, repo
}

func createServer(t *testing.T, svc *ServerService, ownerProfileID string) *server_dto.ServerResponse {
	t.Helper()
	resp, err := svc.CreateServer(context.Background(), server_dto.CreateServerRequest{Name: "my server"}, ownerProfileID)
	require.Nil(t, err)
	return resp
}

func TestCreateServer_SeedsGeneralChannelAndOwner(t *testing.T) {
	svc, repo := newTestServerService()

	resp := createServer(t, svc, "profile-owner")

	assert.NotEmpty(t, resp.InviteCode)

	srv, member, err := repo.FindServerWithMember(context.Background(), resp.ID, "profile-owner")
	require.Nil(t, err)
	assert.Equal(t, entity.RoleAdmin, member.Role, "the creator joins as admin")
	require.Len(t, srv.Channels, 1)
	assert.Equal(t, "general", srv.Channels[0].Name)
}

func TestUpdateServer_AdminOnly(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	guest := &entity.Member{ID: "member-guest", Role: entity.RoleGuest, ProfileID: "profile-guest", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), guest))

	_, err := svc.UpdateServer(context.Background(), server_dto.UpdateServerRequest{Name: "renamed"}, "profile-guest", resp.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Code)

	updated, err := svc.UpdateServer(context.Background(), server_dto.UpdateServerRequest{Name: "renamed"}, "profile-owner", resp.ID)
	require.Nil(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestLeaveServer_OwnerCannotLeave(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	err := svc.LeaveServer(context.Background(), "profile-owner", resp.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Code)

	guest := &entity.Member{ID: "member-guest", Role: entity.RoleGuest, ProfileID: "profile-guest", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), guest))
	require.Nil(t, svc.LeaveServer(context.Background(), "profile-guest", resp.ID))

	_, _, findErr := repo.FindServerWithMember(context.Background(), resp.ID, "profile-guest")
	assert.NotNil(t, findErr, "the membership is gone after leaving")
}

func TestJoinByInviteCode_IsIdempotent(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	joined, err := svc.JoinByInviteCode(context.Background(), resp.InviteCode, "profile-new")
	require.Nil(t, err)
	assert.Equal(t, resp.ID, joined.ID)

	_, err = svc.JoinByInviteCode(context.Background(), resp.InviteCode, "profile-new")
	require.Nil(t, err, "joining twice is not an error")

	count := 0
	for _, member := range repo.members {
		if member.ProfileID == "profile-new" {
			count++
		}
	}
	assert.Equal(t, 1, count, "no duplicate membership")
}

func TestJoinByInviteCode_UnknownCode(t *testing.T) {
	svc, _ := newTestServerService()
	createServer(t, svc, "profile-owner")

	_, err := svc.JoinByInviteCode(context.Background(), "bogus", "profile-new")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}

func TestRegenerateInviteCode_InvalidatesOldCode(t *testing.T) {
	svc, _ := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	regen, err := svc.RegenerateInviteCode(context.Background(), "profile-owner", resp.ID)
	require.Nil(t, err)
	assert.NotEqual(t, resp.InviteCode, regen.InviteCode)

	_, err = svc.JoinByInviteCode(context.Background(), resp.InviteCode, "profile-late")
	require.NotNil(t, err, "the replaced code stops working")
}

func TestChannels_GeneralNameIsReserved(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	_, err := svc.CreateChannel(context.Background(), server_dto.CreateChannelRequest{Name: "general", Type: "TEXT"}, "profile-owner", resp.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)

	created, err := svc.CreateChannel(context.Background(), server_dto.CreateChannelRequest{Name: "random", Type: "TEXT"}, "profile-owner", resp.ID)
	require.Nil(t, err)

	// the seeded general channel cannot be renamed or removed
	var generalID string
	for _, channel := range repo.channels {
		if channel.Name == "general" {
			generalID = channel.ID
		}
	}
	require.NotEmpty(t, generalID)

	_, err = svc.UpdateChannel(context.Background(), server_dto.UpdateChannelRequest{Name: "renamed", Type: "TEXT"}, "profile-owner", resp.ID, generalID)
	require.NotNil(t, err)

	err = svc.DeleteChannel(context.Background(), "profile-owner", resp.ID, generalID)
	require.NotNil(t, err)

	require.Nil(t, svc.DeleteChannel(context.Background(), "profile-owner", resp.ID, created.ID))
}

func TestChannels_RequireElevatedRole(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	guest := &entity.Member{ID: "member-guest", Role: entity.RoleGuest, ProfileID: "profile-guest", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), guest))
	moderator := &entity.Member{ID: "member-mod", Role: entity.RoleModerator, ProfileID: "profile-mod", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), moderator))

	_, err := svc.CreateChannel(context.Background(), server_dto.CreateChannelRequest{Name: "random", Type: "TEXT"}, "profile-guest", resp.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Code)

	_, err = svc.CreateChannel(context.Background(), server_dto.CreateChannelRequest{Name: "random", Type: "TEXT"}, "profile-mod", resp.ID)
	require.Nil(t, err, "moderators can manage channels")
}

func TestUpdateMemberRole_SelfChangeForbidden(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	var ownerMemberID string
	for _, member := range repo.members {
		if member.ProfileID == "profile-owner" {
			ownerMemberID = member.ID
		}
	}

	_, err := svc.UpdateMemberRole(context.Background(), server_dto.UpdateMemberRoleRequest{Role: "GUEST"}, "profile-owner", resp.ID, ownerMemberID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Code)

	guest := &entity.Member{ID: "member-guest", Role: entity.RoleGuest, ProfileID: "profile-guest", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), guest))

	promoted, err := svc.UpdateMemberRole(context.Background(), server_dto.UpdateMemberRoleRequest{Role: "MODERATOR"}, "profile-owner", resp.ID, guest.ID)
	require.Nil(t, err)
	assert.Equal(t, entity.RoleModerator, promoted.Role)
}

func TestKickMember_AdminOnlyAndNotSelf(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	guest := &entity.Member{ID: "member-guest", Role: entity.RoleGuest, ProfileID: "profile-guest", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), guest))

	err := svc.KickMember(context.Background(), "profile-guest", resp.ID, guest.ID)
	require.NotNil(t, err, "guests cannot kick")

	require.Nil(t, svc.KickMember(context.Background(), "profile-owner", resp.ID, guest.ID))
	_, _, findErr := repo.FindServerWithMember(context.Background(), resp.ID, "profile-guest")
	assert.NotNil(t, findErr)
}

func TestGetOrCreateConversation_ReturnsSamePair(t *testing.T) {
	svc, repo := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	other := &entity.Member{ID: "member-other", Role: entity.RoleGuest, ProfileID: "profile-other", ServerID: resp.ID}
	require.Nil(t, repo.AddMember(context.Background(), other))

	first, err := svc.GetOrCreateConversation(context.Background(), "profile-owner", resp.ID, other.ID)
	require.Nil(t, err)

	// same pair from the other side resolves to the same conversation
	var ownerMemberID string
	for _, member := range repo.members {
		if member.ProfileID == "profile-owner" {
			ownerMemberID = member.ID
		}
	}
	second, err := svc.GetOrCreateConversation(context.Background(), "profile-other", resp.ID, ownerMemberID)
	require.Nil(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateConversation_OtherMemberMustBelong(t *testing.T) {
	svc, _ := newTestServerService()
	resp := createServer(t, svc, "profile-owner")

	_, err := svc.GetOrCreateConversation(context.Background(), "profile-owner", resp.ID, "member-elsewhere")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}
