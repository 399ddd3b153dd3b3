package message_service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/dtos/chat_dto"
	"github.com/concordlabs/concord/internal/entity"
	app_error "github.com/concordlabs/concord/internal/errors"
)

// fakeChatRepo keeps messages in memory, newest first per channel.
type fakeChatRepo struct {
	messages      map[string]*entity.Message
	channelOrder  []string
	direct        map[string]*entity.DirectMessage
	conversations map[string]*entity.Conversation
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		messages:      make(map[string]*entity.Message),
		direct:        make(map[string]*entity.DirectMessage),
		conversations: make(map[string]*entity.Conversation),
	}
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, msg *entity.Message) *app_error.AppError {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	f.messages[msg.ID] = msg
	f.channelOrder = append([]string{msg.ID}, f.channelOrder...)
	return nil
}

func (f *fakeChatRepo) FindMessageByID(_ context.Context, channelID, messageID string) (*entity.Message, *app_error.AppError) {
	msg, ok := f.messages[messageID]
	if !ok || msg.ChannelID != channelID {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	return msg, nil
}

func (f *fakeChatRepo) UpdateMessageContent(_ context.Context, messageID, content string) (*entity.Message, *app_error.AppError) {
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	msg.Content = content
	return msg, nil
}

func (f *fakeChatRepo) SoftDeleteMessage(_ context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	msg.Content = entity.DeletedContent
	msg.FileURL = nil
	msg.Deleted = true
	return msg, nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, channelID string, cursor *string, limit int) ([]entity.Message, *app_error.AppError) {
	start := 0
	if cursor != nil {
		for i, id := range f.channelOrder {
			if id == *cursor {
				start = i + 1
				break
			}
		}
	}
	var out []entity.Message
	for _, id := range f.channelOrder[start:] {
		msg := f.messages[id]
		if msg.ChannelID != channelID {
			continue
		}
		out = append(out, *msg)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateDirectMessage(_ context.Context, msg *entity.DirectMessage) *app_error.AppError {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	f.direct[msg.ID] = msg
	return nil
}

func (f *fakeChatRepo) FindDirectMessageByID(_ context.Context, conversationID, messageID string) (*entity.DirectMessage, *app_error.AppError) {
	msg, ok := f.direct[messageID]
	if !ok || msg.ConversationID != conversationID {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	return msg, nil
}

func (f *fakeChatRepo) UpdateDirectMessageContent(_ context.Context, messageID, content string) (*entity.DirectMessage, *app_error.AppError) {
	msg, ok := f.direct[messageID]
	if !ok {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	msg.Content = content
	return msg, nil
}

func (f *fakeChatRepo) SoftDeleteDirectMessage(_ context.Context, messageID string) (*entity.DirectMessage, *app_error.AppError) {
	msg, ok := f.direct[messageID]
	if !ok {
		return nil, app_error.NotFound("message not found", "not-found")
	}
	msg.Content = entity.DeletedContent
	msg.FileURL = nil
	msg.Deleted = true
	return msg, nil
}

func (f *fakeChatRepo) ListDirectMessages(_ context.Context, conversationID string, _ *string, limit int) ([]entity.DirectMessage, *app_error.AppError) {
	var out []entity.DirectMessage
	for _, msg := range f.direct {
		if msg.ConversationID != conversationID {
			continue
		}
		out = append(out, *msg)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeChatRepo) FindConversationByID(_ context.Context, conversationID string) (*entity.Conversation, *app_error.AppError) {
	conv, ok := f.conversations[conversationID]
	if !ok {
		return nil, app_error.NotFound("conversation not found", "not-found")
	}
	return conv, nil
}

func (f *fakeChatRepo) GetOrCreateConversation(_ context.Context, memberOneID, memberTwoID string) (*entity.Conversation, *app_error.AppError) {
	for _, conv := range f.conversations {
		if (conv.MemberOneID == memberOneID && conv.MemberTwoID == memberTwoID) ||
			(conv.MemberOneID == memberTwoID && conv.MemberTwoID == memberOneID) {
			return conv, nil
		}
	}
	conv := &entity.Conversation{ID: uuid.New().String(), MemberOneID: memberOneID, MemberTwoID: memberTwoID}
	f.conversations[conv.ID] = conv
	return conv, nil
}

// fakeServerRepo resolves membership from a fixed member set.
type fakeServerRepo struct {
	serverID string
	channels map[string]*entity.Channel
	members  map[string]*entity.Member // keyed by profile id
}

func (f *fakeServerRepo) CreateServer(context.Context, *entity.Server) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) FindServerWithMember(_ context.Context, serverID, profileID string) (*entity.Server, *entity.Member, *app_error.AppError) {
	member, ok := f.members[profileID]
	if serverID != f.serverID || !ok {
		return nil, nil, app_error.NotFound("server not found", "not-found")
	}
	return &entity.Server{ID: f.serverID}, member, nil
}

func (f *fakeServerRepo) FindServerByInviteCode(context.Context, string) (*entity.Server, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) UpdateServer(context.Context, string, string, string) (*entity.Server, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) UpdateInviteCode(context.Context, string, string) (*entity.Server, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) DeleteServer(context.Context, string) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) AddMember(context.Context, *entity.Member) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) FindMemberByID(context.Context, string, string) (*entity.Member, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) UpdateMemberRole(context.Context, string, entity.MemberRole) (*entity.Member, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) RemoveMember(context.Context, string) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) CreateChannel(context.Context, *entity.Channel) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) FindChannel(_ context.Context, channelID, serverID string) (*entity.Channel, *app_error.AppError) {
	channel, ok := f.channels[channelID]
	if !ok || serverID != f.serverID {
		return nil, app_error.NotFound("channel not found", "not-found")
	}
	return channel, nil
}

func (f *fakeServerRepo) UpdateChannel(context.Context, string, string, entity.ChannelType) (*entity.Channel, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "fake")
}

func (f *fakeServerRepo) DeleteChannel(context.Context, string) *app_error.AppError {
	return app_error.Internal("not implemented", "fake")
}

type publishRecord struct {
	topic   string
	payload chat_dto.MessagePayload
}

type recordingBroker struct {
	*broker.LocalBroker
	published []publishRecord
	fail      bool
}

func (r *recordingBroker) Publish(ctx context.Context, topic string, payload any) error {
	if r.fail {
		return fmt.Errorf("broker down")
	}
	msg, ok := payload.(*chat_dto.MessagePayload)
	if ok {
		r.published = append(r.published, publishRecord{topic: topic, payload: *msg})
	}
	return r.LocalBroker.Publish(ctx, topic, payload)
}

const (
	testServerID  = "server-1"
	testChannelID = "channel-1"
)

func newTestService(t *testing.T) (*MessageService, *fakeChatRepo, *recordingBroker) {
	t.Helper()

	chatRepo := newFakeChatRepo()
	serverRepo := &fakeServerRepo{
		serverID: testServerID,
		channels: map[string]*entity.Channel{
			testChannelID: {ID: testChannelID, Name: "general", ServerID: testServerID},
		},
		members: map[string]*entity.Member{
			"profile-author": {ID: "member-author", ProfileID: "profile-author", ServerID: testServerID, Role: entity.RoleGuest},
			"profile-guest":  {ID: "member-guest", ProfileID: "profile-guest", ServerID: testServerID, Role: entity.RoleGuest},
			"profile-admin":  {ID: "member-admin", ProfileID: "profile-admin", ServerID: testServerID, Role: entity.RoleAdmin},
		},
	}
	b := &recordingBroker{LocalBroker: broker.NewLocalBroker()}

	svc := &MessageService{
		ChatRepo:   chatRepo,
		ServerRepo: serverRepo,
		Broker:     b,
		PageSize:   3,
	}
	return svc, chatRepo, b
}

func TestCreateChannelMessage_PersistsThenPublishes(t *testing.T) {
	svc, repo, b := newTestService(t)

	payload, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "hello"},
		"profile-author", testServerID, testChannelID)
	require.Nil(t, err)

	assert.Equal(t, "hello", payload.Content)
	assert.Equal(t, "member-author", payload.MemberID)
	assert.NotEmpty(t, payload.ID)
	assert.Contains(t, repo.messages, payload.ID, "row exists before the event went out")

	require.Len(t, b.published, 1)
	assert.Equal(t, broker.AddTopic(testChannelID), b.published[0].topic)
	assert.Equal(t, payload.ID, b.published[0].payload.ID)
}

func TestCreateChannelMessage_RejectsEmptyBody(t *testing.T) {
	svc, _, b := newTestService(t)

	_, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{},
		"profile-author", testServerID, testChannelID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Empty(t, b.published, "nothing published for a rejected mutation")
}

func TestCreateChannelMessage_FileOnlyIsAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)

	fileURL := "https://cdn.example.com/pic.png"
	payload, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{FileURL: &fileURL},
		"profile-author", testServerID, testChannelID)
	require.Nil(t, err)
	assert.Equal(t, fileURL, *payload.FileURL)
}

func TestCreateChannelMessage_RequiresMembership(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "hello"},
		"profile-stranger", testServerID, testChannelID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}

func TestUpdateChannelMessage_AuthorOnly(t *testing.T) {
	svc, _, b := newTestService(t)

	created, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "v1"},
		"profile-author", testServerID, testChannelID)
	require.Nil(t, err)

	// even an elevated role cannot edit someone else's message
	_, err = svc.UpdateChannelMessage(context.Background(),
		chat_dto.UpdateMessageRequest{Content: "hijacked"},
		"profile-admin", testServerID, testChannelID, created.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Code)

	updated, err := svc.UpdateChannelMessage(context.Background(),
		chat_dto.UpdateMessageRequest{Content: "v2"},
		"profile-author", testServerID, testChannelID, created.ID)
	require.Nil(t, err)
	assert.Equal(t, "v2", updated.Content)

	last := b.published[len(b.published)-1]
	assert.Equal(t, broker.UpdateTopic(testChannelID), last.topic)
	assert.Equal(t, "v2", last.payload.Content)
}

func TestDeleteChannelMessage_AuthorOrElevated(t *testing.T) {
	svc, _, b := newTestService(t)

	created, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "take this down"},
		"profile-author", testServerID, testChannelID)
	require.Nil(t, err)

	_, err = svc.DeleteChannelMessage(context.Background(),
		"profile-guest", testServerID, testChannelID, created.ID)
	require.NotNil(t, err, "an uninvolved guest cannot delete")
	assert.Equal(t, http.StatusUnauthorized, err.Code)

	deleted, err := svc.DeleteChannelMessage(context.Background(),
		"profile-admin", testServerID, testChannelID, created.ID)
	require.Nil(t, err, "a moderator or admin can delete any message")

	assert.True(t, deleted.Deleted)
	assert.Equal(t, entity.DeletedContent, deleted.Content)
	assert.Nil(t, deleted.FileURL)

	last := b.published[len(b.published)-1]
	assert.Equal(t, broker.UpdateTopic(testChannelID), last.topic)
	assert.True(t, last.payload.Deleted)
}

func TestDeletedMessageRejectsFurtherMutation(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "short lived"},
		"profile-author", testServerID, testChannelID)
	require.Nil(t, err)

	_, err = svc.DeleteChannelMessage(context.Background(),
		"profile-author", testServerID, testChannelID, created.ID)
	require.Nil(t, err)

	_, err = svc.UpdateChannelMessage(context.Background(),
		chat_dto.UpdateMessageRequest{Content: "resurrect"},
		"profile-author", testServerID, testChannelID, created.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)

	_, err = svc.DeleteChannelMessage(context.Background(),
		"profile-author", testServerID, testChannelID, created.ID)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}

func TestCreateChannelMessage_SucceedsWhenPublishFails(t *testing.T) {
	svc, repo, b := newTestService(t)
	b.fail = true

	payload, err := svc.CreateChannelMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "still stored"},
		"profile-author", testServerID, testChannelID)
	require.Nil(t, err, "a dead broker must not fail the mutation")
	assert.Contains(t, repo.messages, payload.ID)
}

func TestListChannelMessages_CursorOnFullPageOnly(t *testing.T) {
	svc, _, _ := newTestService(t)

	for i := 0; i < 4; i++ {
		_, err := svc.CreateChannelMessage(context.Background(),
			chat_dto.CreateMessageRequest{Content: fmt.Sprintf("msg %d", i)},
			"profile-author", testServerID, testChannelID)
		require.Nil(t, err)
	}

	// PageSize is 3: first page full, cursor set to its oldest item
	page, err := svc.ListChannelMessages(context.Background(), testChannelID, nil)
	require.Nil(t, err)
	require.Len(t, page.Items, 3)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, page.Items[2].ID, *page.NextCursor)

	// second page is short, so the walk ends
	page, err = svc.ListChannelMessages(context.Background(), testChannelID, page.NextCursor)
	require.Nil(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.NextCursor)
}

func TestDirectMessages_ParticipantsOnly(t *testing.T) {
	svc, repo, b := newTestService(t)

	conv := &entity.Conversation{
		ID:          "conv-1",
		MemberOneID: "member-author",
		MemberTwoID: "member-guest",
		MemberOne:   &entity.Member{ID: "member-author", ProfileID: "profile-author", Role: entity.RoleGuest},
		MemberTwo:   &entity.Member{ID: "member-guest", ProfileID: "profile-guest", Role: entity.RoleGuest},
	}
	repo.conversations[conv.ID] = conv

	payload, err := svc.CreateDirectMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "psst"},
		"profile-author", conv.ID)
	require.Nil(t, err)
	assert.Equal(t, "member-author", payload.MemberID)
	assert.Equal(t, broker.AddTopic(conv.ID), b.published[len(b.published)-1].topic)

	_, err = svc.CreateDirectMessage(context.Background(),
		chat_dto.CreateMessageRequest{Content: "intruding"},
		"profile-admin", conv.ID)
	require.NotNil(t, err, "a profile outside the conversation cannot post")
	assert.Equal(t, http.StatusNotFound, err.Code)

	deleted, err := svc.DeleteDirectMessage(context.Background(), "profile-author", conv.ID, payload.ID)
	require.Nil(t, err)
	assert.Equal(t, entity.DeletedContent, deleted.Content)
	assert.Equal(t, broker.UpdateTopic(conv.ID), b.published[len(b.published)-1].topic)
}
