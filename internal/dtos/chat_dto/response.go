package chat_dto

import (
	"time"

	"github.com/concordlabs/concord/internal/entity"
)

type ProfilePayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Email    string `json:"email"`
}

type MemberPayload struct {
	ID      string            `json:"id"`
	Role    entity.MemberRole `json:"role"`
	Profile ProfilePayload    `json:"profile"`
}

// MessagePayload is the wire shape for both HTTP responses and broker
// events: the message with its author joined in.
type MessagePayload struct {
	ID             string        `json:"id"`
	Content        string        `json:"content"`
	FileURL        *string       `json:"fileUrl"`
	ChannelID      string        `json:"channelId,omitempty"`
	ConversationID string        `json:"conversationId,omitempty"`
	MemberID       string        `json:"memberId"`
	Member         MemberPayload `json:"member"`
	Deleted        bool          `json:"deleted"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type ListMessagesResponse struct {
	Items      []MessagePayload `json:"items"`
	NextCursor *string          `json:"nextCursor"`
}

func memberPayload(m *entity.Member) MemberPayload {
	if m == nil {
		return MemberPayload{}
	}
	payload := MemberPayload{
		ID:   m.ID,
		Role: m.Role,
	}
	if m.Profile != nil {
		payload.Profile = ProfilePayload{
			ID:       m.Profile.ID,
			Name:     m.Profile.Name,
			ImageURL: m.Profile.ImageURL,
			Email:    m.Profile.Email,
		}
	}
	return payload
}

func FromMessage(msg *entity.Message) MessagePayload {
	return MessagePayload{
		ID:        msg.ID,
		Content:   msg.Content,
		FileURL:   msg.FileURL,
		ChannelID: msg.ChannelID,
		MemberID:  msg.MemberID,
		Member:    memberPayload(msg.Member),
		Deleted:   msg.Deleted,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
	}
}

func FromDirectMessage(msg *entity.DirectMessage) MessagePayload {
	return MessagePayload{
		ID:             msg.ID,
		Content:        msg.Content,
		FileURL:        msg.FileURL,
		ConversationID: msg.ConversationID,
		MemberID:       msg.MemberID,
		Member:         memberPayload(msg.Member),
		Deleted:        msg.Deleted,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      msg.UpdatedAt,
	}
}
