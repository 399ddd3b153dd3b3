package server_dto

import (
	"time"

	"github.com/concordlabs/concord/internal/entity"
)

type ServerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"imageUrl"`
	InviteCode string    `json:"inviteCode"`
	ProfileID  string    `json:"profileId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ChannelResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      entity.ChannelType `json:"type"`
	ServerID  string             `json:"serverId"`
	CreatedAt time.Time          `json:"createdAt"`
}

type MemberResponse struct {
	ID        string            `json:"id"`
	Role      entity.MemberRole `json:"role"`
	ProfileID string            `json:"profileId"`
	ServerID  string            `json:"serverId"`
}

type ConversationResponse struct {
	ID          string `json:"id"`
	MemberOneID string `json:"memberOneId"`
	MemberTwoID string `json:"memberTwoId"`
}

func FromServer(s *entity.Server) ServerResponse {
	return ServerResponse{
		ID:         s.ID,
		Name:       s.Name,
		ImageURL:   s.ImageURL,
		InviteCode: s.InviteCode,
		ProfileID:  s.ProfileID,
		CreatedAt:  s.CreatedAt,
	}
}

func FromChannel(c *entity.Channel) ChannelResponse {
	return ChannelResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		ServerID:  c.ServerID,
		CreatedAt: c.CreatedAt,
	}
}

func FromMember(m *entity.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Role:      m.Role,
		ProfileID: m.ProfileID,
		ServerID:  m.ServerID,
	}
}

func FromConversation(c *entity.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:          c.ID,
		MemberOneID: c.MemberOneID,
		MemberTwoID: c.MemberTwoID,
	}
}
