package entity

import (
	"time"
)

type MemberRole string

const (
	RoleAdmin     MemberRole = "ADMIN"
	RoleModerator MemberRole = "MODERATOR"
	RoleGuest     MemberRole = "GUEST"
)

// Elevated reports whether the role grants moderation rights over
// other members' messages.
func (r MemberRole) Elevated() bool {
	return r == RoleAdmin || r == RoleModerator
}

type ChannelType string

const (
	ChannelText  ChannelType = "TEXT"
	ChannelAudio ChannelType = "AUDIO"
	ChannelVideo ChannelType = "VIDEO"
)

type Server struct {
	ID         string `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	ImageURL   string
	InviteCode string `gorm:"uniqueIndex"`
	ProfileID  string `gorm:"not null;index"`
	Members    []Member
	Channels   []Channel
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type Member struct {
	ID        string     `gorm:"primaryKey"`
	Role      MemberRole `gorm:"not null;default:GUEST"`
	ProfileID string     `gorm:"not null;index"`
	Profile   *Profile
	ServerID  string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Channel struct {
	ID        string      `gorm:"primaryKey"`
	Name      string      `gorm:"not null"`
	Type      ChannelType `gorm:"not null;default:TEXT"`
	ProfileID string      `gorm:"not null"`
	ServerID  string      `gorm:"not null;index"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime"`
}
