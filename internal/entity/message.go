package entity

import (
	"time"
)

// DeletedContent replaces the body of a soft-deleted message. Rows
// are never removed, only scrubbed.
const DeletedContent = "This message has been deleted."

type Message struct {
	ID        string `gorm:"primaryKey"`
	Content   string `gorm:"not null"`
	FileURL   *string
	ChannelID string `gorm:"not null;index:idx_messages_channel_created"`
	MemberID  string `gorm:"not null;index"`
	Member    *Member
	Deleted   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_messages_channel_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type DirectMessage struct {
	ID             string `gorm:"primaryKey"`
	Content        string `gorm:"not null"`
	FileURL        *string
	ConversationID string `gorm:"not null;index:idx_direct_messages_conv_created"`
	MemberID       string `gorm:"not null;index"`
	Member         *Member
	Deleted        bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_direct_messages_conv_created"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}
