package entity

import (
	"time"
)

// Conversation is the one-to-one scope between two server members.
// The member pair is stored ordered as created; lookups must try
// both orderings.
type Conversation struct {
	ID          string `gorm:"primaryKey"`
	MemberOneID string `gorm:"not null;index:idx_conversation_pair,unique"`
	MemberOne   *Member
	MemberTwoID string `gorm:"not null;index:idx_conversation_pair,unique"`
	MemberTwo   *Member
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
