package entity

import (
	"time"
)

// Profile mirrors the record the identity provider resolves a
// subject to. UserID is the external subject, ID is ours.
type Profile struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex"`
	Name      string `gorm:"not null"`
	ImageURL  string
	Email     string
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
