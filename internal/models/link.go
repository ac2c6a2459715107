package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Link struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID *uuid.UUID `gorm:"type:uuid;index"`

	OriginalURL  string  `gorm:"type:text;not null"`
	ShortCode    string  `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash *string `gorm:"type:text"`

	IsActive   bool `gorm:"not null"`
	ExpiresAt  *time.Time
	ClickCount int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Clicks []Click `gorm:"foreignKey:LinkID"`
	User   *User   `gorm:"foreignKey:UserID"`
}

func (m *Link) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// Expired reports whether the link's expiry has passed at the given instant.
// A nil ExpiresAt never expires.
func (m *Link) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && now.After(*m.ExpiresAt)
}

func (m *Link) HasPassword() bool {
	return m.PasswordHash != nil && *m.PasswordHash != ""
}
