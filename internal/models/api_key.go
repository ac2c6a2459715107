package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKey struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"foreignKey:UserID"`

	Key      string `gorm:"type:text;uniqueIndex;not null"`
	Name     string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"not null"`
	LastUsed *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (m *APIKey) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
