package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Click is one redirect occurrence. Rows are append-only: nothing in the
// request path ever updates or deletes them.
type Click struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LinkID uuid.UUID `gorm:"type:uuid;not null;index"`
	Link   Link      `gorm:"foreignKey:LinkID"`

	IP        string    `gorm:"type:text;not null"`
	UserAgent string    `gorm:"type:text"`
	Referrer  string    `gorm:"type:text"`
	ClickedAt time.Time `gorm:"autoCreateTime;index"`
}

func (m *Click) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
