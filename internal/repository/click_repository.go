package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
)

type ClickRepository struct {
	db *gorm.DB
}

func NewClickRepository(db *gorm.DB) *ClickRepository {
	return &ClickRepository{
		db: db,
	}
}

func (r *ClickRepository) GetCount(linkID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Click{}).
		Where("link_id = ?", linkID).
		Count(&count).Error
	return count, err
}

func (r *ClickRepository) CountSince(linkID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Click{}).
		Where("link_id = ? AND clicked_at > ?", linkID, since).
		Count(&count).Error
	return count, err
}

func (r *ClickRepository) CountAllSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Click{}).
		Where("clicked_at > ?", since).
		Count(&count).Error
	return count, err
}

// Recent returns the newest clicks for a link, newest first.
func (r *ClickRepository) Recent(linkID uuid.UUID, limit int) ([]models.Click, error) {
	var clicks []models.Click
	err := r.db.Where("link_id = ?", linkID).
		Order("clicked_at DESC").
		Limit(limit).
		Find(&clicks).Error
	return clicks, err
}

func (r *ClickRepository) CountSinceForUser(userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Click{}).
		Joins("JOIN links ON links.id = clicks.link_id").
		Where("links.user_id = ? AND clicks.clicked_at > ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *ClickRepository) DeleteByLinkID(linkID uuid.UUID) error {
	return r.db.Where("link_id = ?", linkID).Delete(&models.Click{}).Error
}
