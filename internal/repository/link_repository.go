package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
)

// ErrCodeTaken signals a unique-constraint violation on short_code.
var ErrCodeTaken = errors.New("short code already exists")

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

// Create inserts the link relying on the unique index for code collisions;
// callers retry with a fresh code on ErrCodeTaken. Never check-then-insert.
func (r *LinkRepository) Create(link *models.Link) error {
	if err := r.db.Create(link).Error; err != nil {
		if isDuplicate(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

func (r *LinkRepository) GetByCode(code string) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("short_code = ?", code).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// FindActiveByTarget looks up a reusable link: same owner, same normalized
// target, active, not expired and not password protected.
func (r *LinkRepository) FindActiveByTarget(originalURL string, userID *uuid.UUID) (*models.Link, error) {
	q := r.db.Where("original_url = ? AND is_active = ? AND password_hash IS NULL AND (expires_at IS NULL OR expires_at > ?)",
		originalURL, true, time.Now())
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL")
	}
	var link models.Link
	if err := q.First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// RegisterClick applies the counter increment and the click insert in one
// transaction so click_count never diverges from the stored click rows.
func (r *LinkRepository) RegisterClick(linkID uuid.UUID, click *models.Click) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Link{}).
			Where("id = ?", linkID).
			UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		click.LinkID = linkID
		return tx.Create(click).Error
	})
}

func (r *LinkRepository) GetByUserID(userID uuid.UUID) ([]*models.Link, error) {
	var links []*models.Link
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *LinkRepository) GetByCodeAndUser(code string, userID uuid.UUID) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("short_code = ? AND user_id = ?", code, userID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteWithClicks removes a link together with its click trail.
func (r *LinkRepository) DeleteWithClicks(link *models.Link) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", link.ID).Delete(&models.Click{}).Error; err != nil {
			return err
		}
		return tx.Delete(link).Error
	})
}

func (r *LinkRepository) DeactivateExpired(now time.Time) (int64, error) {
	res := r.db.Model(&models.Link{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// FindAnonExpiredBefore lists anonymous links whose expiry passed before the
// cutoff; maintenance purges them together with their clicks.
func (r *LinkRepository) FindAnonExpiredBefore(cutoff time.Time) ([]models.Link, error) {
	var links []models.Link
	err := r.db.Where("user_id IS NULL AND expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Find(&links).Error
	return links, err
}

// List returns a page of links, newest first, with owners preloaded.
func (r *LinkRepository) List(offset, limit int) ([]models.Link, error) {
	var links []models.Link
	err := r.db.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit).Find(&links).Error
	return links, err
}

func (r *LinkRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *LinkRepository) SumClicksByUser(userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.Model(&models.Link{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(click_count), 0)").Scan(&total).Error
	return total, err
}

func (r *LinkRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).Count(&count).Error
	return count, err
}

func (r *LinkRepository) CountAnonymous() (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).Where("user_id IS NULL").Count(&count).Error
	return count, err
}

func (r *LinkRepository) CountExpired(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Count(&count).Error
	return count, err
}

func (r *LinkRepository) CountPasswordProtected() (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).Where("password_hash IS NOT NULL").Count(&count).Error
	return count, err
}

func (r *LinkRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Link{}).Where("created_at > ?", t).Count(&count).Error
	return count, err
}

func (r *LinkRepository) SumClicks() (int64, error) {
	var total int64
	err := r.db.Model(&models.Link{}).
		Select("COALESCE(SUM(click_count), 0)").
		Scan(&total).Error
	return total, err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
