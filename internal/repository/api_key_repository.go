package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{
		db: db,
	}
}

func (r *APIKeyRepository) Create(key *models.APIKey) error {
	return r.db.Create(key).Error
}

// FindActiveByKey resolves an API key value to its owning user.
func (r *APIKeyRepository) FindActiveByKey(key string) (*models.APIKey, error) {
	var apiKey models.APIKey
	if err := r.db.Preload("User").Where("key = ? AND is_active = ?", key, true).First(&apiKey).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

func (r *APIKeyRepository) ListByUser(userID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

func (r *APIKeyRepository) FindByIDAndUser(id, userID uuid.UUID) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepository) CountActive(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.APIKey{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *APIKeyRepository) Delete(key *models.APIKey) error {
	return r.db.Delete(key).Error
}

func (r *APIKeyRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&models.APIKey{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *APIKeyRepository) TouchLastUsed(id uuid.UUID, t time.Time) error {
	return r.db.Model(&models.APIKey{}).Where("id = ?", id).Update("last_used", t).Error
}
