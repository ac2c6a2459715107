package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
)

const maxActiveKeys = 5

type APIKeyService struct {
	keys *repository.APIKeyRepository
	log  *zap.Logger
}

func NewAPIKeyService(keys *repository.APIKeyRepository, log *zap.Logger) *APIKeyService {
	return &APIKeyService{
		keys: keys,
		log:  log,
	}
}

// Create issues a new key for the user. The key value is only returned here;
// listings redact it.
func (s *APIKeyService) Create(userID uuid.UUID, name string) (*models.APIKey, error) {
	active, err := s.keys.CountActive(userID)
	if err != nil {
		return nil, err
	}
	if active >= maxActiveKeys {
		return nil, ErrKeyLimit
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	key := &models.APIKey{
		UserID:   userID,
		Key:      hex.EncodeToString(raw),
		Name:     name,
		IsActive: true,
	}
	if err := s.keys.Create(key); err != nil {
		s.log.Error("failed to create api key", zap.Error(err))
		return nil, err
	}
	return key, nil
}

func (s *APIKeyService) List(userID uuid.UUID) ([]models.APIKey, error) {
	return s.keys.ListByUser(userID)
}

func (s *APIKeyService) Delete(id, userID uuid.UUID) error {
	key, err := s.keys.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeyNotFound
		}
		return err
	}
	return s.keys.Delete(key)
}

// Toggle flips the active flag and returns the updated key.
func (s *APIKeyService) Toggle(id, userID uuid.UUID) (*models.APIKey, error) {
	key, err := s.keys.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	if err := s.keys.SetActive(key.ID, !key.IsActive); err != nil {
		return nil, err
	}
	key.IsActive = !key.IsActive
	return key, nil
}

// Authenticate resolves a key value to its owner and touches last_used.
func (s *APIKeyService) Authenticate(value string) (*models.User, error) {
	key, err := s.keys.FindActiveByKey(value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if err := s.keys.TouchLastUsed(key.ID, time.Now()); err != nil {
		s.log.Warn("failed to update api key last_used", zap.Error(err))
	}
	return &key.User, nil
}
