package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
)

// ClickService is the analytics read path: pure queries over the click
// trail, no side effects.
type ClickService struct {
	clicks *repository.ClickRepository
	links  *repository.LinkRepository
	window time.Duration
	log    *zap.Logger
}

func NewClickService(clicks *repository.ClickRepository, links *repository.LinkRepository, window time.Duration, log *zap.Logger) *ClickService {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &ClickService{
		clicks: clicks,
		links:  links,
		window: window,
		log:    log,
	}
}

type Summary struct {
	ShortCode    string
	OriginalURL  string
	ClickCount   int64
	RecentClicks int64
	IsExpired    bool
	CreatedAt    time.Time
	ExpiresAt    *time.Time
}

// Summarize aggregates click data for a code. Expired links are still
// summarized; only redirection refuses them.
func (s *ClickService) Summarize(code string) (*Summary, error) {
	link, err := s.lookup(code)
	if err != nil {
		return nil, err
	}

	recent, err := s.clicks.CountSince(link.ID, time.Now().Add(-s.window))
	if err != nil {
		s.log.Error("recent clicks query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &Summary{
		ShortCode:    link.ShortCode,
		OriginalURL:  link.OriginalURL,
		ClickCount:   link.ClickCount,
		RecentClicks: recent,
		IsExpired:    link.Expired(time.Now()),
		CreatedAt:    link.CreatedAt,
		ExpiresAt:    link.ExpiresAt,
	}, nil
}

type Detail struct {
	Summary
	HasPassword bool
	Recent      []models.Click
}

// Detail is the owner view: the summary plus the newest click rows.
func (s *ClickService) Detail(code string, userID uuid.UUID, limit int) (*Detail, error) {
	link, err := s.lookup(code)
	if err != nil {
		return nil, err
	}
	if link.UserID == nil || *link.UserID != userID {
		return nil, ErrNotFound
	}

	summary, err := s.Summarize(code)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	recent, err := s.clicks.Recent(link.ID, limit)
	if err != nil {
		s.log.Error("recent click rows query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &Detail{
		Summary:     *summary,
		HasPassword: link.HasPassword(),
		Recent:      recent,
	}, nil
}

type UserStats struct {
	TotalLinks   int64
	ActiveLinks  int64
	ExpiredLinks int64
	TotalClicks  int64
	RecentClicks int64
}

func (s *ClickService) UserStats(userID uuid.UUID) (*UserStats, error) {
	links, err := s.links.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	stats := &UserStats{TotalLinks: int64(len(links))}
	now := time.Now()
	for _, link := range links {
		stats.TotalClicks += link.ClickCount
		if link.Expired(now) {
			stats.ExpiredLinks++
		} else if link.IsActive {
			stats.ActiveLinks++
		}
	}

	recent, err := s.clicks.CountSinceForUser(userID, now.Add(-s.window))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	stats.RecentClicks = recent
	return stats, nil
}

func (s *ClickService) lookup(code string) (*models.Link, error) {
	link, err := s.links.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("link lookup failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return link, nil
}
