package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
)

// AdminService aggregates system-wide statistics for the admin surface.
type AdminService struct {
	users  *repository.UserRepository
	links  *repository.LinkRepository
	clicks *repository.ClickRepository
	window time.Duration
	log    *zap.Logger
}

func NewAdminService(users *repository.UserRepository, links *repository.LinkRepository, clicks *repository.ClickRepository, window time.Duration, log *zap.Logger) *AdminService {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &AdminService{
		users:  users,
		links:  links,
		clicks: clicks,
		window: window,
		log:    log,
	}
}

type SystemStats struct {
	TotalUsers        int64
	AdminUsers        int64
	RecentUsers       int64
	TotalLinks        int64
	AnonymousLinks    int64
	ExpiredLinks      int64
	PasswordProtected int64
	RecentLinks       int64
	TotalClicks       int64
	RecentClicks      int64
}

func (s *AdminService) SystemStats() (*SystemStats, error) {
	now := time.Now()
	since := now.Add(-s.window)
	stats := &SystemStats{}

	steps := []struct {
		dst  *int64
		load func() (int64, error)
	}{
		{&stats.TotalUsers, s.users.Count},
		{&stats.AdminUsers, s.users.CountAdmins},
		{&stats.RecentUsers, func() (int64, error) { return s.users.CountCreatedSince(since) }},
		{&stats.TotalLinks, s.links.CountAll},
		{&stats.AnonymousLinks, s.links.CountAnonymous},
		{&stats.ExpiredLinks, func() (int64, error) { return s.links.CountExpired(now) }},
		{&stats.PasswordProtected, s.links.CountPasswordProtected},
		{&stats.RecentLinks, func() (int64, error) { return s.links.CountCreatedSince(since) }},
		{&stats.TotalClicks, s.links.SumClicks},
		{&stats.RecentClicks, func() (int64, error) { return s.clicks.CountAllSince(since) }},
	}
	for _, step := range steps {
		n, err := step.load()
		if err != nil {
			s.log.Error("system stats query failed", zap.Error(err))
			return nil, err
		}
		*step.dst = n
	}
	return stats, nil
}

const maxPageSize = 100

// pageBounds clamps a page request to sane offsets. def is the per-page
// default when the caller asked for nothing.
func pageBounds(page, perPage, def int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > maxPageSize {
		perPage = maxPageSize
	}
	return (page - 1) * perPage, perPage
}

type UserOverview struct {
	User        models.User
	LinkCount   int64
	TotalClicks int64
}

// ListUsers returns a page of accounts with their link and click totals,
// plus the overall account count for pagination.
func (s *AdminService) ListUsers(page, perPage int) ([]UserOverview, int64, error) {
	offset, limit := pageBounds(page, perPage, 20)

	total, err := s.users.Count()
	if err != nil {
		return nil, 0, err
	}
	users, err := s.users.List(offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]UserOverview, len(users))
	for i := range users {
		linkCount, err := s.links.CountByUser(users[i].ID)
		if err != nil {
			return nil, 0, err
		}
		clicks, err := s.links.SumClicksByUser(users[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i] = UserOverview{User: users[i], LinkCount: linkCount, TotalClicks: clicks}
	}
	return out, total, nil
}

// UpdateUserRole promotes or demotes an account. An admin can never demote
// themselves; that would let the last admin lock everyone out.
func (s *AdminService) UpdateUserRole(actorID, targetID uuid.UUID, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if actorID == targetID && role != models.RoleAdmin {
		return nil, ErrSelfDemotion
	}

	user, err := s.users.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.users.UpdateRole(user.ID, role); err != nil {
		s.log.Error("role update failed", zap.Error(err))
		return nil, err
	}
	user.Role = role
	s.log.Info("user role updated",
		zap.String("user_id", user.ID.String()), zap.String("role", role))
	return user, nil
}

// ListLinks returns a page of all links, newest first, owners included.
func (s *AdminService) ListLinks(page, perPage int) ([]models.Link, int64, error) {
	offset, limit := pageBounds(page, perPage, 50)

	total, err := s.links.CountAll()
	if err != nil {
		return nil, 0, err
	}
	links, err := s.links.List(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// DeleteLink removes any link and its click trail, regardless of owner.
func (s *AdminService) DeleteLink(code string) (*models.Link, error) {
	link, err := s.getLink(code)
	if err != nil {
		return nil, err
	}
	if err := s.links.DeleteWithClicks(link); err != nil {
		s.log.Error("admin link delete failed", zap.Error(err))
		return nil, err
	}
	s.log.Info("link deleted by admin", zap.String("short_code", code))
	return link, nil
}

func (s *AdminService) getLink(code string) (*models.Link, error) {
	link, err := s.links.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return link, nil
}
