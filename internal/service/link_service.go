package service

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/producer"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
	"github.com/Adelodunpeter25/url-shortener/internal/shortcode"
	"github.com/Adelodunpeter25/url-shortener/internal/validate"
)

const (
	minExpiryDays = 1
	maxExpiryDays = 365
	maxURLLength  = 2048
)

type LinkService struct {
	links     *repository.LinkRepository
	gen       *shortcode.Generator
	validator *validate.URLValidator
	cfg       *config.Config
	log       *zap.Logger
}

func NewLinkService(links *repository.LinkRepository, gen *shortcode.Generator, validator *validate.URLValidator, cfg *config.Config, log *zap.Logger) *LinkService {
	return &LinkService{
		links:     links,
		gen:       gen,
		validator: validator,
		cfg:       cfg,
		log:       log,
	}
}

type SubmitOptions struct {
	ExpiresInDays int // 0 means no explicit expiry
	Password      string
	CustomAlias   string
	UserID        *uuid.UUID
}

// Submit validates and persists a new short link. The second return value
// reports whether an existing link was reused instead of created.
func (s *LinkService) Submit(originalURL string, opts SubmitOptions) (*models.Link, bool, error) {
	normalized, err := s.checkTarget(originalURL)
	if err != nil {
		return nil, false, err
	}

	expiresAt, err := s.expiry(opts)
	if err != nil {
		return nil, false, err
	}

	// Reuse an existing mapping only when it would be indistinguishable to
	// the caller: same owner, no password, no custom alias requested.
	if opts.Password == "" && opts.CustomAlias == "" {
		existing, err := s.links.FindActiveByTarget(normalized, opts.UserID)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, s.storeErr("dedup lookup failed", err)
		}
	}

	var passwordHash *string
	if opts.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error("failed to hash link password", zap.Error(err))
			return nil, false, err
		}
		h := string(hash)
		passwordHash = &h
	}

	link, err := s.allocate(normalized, opts, passwordHash, expiresAt)
	if err != nil {
		return nil, false, err
	}

	s.notifyCreated(link)
	return link, false, nil
}

// checkTarget enforces the syntactic contract and defers the safety veto to
// the validator collaborator. Returns the normalized URL stored and deduped on.
func (s *LinkService) checkTarget(originalURL string) (string, error) {
	if originalURL == "" || len(originalURL) > maxURLLength {
		return "", ErrInvalidURL
	}
	parsed, err := url.Parse(originalURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrInvalidURL
	}

	normalized, err := validate.Normalize(originalURL)
	if err != nil {
		return "", ErrInvalidURL
	}

	if err := s.validator.Vet(normalized); err != nil {
		s.log.Warn("url rejected", zap.String("url", normalized), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRejectedURL, err)
	}
	return normalized, nil
}

func (s *LinkService) expiry(opts SubmitOptions) (*time.Time, error) {
	if opts.ExpiresInDays != 0 {
		if opts.ExpiresInDays < minExpiryDays || opts.ExpiresInDays > maxExpiryDays {
			return nil, ErrInvalidExpiry
		}
		t := time.Now().AddDate(0, 0, opts.ExpiresInDays)
		return &t, nil
	}
	// Anonymous links always expire.
	if opts.UserID == nil && s.cfg.AnonLinkTTL > 0 {
		t := time.Now().Add(s.cfg.AnonLinkTTL)
		return &t, nil
	}
	return nil, nil
}

// allocate inserts the link, drawing codes until the unique constraint lets
// one through. The check-then-insert race is avoided on purpose: collisions
// are detected by the insert itself.
func (s *LinkService) allocate(normalized string, opts SubmitOptions, passwordHash *string, expiresAt *time.Time) (*models.Link, error) {
	attempts := s.cfg.Codes.MaxAttempts
	if attempts <= 0 {
		attempts = 10
	}
	if opts.CustomAlias != "" || s.gen.Deterministic() {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		code := opts.CustomAlias
		if code == "" {
			var err error
			code, err = s.gen.Next()
			if err != nil {
				s.log.Error("code generation failed", zap.Error(err))
				return nil, fmt.Errorf("%w: %v", ErrAllocationExhausted, err)
			}
		} else if !shortcode.ValidAlias(code) {
			return nil, ErrInvalidAlias
		}

		link := &models.Link{
			UserID:       opts.UserID,
			OriginalURL:  normalized,
			ShortCode:    code,
			PasswordHash: passwordHash,
			IsActive:     true,
			ExpiresAt:    expiresAt,
		}

		err := s.links.Create(link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, repository.ErrCodeTaken) {
			if opts.CustomAlias != "" {
				return nil, ErrDuplicateCode
			}
			continue
		}
		return nil, s.storeErr("link insert failed", err)
	}
	s.log.Error("short code space exhausted", zap.Int("attempts", attempts))
	return nil, ErrAllocationExhausted
}

func (s *LinkService) notifyCreated(link *models.Link) {
	if len(s.cfg.KafkaBrokers) == 0 {
		return
	}
	evt := producer.LinkCreatedEvent{
		ShortCode:   link.ShortCode,
		ShortURL:    s.ShortURL(link.ShortCode),
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
	}
	if link.UserID != nil {
		evt.UserID = link.UserID.String()
	}
	go func() {
		if err := producer.SendLinkCreated(s.cfg.KafkaBrokers, s.cfg.KafkaTopic, evt); err != nil {
			s.log.Warn("link created event not delivered", zap.Error(err))
		}
	}()
}

type BulkItem struct {
	URL           string
	ExpiresInDays int
	Password      string
}

type BulkResult struct {
	Link   *models.Link
	Reused bool
	Err    error
}

// SubmitBulk processes items independently: one failure never aborts or
// rolls back the others.
func (s *LinkService) SubmitBulk(items []BulkItem, userID *uuid.UUID) []BulkResult {
	results := make([]BulkResult, len(items))
	for i, item := range items {
		link, reused, err := s.Submit(item.URL, SubmitOptions{
			ExpiresInDays: item.ExpiresInDays,
			Password:      item.Password,
			UserID:        userID,
		})
		results[i] = BulkResult{Link: link, Reused: reused, Err: err}
	}
	return results
}

type ClickMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// Redirect resolves a code for redirection. password is the caller-supplied
// password, empty when none was given. On success the click is recorded
// atomically with the counter increment and the link is returned.
//
// Outcomes map onto the lookup states: ErrNotFound, ErrExpired (no click is
// recorded), ErrPasswordRequired / ErrPasswordMismatch (target never leaks),
// or nil with the link for Found-Active / Found-PasswordVerified.
func (s *LinkService) Redirect(code, password string, meta ClickMeta) (*models.Link, error) {
	link, err := s.Lookup(code)
	if err != nil {
		return nil, err
	}

	if !link.IsActive || link.Expired(time.Now()) {
		return nil, ErrExpired
	}

	if link.HasPassword() {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(password)) != nil {
			return nil, ErrPasswordMismatch
		}
	}

	click := &models.Click{
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		ClickedAt: time.Now(),
	}
	if err := s.registerClick(link.ID, click); err != nil {
		return nil, err
	}
	link.ClickCount++
	return link, nil
}

// registerClick records a click with one immediate retry on store failure.
// A link deleted between lookup and increment is not a store failure and
// surfaces as ErrNotFound, never as a retried 5xx.
func (s *LinkService) registerClick(linkID uuid.UUID, click *models.Click) error {
	err := s.links.RegisterClick(linkID, click)
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err = s.links.RegisterClick(linkID, click); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return s.storeErr("click not recorded", err)
	}
	return nil
}

// Lookup fetches a link in any state. Metadata and analytics reads go
// through here; expiry does not hide the row.
func (s *LinkService) Lookup(code string) (*models.Link, error) {
	link, err := s.links.GetByCode(code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		// One immediate retry before surfacing a store failure.
		link, err = s.links.GetByCode(code)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.storeErr("link lookup failed", err)
	}
	return link, nil
}

func (s *LinkService) ListOwned(userID uuid.UUID) ([]*models.Link, error) {
	links, err := s.links.GetByUserID(userID)
	if err != nil {
		return nil, s.storeErr("owned links lookup failed", err)
	}
	return links, nil
}

// DeleteOwned removes a caller's link and its click trail.
func (s *LinkService) DeleteOwned(code string, userID uuid.UUID) error {
	link, err := s.links.GetByCodeAndUser(code, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return s.storeErr("owned link lookup failed", err)
	}
	if err := s.links.DeleteWithClicks(link); err != nil {
		return s.storeErr("link delete failed", err)
	}
	return nil
}

func (s *LinkService) ShortURL(code string) string {
	return s.cfg.BaseURL + "/" + code
}

func (s *LinkService) VerifyURL(code string) string {
	return s.cfg.BaseURL + "/verify/" + code
}

// storeErr folds unexpected storage failures into ErrStoreUnavailable, the
// one error kind eligible for retry at the call site.
func (s *LinkService) storeErr(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
