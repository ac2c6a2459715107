package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

func newAnalytics(t *testing.T, db *gorm.DB, cfg *config.Config) *service.ClickService {
	t.Helper()
	clicks := repository.NewClickRepository(db)
	links := repository.NewLinkRepository(db)
	return service.NewClickService(clicks, links, cfg.RecentWindow, zap.NewNop())
}

func TestSummarize(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	links := newTestService(t, db, cfg)
	analytics := newAnalytics(t, db, cfg)

	link, _, err := links.Submit("https://example.com/stats", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	sum, err := analytics.Summarize(link.ShortCode)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.ClickCount != 0 || sum.RecentClicks != 0 || sum.IsExpired {
		t.Errorf("fresh summary = %+v, want zero counts and not expired", sum)
	}
	if sum.OriginalURL != link.OriginalURL {
		t.Errorf("original url = %q, want %q", sum.OriginalURL, link.OriginalURL)
	}

	for i := 0; i < 3; i++ {
		if _, err := links.Redirect(link.ShortCode, "", service.ClickMeta{IP: "10.0.0.1"}); err != nil {
			t.Fatalf("redirect %d: %v", i, err)
		}
	}

	sum, err = analytics.Summarize(link.ShortCode)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.ClickCount != 3 || sum.RecentClicks != 3 {
		t.Errorf("counts = %d/%d, want 3/3", sum.ClickCount, sum.RecentClicks)
	}

	if _, err := analytics.Summarize("nosuch"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown code err = %v, want ErrNotFound", err)
	}
}

func TestSummarizeRecentWindow(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	links := newTestService(t, db, cfg)
	analytics := newAnalytics(t, db, cfg)

	link, _, err := links.Submit("https://example.com/window", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := links.Redirect(link.ShortCode, "", service.ClickMeta{}); err != nil {
			t.Fatalf("redirect %d: %v", i, err)
		}
	}

	// Push one click outside the trailing window.
	var click models.Click
	if err := db.Where("link_id = ?", link.ID).First(&click).Error; err != nil {
		t.Fatalf("load click: %v", err)
	}
	old := time.Now().Add(-8 * 24 * time.Hour)
	if err := db.Model(&models.Click{}).Where("id = ?", click.ID).Update("clicked_at", old).Error; err != nil {
		t.Fatalf("backdate click: %v", err)
	}

	sum, err := analytics.Summarize(link.ShortCode)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.ClickCount != 2 {
		t.Errorf("total clicks = %d, want 2", sum.ClickCount)
	}
	if sum.RecentClicks != 1 {
		t.Errorf("recent clicks = %d, want 1", sum.RecentClicks)
	}
}

func TestSummarizeExpiredLink(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	links := newTestService(t, db, cfg)
	analytics := newAnalytics(t, db, cfg)

	link, _, err := links.Submit("https://example.com/gone", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Link{}).Where("id = ?", link.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	// Analytics still answers for expired links; only redirection refuses.
	sum, err := analytics.Summarize(link.ShortCode)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !sum.IsExpired {
		t.Error("summary does not report the link as expired")
	}
}

func TestDetailOwnership(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	links := newTestService(t, db, cfg)
	analytics := newAnalytics(t, db, cfg)

	owner := uuid.New()
	stranger := uuid.New()
	link, _, err := links.Submit("https://example.com/private", service.SubmitOptions{UserID: &owner})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := links.Redirect(link.ShortCode, "", service.ClickMeta{IP: "10.0.0.1", UserAgent: "curl"}); err != nil {
		t.Fatalf("redirect: %v", err)
	}

	detail, err := analytics.Detail(link.ShortCode, owner, 10)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.ClickCount != 1 || len(detail.Recent) != 1 {
		t.Errorf("detail counts = %d/%d rows, want 1/1", detail.ClickCount, len(detail.Recent))
	}
	if detail.Recent[0].UserAgent != "curl" {
		t.Errorf("click user agent = %q, want curl", detail.Recent[0].UserAgent)
	}

	// Non-owners cannot even learn the code exists.
	if _, err := analytics.Detail(link.ShortCode, stranger, 10); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("stranger detail err = %v, want ErrNotFound", err)
	}
}

func TestUserStats(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	links := newTestService(t, db, cfg)
	analytics := newAnalytics(t, db, cfg)

	owner := uuid.New()
	active, _, err := links.Submit("https://example.com/a", service.SubmitOptions{UserID: &owner})
	if err != nil {
		t.Fatalf("submit a: %v", err)
	}
	expired, _, err := links.Submit("https://example.com/b", service.SubmitOptions{UserID: &owner})
	if err != nil {
		t.Fatalf("submit b: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Link{}).Where("id = ?", expired.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := links.Redirect(active.ShortCode, "", service.ClickMeta{}); err != nil {
			t.Fatalf("redirect %d: %v", i, err)
		}
	}

	stats, err := analytics.UserStats(owner)
	if err != nil {
		t.Fatalf("user stats: %v", err)
	}
	if stats.TotalLinks != 2 || stats.ActiveLinks != 1 || stats.ExpiredLinks != 1 {
		t.Errorf("link counts = %d/%d/%d, want 2/1/1", stats.TotalLinks, stats.ActiveLinks, stats.ExpiredLinks)
	}
	if stats.TotalClicks != 2 || stats.RecentClicks != 2 {
		t.Errorf("click counts = %d/%d, want 2/2", stats.TotalClicks, stats.RecentClicks)
	}
}
