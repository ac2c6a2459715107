package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
	"github.com/Adelodunpeter25/url-shortener/internal/shortcode"
	"github.com/Adelodunpeter25/url-shortener/internal/validate"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A pooled second connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.APIKey{},
		&models.Link{},
		&models.Click{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL: "http://sho.rt",
		Codes: config.CodeConfig{
			Strategy:    shortcode.StrategyRandom,
			Length:      6,
			MaxAttempts: 10,
		},
		AnonLinkTTL:  7 * 24 * time.Hour,
		RecentWindow: 7 * 24 * time.Hour,
	}
}

func newTestService(t *testing.T, db *gorm.DB, cfg *config.Config) *service.LinkService {
	t.Helper()
	gen, err := shortcode.New(cfg.Codes)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	validator := validate.NewURLValidator(false, 0)
	links := repository.NewLinkRepository(db)
	return service.NewLinkService(links, gen, validator, cfg, zap.NewNop())
}

func TestSubmitAndLookup(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	link, reused, err := svc.Submit("HTTPS://Example.COM:443/path/", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reused {
		t.Fatal("fresh submission reported as reused")
	}
	if link.OriginalURL != "https://example.com/path" {
		t.Errorf("normalized url = %q, want %q", link.OriginalURL, "https://example.com/path")
	}
	if len(link.ShortCode) != 6 {
		t.Errorf("code length = %d, want 6", len(link.ShortCode))
	}

	got, err := svc.Lookup(link.ShortCode)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != link.ID {
		t.Errorf("lookup returned link %s, want %s", got.ID, link.ID)
	}
	if want := "http://sho.rt/" + link.ShortCode; svc.ShortURL(link.ShortCode) != want {
		t.Errorf("short url = %q, want %q", svc.ShortURL(link.ShortCode), want)
	}
}

func TestSubmitRejectsBadURLs(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	cases := []struct {
		name string
		url  string
		want error
	}{
		{"empty", "", service.ErrInvalidURL},
		{"relative", "not-a-url", service.ErrInvalidURL},
		{"scheme", "ftp://example.com/file", service.ErrInvalidURL},
		{"no host", "https://", service.ErrInvalidURL},
		{"blocked host", "https://bit.ly/abc", service.ErrRejectedURL},
		{"blocked keyword", "https://example.com/free-malware-download", service.ErrRejectedURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Submit(tc.url, service.SubmitOptions{}); !errors.Is(err, tc.want) {
				t.Errorf("Submit(%q) err = %v, want %v", tc.url, err, tc.want)
			}
		})
	}
}

func TestSubmitExpiry(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	for _, days := range []int{-1, 366} {
		if _, _, err := svc.Submit("https://example.com", service.SubmitOptions{ExpiresInDays: days}); !errors.Is(err, service.ErrInvalidExpiry) {
			t.Errorf("ExpiresInDays=%d err = %v, want ErrInvalidExpiry", days, err)
		}
	}

	// Anonymous links pick up the default TTL.
	anon, _, err := svc.Submit("https://example.com/anon", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit anon: %v", err)
	}
	if anon.ExpiresAt == nil {
		t.Fatal("anonymous link has no expiry")
	}
	if d := time.Until(*anon.ExpiresAt); d < 6*24*time.Hour || d > 8*24*time.Hour {
		t.Errorf("anonymous ttl = %v, want ~7 days", d)
	}

	// Owned links without explicit expiry never expire.
	owner := uuid.New()
	owned, _, err := svc.Submit("https://example.com/owned", service.SubmitOptions{UserID: &owner})
	if err != nil {
		t.Fatalf("submit owned: %v", err)
	}
	if owned.ExpiresAt != nil {
		t.Errorf("owned link expiry = %v, want nil", owned.ExpiresAt)
	}

	explicit, _, err := svc.Submit("https://example.com/explicit", service.SubmitOptions{ExpiresInDays: 30})
	if err != nil {
		t.Fatalf("submit explicit: %v", err)
	}
	if explicit.ExpiresAt == nil {
		t.Fatal("explicit expiry missing")
	}
	if d := time.Until(*explicit.ExpiresAt); d < 29*24*time.Hour || d > 31*24*time.Hour {
		t.Errorf("explicit ttl = %v, want ~30 days", d)
	}
}

func TestSubmitDeduplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	first, _, err := svc.Submit("https://example.com/page", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Same target, differently written, same (anonymous) owner: reused.
	second, reused, err := svc.Submit("HTTPS://EXAMPLE.com/page", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !reused || second.ShortCode != first.ShortCode {
		t.Errorf("got code %q reused=%v, want %q reused=true", second.ShortCode, reused, first.ShortCode)
	}

	// A different owner gets their own link.
	owner := uuid.New()
	third, reused, err := svc.Submit("https://example.com/page", service.SubmitOptions{UserID: &owner})
	if err != nil {
		t.Fatalf("owned submit: %v", err)
	}
	if reused || third.ShortCode == first.ShortCode {
		t.Errorf("owned submission reused the anonymous link %q", first.ShortCode)
	}

	// A password makes the link non-reusable in both directions.
	locked, reused, err := svc.Submit("https://example.com/page", service.SubmitOptions{Password: "s3cret"})
	if err != nil {
		t.Fatalf("password submit: %v", err)
	}
	if reused || locked.ShortCode == first.ShortCode {
		t.Error("password submission reused an open link")
	}
	again, reused, err := svc.Submit("https://example.com/page", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !reused || again.ShortCode != first.ShortCode {
		t.Error("open resubmission did not reuse the open link")
	}
}

func TestSubmitCustomAlias(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	link, reused, err := svc.Submit("https://example.com/a", service.SubmitOptions{CustomAlias: "myLink1"})
	if err != nil {
		t.Fatalf("alias submit: %v", err)
	}
	if reused || link.ShortCode != "myLink1" {
		t.Errorf("got code %q reused=%v, want myLink1", link.ShortCode, reused)
	}

	if _, _, err := svc.Submit("https://example.com/b", service.SubmitOptions{CustomAlias: "myLink1"}); !errors.Is(err, service.ErrDuplicateCode) {
		t.Errorf("duplicate alias err = %v, want ErrDuplicateCode", err)
	}

	for _, alias := range []string{"ab", "has space", "way-too-long-for-an-alias", "bad/char"} {
		if _, _, err := svc.Submit("https://example.com/c", service.SubmitOptions{CustomAlias: alias}); !errors.Is(err, service.ErrInvalidAlias) {
			t.Errorf("alias %q err = %v, want ErrInvalidAlias", alias, err)
		}
	}
}

func TestRedirectRecordsClick(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	link, _, err := svc.Submit("https://example.com/hit", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := svc.Redirect(link.ShortCode, "", service.ClickMeta{IP: "10.0.0.1", UserAgent: "test"})
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	if got.OriginalURL != link.OriginalURL {
		t.Errorf("redirect target = %q, want %q", got.OriginalURL, link.OriginalURL)
	}
	if got.ClickCount != 1 {
		t.Errorf("returned click count = %d, want 1", got.ClickCount)
	}

	stored, err := svc.Lookup(link.ShortCode)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.ClickCount != 1 {
		t.Errorf("stored click count = %d, want 1", stored.ClickCount)
	}
	var rows int64
	if err := db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count clicks: %v", err)
	}
	if rows != 1 {
		t.Errorf("click rows = %d, want 1", rows)
	}
}

func TestRedirectConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	link, _, err := svc.Submit("https://example.com/race", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	const n = 2
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redirect(link.ShortCode, "", service.ClickMeta{IP: fmt.Sprintf("10.0.0.%d", i)})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("redirect %d: %v", i, err)
		}
	}

	stored, err := svc.Lookup(link.ShortCode)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.ClickCount != n {
		t.Errorf("click count = %d, want %d", stored.ClickCount, n)
	}
	var rows int64
	if err := db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count clicks: %v", err)
	}
	if rows != n {
		t.Errorf("click rows = %d, want %d", rows, n)
	}
}

func TestRedirectExpired(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	link, _, err := svc.Submit("https://example.com/old", service.SubmitOptions{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Link{}).Where("id = ?", link.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	// Expired stays expired, and no click is ever recorded.
	for i := 0; i < 2; i++ {
		if _, err := svc.Redirect(link.ShortCode, "", service.ClickMeta{}); !errors.Is(err, service.ErrExpired) {
			t.Fatalf("redirect %d err = %v, want ErrExpired", i, err)
		}
	}
	stored, err := svc.Lookup(link.ShortCode)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.ClickCount != 0 {
		t.Errorf("expired link click count = %d, want 0", stored.ClickCount)
	}

	if _, err := svc.Redirect("nosuch", "", service.ClickMeta{}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown code err = %v, want ErrNotFound", err)
	}
}

func TestRedirectPasswordFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	link, _, err := svc.Submit("https://example.com/vault", service.SubmitOptions{Password: "hunter2"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Redirect(link.ShortCode, "", service.ClickMeta{}); !errors.Is(err, service.ErrPasswordRequired) {
		t.Fatalf("no password err = %v, want ErrPasswordRequired", err)
	}
	if _, err := svc.Redirect(link.ShortCode, "wrong", service.ClickMeta{}); !errors.Is(err, service.ErrPasswordMismatch) {
		t.Fatalf("wrong password err = %v, want ErrPasswordMismatch", err)
	}

	// Failed attempts never count as clicks.
	stored, _ := svc.Lookup(link.ShortCode)
	if stored.ClickCount != 0 {
		t.Errorf("click count after failures = %d, want 0", stored.ClickCount)
	}

	got, err := svc.Redirect(link.ShortCode, "hunter2", service.ClickMeta{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("correct password: %v", err)
	}
	if got.ClickCount != 1 {
		t.Errorf("click count = %d, want 1", got.ClickCount)
	}
}

func TestSubmitBulkIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	results := svc.SubmitBulk([]service.BulkItem{
		{URL: "https://example.com/one"},
		{URL: "not-a-url"},
		{URL: "https://example.com/two"},
	}, nil)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Err != nil || results[0].Link == nil {
		t.Errorf("first item err = %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, service.ErrInvalidURL) {
		t.Errorf("second item err = %v, want ErrInvalidURL", results[1].Err)
	}
	if results[2].Err != nil || results[2].Link == nil {
		t.Errorf("third item err = %v", results[2].Err)
	}
}

func TestListAndDeleteOwned(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, testConfig())

	owner := uuid.New()
	other := uuid.New()
	link, _, err := svc.Submit("https://example.com/mine", service.SubmitOptions{UserID: &owner})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Redirect(link.ShortCode, "", service.ClickMeta{}); err != nil {
		t.Fatalf("redirect: %v", err)
	}

	owned, err := svc.ListOwned(owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(owned) != 1 || owned[0].ShortCode != link.ShortCode {
		t.Fatalf("owned = %v", owned)
	}

	if err := svc.DeleteOwned(link.ShortCode, other); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("foreign delete err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteOwned(link.ShortCode, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Lookup(link.ShortCode); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("lookup after delete err = %v, want ErrNotFound", err)
	}
	var rows int64
	if err := db.Model(&models.Click{}).Where("link_id = ?", link.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count clicks: %v", err)
	}
	if rows != 0 {
		t.Errorf("click rows after delete = %d, want 0", rows)
	}
}

func TestAllocationExhausted(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.Codes.Length = 1
	cfg.Codes.MaxAttempts = 5
	svc := newTestService(t, db, cfg)

	// Occupy the whole single-character code space.
	links := repository.NewLinkRepository(db)
	for _, c := range shortcode.Alphabet {
		err := links.Create(&models.Link{
			OriginalURL: "https://example.com/taken/" + string(c),
			ShortCode:   string(c),
			IsActive:    true,
		})
		if err != nil {
			t.Fatalf("seed %q: %v", string(c), err)
		}
	}

	if _, _, err := svc.Submit("https://example.com/fresh", service.SubmitOptions{}); !errors.Is(err, service.ErrAllocationExhausted) {
		t.Errorf("err = %v, want ErrAllocationExhausted", err)
	}
}
