package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Port    string
	BaseURL string

	DB  DBConfig
	JWT JWTConfig

	Codes      CodeConfig
	Limits     RateLimitConfig
	Validation ValidationConfig

	KafkaBrokers []string
	KafkaTopic   string

	// Links created without an account expire after this much time
	// unless the caller asked for an explicit expiry.
	AnonLinkTTL time.Duration

	// Trailing window used by the analytics recent-clicks counter.
	RecentWindow time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Access     string
	AccessExp  time.Duration
	Refresh    string
	RefreshExp time.Duration
}

type CodeConfig struct {
	// Strategy is one of "random", "shortid", "snowflake".
	Strategy    string
	Length      int
	MaxAttempts int
	NodeID      int64
}

type RateLimitConfig struct {
	GlobalPerHour    int
	ShortenPerMinute int
}

type ValidationConfig struct {
	CheckReachability bool
	ProbeTimeout      time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port:    getEnv("APP_PORT", log),
		BaseURL: strings.TrimSuffix(getEnv("BASE_URL", log), "/"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),
		},
		JWT: JWTConfig{
			Access:     getEnv("ACCESS_SECRET", log),
			AccessExp:  parseDurationWithDays(optEnv("ACCESS_EXP", "15m")),
			Refresh:    getEnv("REFRESH_SECRET", log),
			RefreshExp: parseDurationWithDays(optEnv("REFRESH_EXP", "7d")),
		},
		Codes: CodeConfig{
			Strategy:    optEnv("CODE_STRATEGY", "random"),
			Length:      optEnvInt("CODE_LENGTH", 6),
			MaxAttempts: optEnvInt("CODE_MAX_ATTEMPTS", 10),
			NodeID:      int64(optEnvInt("CODE_NODE_ID", 1)),
		},
		Limits: RateLimitConfig{
			GlobalPerHour:    optEnvInt("RATE_LIMIT_PER_HOUR", 100),
			ShortenPerMinute: optEnvInt("SHORTEN_LIMIT_PER_MINUTE", 10),
		},
		Validation: ValidationConfig{
			CheckReachability: optEnv("URL_CHECK_REACHABILITY", "false") == "true",
			ProbeTimeout:      parseDurationWithDays(optEnv("URL_PROBE_TIMEOUT", "5s")),
		},
		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   optEnv("KAFKA_TOPIC_LINKS", "link-events"),
		AnonLinkTTL:  parseDurationWithDays(optEnv("ANON_LINK_TTL", "7d")),
		RecentWindow: parseDurationWithDays(optEnv("RECENT_WINDOW", "7d")),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func optEnv(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return fallback
}

func optEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

// parseDurationWithDays accepts the standard time.ParseDuration syntax plus a
// "d" suffix for days ("7d" == 168h).
func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0
		}
		return time.Duration(days) * 24 * time.Hour
	}
	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
