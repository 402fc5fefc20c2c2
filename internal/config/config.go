package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr      = ":8080"
	defaultMatchRadiusKm   = "50"
	defaultRatingFloor     = "3.0"
	defaultRatingMinimum   = "3"
	defaultBidWindow       = "48h"
	defaultClosingSoonLead = "24h"
	defaultAITimeout       = "20s"
	defaultAIRetries       = "2"
	defaultJWTTTL          = "24h"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultDispatchWorkers = "8"
	defaultPublicBaseURL   = "http://localhost:8080"
)

// Config holds the platform's runtime tunables. Matching radius and the
// rating thresholds are product parameters, not code constants.
type Config struct {
	AppEnv        string
	ListenAddr    string
	DatabaseURL   string
	PublicBaseURL string

	// Matching
	MatchRadiusKm   float64
	DispatchWorkers int

	// Rating engine
	RatingFloor      float64
	RatingMinReviews int

	// Bidding window
	BidWindow       time.Duration
	ClosingSoonLead time.Duration

	// External AI calls
	AnthropicAPIKey string
	AITimeout       time.Duration
	AIMaxRetries    int

	// Auth
	JWTSecret string
	JWTTTL    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL), "/")
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.AnthropicAPIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	if cfg.MatchRadiusKm, err = parseFloatEnv("MATCH_RADIUS_KM", defaultMatchRadiusKm); err != nil {
		return nil, err
	}
	if cfg.RatingFloor, err = parseFloatEnv("RATING_FLOOR", defaultRatingFloor); err != nil {
		return nil, err
	}
	if cfg.RatingMinReviews, err = parseIntEnv("RATING_MIN_REVIEWS", defaultRatingMinimum); err != nil {
		return nil, err
	}
	if cfg.DispatchWorkers, err = parseIntEnv("DISPATCH_WORKERS", defaultDispatchWorkers); err != nil {
		return nil, err
	}
	if cfg.AIMaxRetries, err = parseIntEnv("AI_MAX_RETRIES", defaultAIRetries); err != nil {
		return nil, err
	}
	if cfg.BidWindow, err = parseDurationEnv("BID_WINDOW", defaultBidWindow); err != nil {
		return nil, err
	}
	if cfg.ClosingSoonLead, err = parseDurationEnv("CLOSING_SOON_LEAD", defaultClosingSoonLead); err != nil {
		return nil, err
	}
	if cfg.AITimeout, err = parseDurationEnv("AI_TIMEOUT", defaultAITimeout); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MatchRadiusKm <= 0 {
		return fmt.Errorf("MATCH_RADIUS_KM must be > 0")
	}
	if cfg.RatingFloor < 0 || cfg.RatingFloor > 5 {
		return fmt.Errorf("RATING_FLOOR must be within [0,5]")
	}
	if cfg.RatingMinReviews < 0 {
		return fmt.Errorf("RATING_MIN_REVIEWS must be >= 0")
	}
	if cfg.BidWindow <= 0 {
		return fmt.Errorf("BID_WINDOW must be > 0")
	}
	if cfg.ClosingSoonLead <= 0 || cfg.ClosingSoonLead >= cfg.BidWindow {
		return fmt.Errorf("CLOSING_SOON_LEAD must be > 0 and shorter than BID_WINDOW")
	}
	if cfg.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be > 0")
	}
	if cfg.AIMaxRetries < 0 {
		return fmt.Errorf("AI_MAX_RETRIES must be >= 0")
	}
	if cfg.DispatchWorkers <= 0 {
		return fmt.Errorf("DISPATCH_WORKERS must be > 0")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("in prod/release DATABASE_URL must be set")
		}
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

func parseFloatEnv(key, def string) (float64, error) {
	raw := getEnv(key, def)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", key, raw, err)
	}
	return f, nil
}

func parseIntEnv(key, def string) (int, error) {
	raw := getEnv(key, def)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return n, nil
}
