// Package config loads application settings from the environment.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cmv-site/logger"
)

// Config holds every setting the server and CLI need.
type Config struct {
	Port    string
	Env     string
	LogDir  string
	AppURL  string // public URL of this site
	BaseDir string // root holding templates/ and static/

	// Remote Content API
	APIBaseURL string
	APITimeout time.Duration

	// Media hosting (Cloudinary). With both set, uploads bypass the API.
	CloudName    string
	UploadPreset string

	// Sessions & admin
	SessionSecret     string
	AdminUsername     string
	AdminPasswordHash string // bcrypt

	// Carousel
	CarouselAutoplay bool
	CarouselInterval time.Duration

	// Public content
	ContentCacheTTL     time.Duration
	SubmitRatePerMinute int
	DonationUPIID       string
	MapEmbedURL         string
	VideoEmbedURL       string
	CGCCEventDate       time.Time

	// Observability
	MetricsEnabled    bool
	CloudWatchEnabled bool
	AWSRegion         string
	XRayEnabled       bool
	SentryDSN         string
}

// ------------------- defaults -------------------

const (
	defaultPort             = "8080"
	defaultAPIBaseURL       = "http://localhost:5000/api"
	defaultCarouselInterval = 3000 // milliseconds
	defaultCacheTTL         = 60 * time.Second
	defaultAPITimeout       = 15 * time.Second
	defaultSubmitRate       = 10
	defaultSessionSecret    = "dev-secret-change-me"
)

// Load reads an optional .env file (or the given files) and then the
// process environment. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Debug.Printf("config.Load: no env file loaded: %v", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", defaultPort),
		Env:                 getEnv("APP_ENV", "development"),
		LogDir:              getEnv("LOG_DIR", "./logs"),
		AppURL:              getEnv("APPLICATION_URL", "http://localhost:8080"),
		BaseDir:             getEnv("BASE_DIR", "."),
		APIBaseURL:          strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
		CloudName:           os.Getenv("CLOUDINARY_CLOUD_NAME"),
		UploadPreset:        os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		SessionSecret:       getEnv("SESSION_SECRET", defaultSessionSecret),
		AdminUsername:       getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:   os.Getenv("ADMIN_PASSWORD_HASH"),
		DonationUPIID:       os.Getenv("DONATION_UPI_ID"),
		MapEmbedURL:         os.Getenv("MAP_EMBED_URL"),
		VideoEmbedURL:       os.Getenv("VIDEO_EMBED_URL"),
		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		CarouselInterval:    defaultCarouselInterval * time.Millisecond,
		ContentCacheTTL:     defaultCacheTTL,
		APITimeout:          defaultAPITimeout,
		SubmitRatePerMinute: defaultSubmitRate,
	}

	var err error
	if cfg.CarouselAutoplay, err = getBool("CAROUSEL_AUTOPLAY", true); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.CloudWatchEnabled, err = getBool("CLOUDWATCH_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.XRayEnabled, err = getBool("XRAY_ENABLED", false); err != nil {
		return nil, err
	}

	if v := os.Getenv("CAROUSEL_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CAROUSEL_INTERVAL_MS: %w", err)
		}
		cfg.CarouselInterval = time.Duration(ms) * time.Millisecond
	}
	if cfg.ContentCacheTTL, err = getDuration("CONTENT_CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", defaultAPITimeout); err != nil {
		return nil, err
	}
	if v := os.Getenv("SUBMIT_RATE_PER_MINUTE"); v != "" {
		if cfg.SubmitRatePerMinute, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("SUBMIT_RATE_PER_MINUTE: %w", err)
		}
	}
	if v := os.Getenv("CGCC_EVENT_DATE"); v != "" {
		if cfg.CGCCEventDate, err = time.Parse(time.RFC3339, v); err != nil {
			return nil, fmt.Errorf("CGCC_EVENT_DATE: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Info.Printf("config.Load: env=%s api=%s cloud=%q carousel=%v/%v",
		cfg.Env, cfg.APIBaseURL, cfg.CloudName, cfg.CarouselAutoplay, cfg.CarouselInterval)
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}
	if c.CarouselInterval <= 0 {
		return errors.New("CAROUSEL_INTERVAL_MS must be a positive number of milliseconds")
	}
	if c.SubmitRatePerMinute <= 0 {
		return errors.New("SUBMIT_RATE_PER_MINUTE must be positive")
	}
	if c.Env == "production" && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

// DirectUpload reports whether images go straight to Cloudinary.
func (c *Config) DirectUpload() bool {
	return c.CloudName != "" && c.UploadPreset != ""
}

// ------------------- helpers -------------------

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
