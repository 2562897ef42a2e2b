package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config carries every CWS_* setting of the dashboard.
type Config struct {
	App struct {
		Addr     string `env:"CWS_ADDR"`
		LogLevel string `env:"CWS_LOG_LEVEL"`
		Timezone string `env:"CWS_TIMEZONE"`
	}
	Backend struct {
		BaseURL string `env:"CWS_BACKEND_URL"`
		Timeout string `env:"CWS_BACKEND_TIMEOUT"`
	}
	SQLite struct {
		Path string `env:"CWS_SQLITE_PATH"`
	}
	Session struct {
		Secret string `env:"CWS_SESSION_SECRET"`
		TTL    string `env:"CWS_SESSION_TTL"`
	}
	Farmers struct {
		PhoneRegion string `env:"CWS_PHONE_REGION"`
	}

	// Derived from the raw values above by applyDefaults.
	BackendTimeout time.Duration
	SessionTTL     time.Duration
	Location       *time.Location
}

const (
	defaultAddr           = ":8080"
	defaultBackendURL     = "http://localhost:5000/api"
	defaultSQLitePath     = "cwsdash.db"
	defaultTimezone       = "Africa/Kigali"
	defaultPhoneRegion    = "RW"
	defaultLogLevel       = "info"
	defaultBackendTimeout = 15 * time.Second
	defaultSessionTTL     = 12 * time.Hour
)

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnviron()
}

// FromEnviron builds a Config from the current environment only.
func FromEnviron() (*Config, error) {
	cfg := &Config{}
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal environment: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	c.App.Addr = orDefault(c.App.Addr, defaultAddr)
	c.App.LogLevel = orDefault(c.App.LogLevel, defaultLogLevel)
	c.App.Timezone = orDefault(c.App.Timezone, defaultTimezone)
	c.Backend.BaseURL = strings.TrimRight(orDefault(c.Backend.BaseURL, defaultBackendURL), "/")
	c.SQLite.Path = orDefault(c.SQLite.Path, defaultSQLitePath)
	c.Farmers.PhoneRegion = strings.ToUpper(orDefault(c.Farmers.PhoneRegion, defaultPhoneRegion))

	var err error
	if c.BackendTimeout, err = parseDuration(c.Backend.Timeout, defaultBackendTimeout); err != nil {
		return fmt.Errorf("CWS_BACKEND_TIMEOUT: %w", err)
	}
	if c.SessionTTL, err = parseDuration(c.Session.TTL, defaultSessionTTL); err != nil {
		return fmt.Errorf("CWS_SESSION_TTL: %w", err)
	}

	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		// Kigali is UTC+2 all year.
		loc = time.FixedZone("CAT", 2*60*60)
	}
	c.Location = loc

	if strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("CWS_SESSION_SECRET is required")
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}
