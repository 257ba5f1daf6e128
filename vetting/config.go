package vetting

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is the service configuration read from the environment.
type Config struct {
	Port string

	UseDomainAge     bool
	UseBrandMismatch bool

	DomainAgeSource   string // "rdap" or "whois"
	RDAPBaseURL       string
	DomainAgeTimeout  time.Duration
	DomainAgeCacheTTL time.Duration

	RegistryFile string

	LogLevel  logrus.Level
	LogFormat string // "text" or "json"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// featureEnabled treats a toggle as on unless it is literally "false".
func featureEnabled(key string) bool {
	return os.Getenv(key) != "false"
}

func getDuration(key, def string) (time.Duration, error) {
	s := getenv(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// LoadConfig reads and validates the configuration.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:             getenv("PORT", "8080"),
		UseDomainAge:     featureEnabled("USE_DOMAIN_AGE"),
		UseBrandMismatch: featureEnabled("USE_BRAND_MISMATCH"),
		DomainAgeSource:  strings.ToLower(getenv("DOMAIN_AGE_SOURCE", "rdap")),
		RDAPBaseURL:      getenv("RDAP_BASE_URL", DefaultRDAPBaseURL),
		RegistryFile:     os.Getenv("REGISTRY_FILE"),
		LogFormat:        strings.ToLower(getenv("LOG_FORMAT", "text")),
	}

	switch cfg.DomainAgeSource {
	case "rdap", "whois":
	default:
		return Config{}, fmt.Errorf("invalid DOMAIN_AGE_SOURCE=%q, want rdap or whois", cfg.DomainAgeSource)
	}

	var err error
	if cfg.DomainAgeTimeout, err = getDuration("DOMAIN_AGE_TIMEOUT", "3s"); err != nil {
		return Config{}, err
	}
	if cfg.DomainAgeCacheTTL, err = getDuration("DOMAIN_AGE_CACHE_TTL", "24h"); err != nil {
		return Config{}, err
	}

	lvl := getenv("LOG_LEVEL", "info")
	if cfg.LogLevel, err = logrus.ParseLevel(lvl); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL=%q: %w", lvl, err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT=%q, want text or json", cfg.LogFormat)
	}

	return cfg, nil
}
