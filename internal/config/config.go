package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "shopctl.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	APIBaseURL      string `yaml:"apiBaseURL"`
	LogLevel        string `yaml:"logLevel"`
	TokenFile       string `yaml:"tokenFile"`
	HTTPTimeout     string `yaml:"httpTimeout"`
	CatalogPageSize int    `yaml:"catalogPageSize"`
	AdminPageSize   int    `yaml:"adminPageSize"`
}

// Load reads config from path, falling back to defaults when the file
// is absent, then applies SHOPCTL_* env overrides and validates.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if v := os.Getenv("SHOPCTL_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOPCTL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOPCTL_TOKEN_FILE"); v != "" {
		cfg.TokenFile = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOPCTL_HTTP_TIMEOUT"); v != "" {
		cfg.HTTPTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOPCTL_CATALOG_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.CatalogPageSize = n
		}
	}
	if v := os.Getenv("SHOPCTL_ADMIN_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.AdminPageSize = n
		}
	}

	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultTokenFile()
	}
	if cfg.HTTPTimeout == "" {
		cfg.HTTPTimeout = "10s"
	}
	if cfg.CatalogPageSize == 0 {
		cfg.CatalogPageSize = 12
	}
	if cfg.AdminPageSize == 0 {
		cfg.AdminPageSize = 20
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".shopctl-token"
	}
	return filepath.Join(dir, "shopctl", "token")
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return errors.New("config: apiBaseURL is required (set in shopctl.yaml or SHOPCTL_API_BASE_URL)")
	}
	if cfg.CatalogPageSize < 1 || cfg.AdminPageSize < 1 {
		return errors.New("config: page sizes must be >= 1")
	}
	if _, err := time.ParseDuration(cfg.HTTPTimeout); err != nil {
		return fmt.Errorf("config: invalid httpTimeout: %w", err)
	}
	return nil
}

// ParseHTTPTimeout parses the configured HTTP timeout duration.
func ParseHTTPTimeout(cfg FileConfig) (time.Duration, error) {
	dur, err := time.ParseDuration(cfg.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid httpTimeout duration: %w", err)
	}
	return dur, nil
}
