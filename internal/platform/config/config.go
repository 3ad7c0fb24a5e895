// Package config assembles runtime configuration from defaults, an optional
// .env file, process environment variables, and an optional YAML site file
// carrying storefront tunables (payment methods, pricing rules).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultStatePath    = "atelier-state.db"
	defaultBackendBase  = "http://localhost:5000/api"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Store   StoreConfig
	Session SessionConfig
	Site    SiteConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DevMode      bool
}

// BackendConfig points at the storefront backend API.
type BackendConfig struct {
	BaseURL string
}

// StoreConfig locates the client-state database.
type StoreConfig struct {
	Path string
}

// SessionConfig controls the browser-scope cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// SiteConfig carries storefront tunables, overridable through the YAML site
// file.
type SiteConfig struct {
	Name             string
	PaymentMethods   []string
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
	TaxRate          decimal.Decimal
}

type siteFile struct {
	Name             string   `yaml:"name"`
	PaymentMethods   []string `yaml:"payment_methods"`
	FreeShippingOver *float64 `yaml:"free_shipping_over"`
	ShippingFee      *float64 `yaml:"shipping_fee"`
	TaxRate          *float64 `yaml:"tax_rate"`
}

// Load builds the configuration. A missing .env or site file is not an
// error; a malformed site file is.
func Load() (Config, error) {
	// .env values never override already-exported variables
	_ = godotenv.Load()

	port := lookup("ATELIER_WEB_PORT", "")
	if port == "" {
		port = lookup("PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:         ":" + port,
			ReadTimeout:  duration("ATELIER_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: duration("ATELIER_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  duration("ATELIER_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			DevMode:      lookup("ATELIER_WEB_DEV", "") != "" || lookup("DEV", "") != "",
		},
		Backend: BackendConfig{
			BaseURL: lookup("ATELIER_WEB_API_BASE_URL", defaultBackendBase),
		},
		Store: StoreConfig{
			Path: lookup("ATELIER_WEB_STATE_DB", defaultStatePath),
		},
		Session: SessionConfig{
			SigningKey: lookup("ATELIER_WEB_SCOPE_SIGNING_KEY", ""),
			Secure:     strings.EqualFold(lookup("ATELIER_WEB_ENV", ""), "prod"),
		},
		Site: SiteConfig{
			Name: "Atelier",
		},
	}

	if path := lookup("ATELIER_WEB_SITE_FILE", ""); path != "" {
		if err := cfg.Site.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func (s *SiteConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read site file %s: %w", path, err)
	}
	var file siteFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("config: parse site file %s: %w", path, err)
	}
	if name := strings.TrimSpace(file.Name); name != "" {
		s.Name = name
	}
	if len(file.PaymentMethods) > 0 {
		s.PaymentMethods = file.PaymentMethods
	}
	if file.FreeShippingOver != nil {
		s.FreeShippingOver = decimal.NewFromFloat(*file.FreeShippingOver)
	}
	if file.ShippingFee != nil {
		s.ShippingFee = decimal.NewFromFloat(*file.ShippingFee)
	}
	if file.TaxRate != nil {
		s.TaxRate = decimal.NewFromFloat(*file.TaxRate)
	}
	return nil
}

func lookup(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
