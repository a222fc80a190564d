package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50

	defaultPricingTimeout = 10 * time.Second
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                  string
	PricingServiceURL     string
	PricingServiceTimeout time.Duration
	InitialTariff         shipping.Tariff
	ShutdownGracePeriod   time.Duration
	ReadHeaderTimeout     time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	EnableRequestLogging  bool
	RateLimitRPS          float64
	RateLimitBurst        int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string             `yaml:"port"`
	PricingService       yamlPricingService `yaml:"pricing_service"`
	Tariff               yamlTariff         `yaml:"tariff"`
	ShutdownGracePeriod  string             `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string             `yaml:"read_header_timeout"`
	WriteTimeout         string             `yaml:"write_timeout"`
	IdleTimeout          string             `yaml:"idle_timeout"`
	EnableRequestLogging bool               `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit      `yaml:"rate_limit"`
}

// yamlPricingService represents the pricing service section in YAML.
type yamlPricingService struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// yamlTariff represents the tariff section in YAML. Pointer fields
// distinguish "not set" from explicit zeroes.
type yamlTariff struct {
	BaseRate             *float64 `yaml:"base_rate"`
	SurchargeThresholdKg *float64 `yaml:"surcharge_threshold_kg"`
	SurchargePerKg       *float64 `yaml:"surcharge_per_kg"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile        string
	Port              *string
	PricingServiceURL *string
	BaseRate          *float64
	RateLimitRPS      *float64
	RateLimitBurst    *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                  defaultPort,
		PricingServiceTimeout: defaultPricingTimeout,
		InitialTariff:         shipping.DefaultTariff(),
		ShutdownGracePeriod:   10 * time.Second,
		ReadHeaderTimeout:     5 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		EnableRequestLogging:  true,
		RateLimitRPS:          defaultRateLimitRPS,
		RateLimitBurst:        defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.PricingService.URL != "" {
		cfg.PricingServiceURL = yamlCfg.PricingService.URL
	}
	if yamlCfg.PricingService.Timeout != "" {
		if d, err := time.ParseDuration(yamlCfg.PricingService.Timeout); err == nil {
			cfg.PricingServiceTimeout = d
		}
	}

	if yamlCfg.Tariff.BaseRate != nil {
		cfg.InitialTariff.BaseRate = *yamlCfg.Tariff.BaseRate
	}
	if yamlCfg.Tariff.SurchargeThresholdKg != nil {
		cfg.InitialTariff.SurchargeThresholdKg = *yamlCfg.Tariff.SurchargeThresholdKg
	}
	if yamlCfg.Tariff.SurchargePerKg != nil {
		cfg.InitialTariff.SurchargePerKg = *yamlCfg.Tariff.SurchargePerKg
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if url := strings.TrimSpace(os.Getenv("PRICING_SERVICE_URL")); url != "" {
		cfg.PricingServiceURL = url
	}

	if timeout := strings.TrimSpace(os.Getenv("PRICING_SERVICE_TIMEOUT")); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.PricingServiceTimeout = d
		}
	}

	if baseRate := strings.TrimSpace(os.Getenv("BASE_RATE")); baseRate != "" {
		if value, err := strconv.ParseFloat(baseRate, 64); err == nil && value > 0 {
			cfg.InitialTariff.BaseRate = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.PricingServiceURL != nil && *overrides.PricingServiceURL != "" {
		cfg.PricingServiceURL = *overrides.PricingServiceURL
	}

	if overrides.BaseRate != nil && *overrides.BaseRate > 0 {
		cfg.InitialTariff.BaseRate = *overrides.BaseRate
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.PricingServiceTimeout <= 0 {
		return fmt.Errorf("pricing service timeout must be positive")
	}
	if cfg.InitialTariff.BaseRate <= 0 {
		return fmt.Errorf("tariff base rate must be positive")
	}
	if cfg.InitialTariff.SurchargeThresholdKg < 0 || cfg.InitialTariff.SurchargePerKg < 0 {
		return fmt.Errorf("tariff surcharge values must be >= 0")
	}
	return nil
}
