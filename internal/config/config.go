// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	PageSpeed PageSpeedConfig `mapstructure:"pagespeed"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig sets the per-client sliding window.
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// FetchConfig governs the content-fetch pipeline.
type FetchConfig struct {
	// Renderer selects the primary strategy: "reader" (remote rendering
	// service) or "chromedp" (local headless browser).
	Renderer         string         `mapstructure:"renderer"`
	UserAgent        string         `mapstructure:"user_agent"`
	ThinContentWords int            `mapstructure:"thin_content_words"`
	Reader           ReaderConfig   `mapstructure:"reader"`
	Direct           DirectConfig   `mapstructure:"direct"`
	Headless         HeadlessConfig `mapstructure:"headless"`
}

// ReaderConfig configures the remote-rendering reader strategy.
type ReaderConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRedirects   int    `mapstructure:"max_redirects"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"`
	// MinIntervalMs spaces out calls to the reader service across all
	// requests, independent of the per-client rate limiter.
	MinIntervalMs int `mapstructure:"min_interval_ms"`
}

// DirectConfig configures the direct-GET fallback strategy.
type DirectConfig struct {
	TimeoutSeconds int   `mapstructure:"timeout_seconds"`
	MaxRedirects   int   `mapstructure:"max_redirects"`
	MaxBodyBytes   int64 `mapstructure:"max_body_bytes"`
}

// HeadlessConfig configures the local chromedp renderer.
type HeadlessConfig struct {
	MaxParallel       int `mapstructure:"max_parallel"`
	NavTimeoutSeconds int `mapstructure:"nav_timeout_seconds"`
}

// PageSpeedConfig configures the external performance measurement.
type PageSpeedConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// NarrativeConfig configures the chat-completions narrative generator.
type NarrativeConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAGEAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"https://landalytics-1.onrender.com"})
	v.SetDefault("ratelimit.max_requests", 10)
	v.SetDefault("ratelimit.window_seconds", 60)
	v.SetDefault("fetch.renderer", "reader")
	v.SetDefault("fetch.user_agent", "Landalytics/1.0")
	v.SetDefault("fetch.thin_content_words", 200)
	v.SetDefault("fetch.reader.endpoint", "https://r.jina.ai")
	v.SetDefault("fetch.reader.timeout_seconds", 25)
	v.SetDefault("fetch.reader.max_redirects", 3)
	v.SetDefault("fetch.reader.max_body_bytes", 1<<20)
	v.SetDefault("fetch.reader.min_interval_ms", 500)
	v.SetDefault("fetch.direct.timeout_seconds", 15)
	v.SetDefault("fetch.direct.max_redirects", 4)
	v.SetDefault("fetch.direct.max_body_bytes", 5<<20)
	v.SetDefault("fetch.headless.max_parallel", 1)
	v.SetDefault("fetch.headless.nav_timeout_seconds", 25)
	v.SetDefault("pagespeed.endpoint", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("pagespeed.timeout_seconds", 20)
	v.SetDefault("narrative.model", "llama-3.1-8b-instant")
	v.SetDefault("narrative.timeout_seconds", 30)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("ratelimit.window_seconds must be > 0")
	}
	switch c.Fetch.Renderer {
	case "reader", "chromedp":
	default:
		return fmt.Errorf("fetch.renderer must be 'reader' or 'chromedp', got %q", c.Fetch.Renderer)
	}
	if c.Fetch.Renderer == "reader" && c.Fetch.Reader.Endpoint == "" {
		return fmt.Errorf("fetch.reader.endpoint must be set")
	}
	if c.Fetch.Reader.TimeoutSeconds <= 0 || c.Fetch.Direct.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch timeouts must be > 0")
	}
	if c.Fetch.ThinContentWords < 0 {
		return fmt.Errorf("fetch.thin_content_words must be >= 0")
	}
	if c.Narrative.Endpoint != "" && c.Narrative.APIKey == "" {
		return fmt.Errorf("narrative.api_key must be set when narrative.endpoint is configured")
	}
	return nil
}

// Window returns the rate-limit window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}
