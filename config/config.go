package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all extraction engine configuration.
type Config struct {
	Browser   BrowserConfig
	Extractor ExtractorConfig
	Fetch     FetchConfig
	Log       LogConfig
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Enabled toggles the browser-automation strategies entirely.
	// Environments without a sandboxed browser runtime set this to false
	// and fall straight to the static-fetch path.
	Enabled bool // default: true

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all browser traffic.
	Proxy string

	// UserAgent is sent on every navigation.
	UserAgent string

	// ViewportWidth/ViewportHeight define the emulated viewport.
	ViewportWidth  int // default: 1366
	ViewportHeight int // default: 900

	// BlockedResourceTypes lists resource types to block for speed.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// ExtractorConfig controls extraction behavior.
type ExtractorConfig struct {
	// NavigationTimeout is the max time for a single page navigation.
	NavigationTimeout time.Duration // default: 20s

	// MaxTimeout caps one entire extraction call.
	MaxTimeout time.Duration // default: 90s

	// SettleDelay is the pause after navigation or a page advance, giving
	// client-side rendering time to finish.
	SettleDelay time.Duration // default: 1500ms

	// MaxPages bounds multi-page traversal so a misbehaving form cannot
	// loop forever.
	MaxPages int // default: 20
}

// FetchConfig controls the static HTTP fetch path.
type FetchConfig struct {
	// Timeout is the deadline for one static fetch.
	Timeout time.Duration // default: 15s

	// RequestsPerSecond paces outbound requests per fetcher.
	RequestsPerSecond float64 // default: 2

	// Burst is the pacing burst size.
	Burst int // default: 4

	// Proxy is the proxy URL for static fetches.
	Proxy string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Enabled:    envBoolOr("FORMIMPORT_BROWSER_ENABLED", true),
			Headless:   envBoolOr("FORMIMPORT_HEADLESS", true),
			NoSandbox:  envBoolOr("FORMIMPORT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("FORMIMPORT_BROWSER_BIN"),
			Proxy:      os.Getenv("FORMIMPORT_PROXY"),
			UserAgent: envOr("FORMIMPORT_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
			ViewportWidth:  envIntOr("FORMIMPORT_VIEWPORT_WIDTH", 1366),
			ViewportHeight: envIntOr("FORMIMPORT_VIEWPORT_HEIGHT", 900),
			BlockedResourceTypes: envSliceOr("FORMIMPORT_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Extractor: ExtractorConfig{
			NavigationTimeout: envDurationOr("FORMIMPORT_NAV_TIMEOUT", 20*time.Second),
			MaxTimeout:        envDurationOr("FORMIMPORT_MAX_TIMEOUT", 90*time.Second),
			SettleDelay:       envDurationOr("FORMIMPORT_SETTLE_DELAY", 1500*time.Millisecond),
			MaxPages:          envIntOr("FORMIMPORT_MAX_PAGES", 20),
		},
		Fetch: FetchConfig{
			Timeout:           envDurationOr("FORMIMPORT_FETCH_TIMEOUT", 15*time.Second),
			RequestsPerSecond: envFloatOr("FORMIMPORT_FETCH_RPS", 2.0),
			Burst:             envIntOr("FORMIMPORT_FETCH_BURST", 4),
			Proxy:             os.Getenv("FORMIMPORT_PROXY"),
		},
		Log: LogConfig{
			Level:  envOr("FORMIMPORT_LOG_LEVEL", "info"),
			Format: envOr("FORMIMPORT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
