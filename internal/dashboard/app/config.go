package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/batterydash/pkg/httpx"
	"github.com/aussiebroadwan/batterydash/pkg/iwellsdk"
	"github.com/aussiebroadwan/batterydash/pkg/jwtx"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	JWTKey      string   // Required: HS256 signing key, at least 32 bytes
	JWTIssuer   string   // Optional: iss claim (default: batterydash)
	JWTAudience []string // Optional: aud claim, comma separated (default: batterydash)

	IWellAPIURL  string        // Required: base URL of the battery monitoring API
	IWellAPIKey  string        // Required: sent as x-api-key
	IWellTimeout time.Duration // Optional: upstream call timeout (default: 10s)

	CORSOrigins  []string // Optional: comma separated (default: http://localhost:4200)
	DatabaseFile string   // Optional: path to SQLite database file (default: ./batterydash.db)
	PepperFile   string   // Optional: path to password pepper file (default: ./pepper)

	AuthLimit    httpx.RateLimit // RATELIMIT_AUTH_* (default: 5/min per IP)
	BatteryLimit httpx.RateLimit // RATELIMIT_BATTERY_* (default: 100/min per user)

	// Optional: comma separated proxy addresses or CIDRs allowed to set
	// X-Forwarded-For and X-Real-IP (default: none, the peer address is used)
	TrustedProxies []netip.Prefix

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment, after merging an optional .env file.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	proxies, proxyErr := httpx.ParseTrustedProxies(getEnvListOrDefault("TRUSTED_PROXIES", nil))

	cfg := Config{
		JWTKey:      os.Getenv("JWT_KEY"),
		JWTIssuer:   getEnvOrDefault("JWT_ISSUER", "batterydash"),
		JWTAudience: getEnvListOrDefault("JWT_AUDIENCE", []string{"batterydash"}),

		IWellAPIURL:  os.Getenv("IWELL_API_URL"),
		IWellAPIKey:  os.Getenv("IWELL_API_KEY"),
		IWellTimeout: getEnvDurationOrDefault("IWELL_TIMEOUT", iwellsdk.DefaultTimeout),

		CORSOrigins:  getEnvListOrDefault("CORS_ORIGINS", []string{"http://localhost:4200"}),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "batterydash.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		AuthLimit:    getEnvRateLimit("AUTH", httpx.StrictLimit),
		BatteryLimit: getEnvRateLimit("BATTERY", httpx.LenientLimit),

		TrustedProxies: proxies,

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg, errors.Join(proxyErr, cfg.Validate())
}

// Validate reports every missing or malformed required setting at once.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.JWTKey == "":
		errs = append(errs, errors.New("JWT_KEY is required"))
	case len(c.JWTKey) < jwtx.MinHMACKeySize:
		errs = append(errs, fmt.Errorf("JWT_KEY must be at least %d bytes", jwtx.MinHMACKeySize))
	}

	if c.IWellAPIURL == "" {
		errs = append(errs, errors.New("IWELL_API_URL is required"))
	} else if u, err := url.Parse(c.IWellAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("IWELL_API_URL %q is not an absolute URL", c.IWellAPIURL))
	}
	if c.IWellAPIKey == "" {
		errs = append(errs, errors.New("IWELL_API_KEY is required"))
	}
	if c.IWellTimeout <= 0 {
		errs = append(errs, errors.New("IWELL_TIMEOUT must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// getEnvRateLimit reads RATELIMIT_{prefix}_REQUESTS, _WINDOW_SEC and _BURST.
func getEnvRateLimit(prefix string, defaultValue httpx.RateLimit) httpx.RateLimit {
	l := defaultValue
	if n := getEnvIntOrDefault("RATELIMIT_"+prefix+"_REQUESTS", 0); n > 0 {
		l.Requests = n
	}
	if n := getEnvIntOrDefault("RATELIMIT_"+prefix+"_WINDOW_SEC", 0); n > 0 {
		l.Window = time.Duration(n) * time.Second
	}
	if n := getEnvIntOrDefault("RATELIMIT_"+prefix+"_BURST", 0); n > 0 {
		l.Burst = n
	}
	return l
}
