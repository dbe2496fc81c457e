// Package config loads server configuration from command-line flags, environment variables,
// and an optional .env file.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/errors"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Catalog   CatalogConfig
	Server    ServerConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json or pretty; empty picks by environment
}

// CatalogConfig says where the catalog is read from at startup.
type CatalogConfig struct {
	Path   string
	Format string // json, yaml or sqlite; empty infers from the extension
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// SessionConfig controls browsing session lifetime.
type SessionConfig struct {
	TTL           time.Duration // idle time before a session is dropped
	SweepInterval time.Duration
}

// RateLimitConfig limits filter submissions per client.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration with precedence, highest first:
// command-line flags, environment variables, the .env file, defaults.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bookconnect", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, pretty)")
	catalogPath := fs.String("catalog", "", "Path to the catalog file or database")
	catalogFormat := fs.String("catalog-format", "", "Catalog format (json, yaml, sqlite)")
	serverName := fs.String("server-name", "", "Name reported by the health endpoint")
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")
	sessionTTL := fs.String("session-ttl", "", "Idle session lifetime (default: 30m)")
	sweepInterval := fs.String("session-sweep", "", "How often idle sessions are swept (default: 1m)")
	rateRPS := fs.String("rate-limit-rps", "", "Filter submissions per second per client (default: 5)")
	rateBurst := fs.String("rate-limit-burst", "", "Filter submission burst per client (default: 10)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "parse flags")
	}

	// A missing .env file is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Catalog: CatalogConfig{
			Path:   getConfigValue(*catalogPath, "CATALOG_PATH", ""),
			Format: strings.ToLower(getConfigValue(*catalogFormat, "CATALOG_FORMAT", "")),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "Book Connect"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
	}

	var err error
	durations := []struct {
		dst   *time.Duration
		flag  string
		key   string
		value string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Session.TTL, *sessionTTL, "SESSION_TTL", "30m"},
		{&cfg.Session.SweepInterval, *sweepInterval, "SESSION_SWEEP_INTERVAL", "1m"},
	}
	for _, d := range durations {
		if *d.dst, err = getDurationConfigValue(d.flag, d.key, d.value); err != nil {
			return nil, err
		}
	}

	if cfg.RateLimit.RequestsPerSecond, err = getFloatConfigValue(*rateRPS, "RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	if cfg.Catalog.Path != "" {
		if cfg.Catalog.Path, err = expandPath(cfg.Catalog.Path); err != nil {
			return nil, errors.Wrap(err, errors.CodeConfiguration, "invalid catalog path")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return errors.Configurationf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Configurationf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "json", "pretty":
	default:
		return errors.Configurationf("invalid log format: %q (must be json or pretty)", c.Logger.Format)
	}

	if c.Catalog.Path == "" {
		return errors.Configuration("CATALOG_PATH is required")
	}
	switch c.Catalog.Format {
	case "", "json", "yaml", "sqlite":
	default:
		return errors.Configurationf("invalid catalog format: %q (must be json, yaml, or sqlite)", c.Catalog.Format)
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.Configurationf("invalid server port: %q", c.Server.Port)
	}
	if c.Session.TTL <= 0 {
		return errors.Configuration("SESSION_TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.Configuration("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.Configuration("rate limit must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeConfiguration, "invalid %s %q", envKey, s)
	}
	return d, nil
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	s := getConfigValue(flagValue, envKey, "")
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeConfiguration, "invalid %s %q", envKey, s)
	}
	return n, nil
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	s := getConfigValue(flagValue, envKey, "")
	if s == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeConfiguration, "invalid %s %q", envKey, s)
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads KEY=value lines from path. Variables already set in the
// environment are left alone.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- env file path is operator supplied
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}
