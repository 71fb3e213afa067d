// Package config reads process configuration from the environment. The
// binaries load an optional .env file first and then call Load once; the
// resulting value is passed down explicitly.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	validBackends   = []string{"memory", "sqlite"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

type Config struct {
	// API server
	Port               string
	RequestTimeout     time.Duration
	RateLimitPerMinute int

	// Data
	DataBackend  string
	SQLiteDBPath string
	SeedFile     string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Reports
	ReportCacheTTL    time.Duration
	ReportCacheSize   int
	ReportConcurrency int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/wallet.db"),
		SeedFile:     getEnv("SEED_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wallet"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_exports"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		ReportCacheTTL:    getEnvDuration("REPORT_CACHE_TTL", time.Minute),
		ReportCacheSize:   getEnvInt("REPORT_CACHE_SIZE", 256),
		ReportConcurrency: getEnvInt("REPORT_CONCURRENCY", 4),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// AMQPEnabled reports whether export requests can be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// SheetsEnabled reports whether exports are written to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var p problems
	c.validateServer(&p)
	c.validateBackend(&p)
	c.validateAMQP(&p)
	c.validateSheets(&p)
	c.validateReports(&p)

	if !slices.Contains(validLogLevels, c.LogLevel) {
		p.addf("LOG_LEVEL %q is not one of %v", c.LogLevel, validLogLevels)
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		p.addf("LOG_FORMAT %q is not one of %v", c.LogFormat, validLogFormats)
	}
	return p.err()
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration:\n- %s", strings.Join(p, "\n- "))
}

func (c *Config) validateServer(p *problems) {
	port, err := strconv.Atoi(c.Port)
	switch {
	case err != nil:
		p.addf("PORT %q is not a number", c.Port)
	case port < 1 || port > 65535:
		p.addf("PORT %d is outside 1-65535", port)
	}

	switch {
	case c.RequestTimeout < time.Second:
		p.addf("REQUEST_TIMEOUT %v is shorter than 1s", c.RequestTimeout)
	case c.RequestTimeout > 10*time.Minute:
		p.addf("REQUEST_TIMEOUT %v is longer than 10m", c.RequestTimeout)
	}

	if c.RateLimitPerMinute < 1 || c.RateLimitPerMinute > 100000 {
		p.addf("RATE_LIMIT_PER_MINUTE %d is outside 1-100000", c.RateLimitPerMinute)
	}
}

// validateBackend also creates the directory of the SQLite file when missing.
func (c *Config) validateBackend(p *problems) {
	if !slices.Contains(validBackends, c.DataBackend) {
		p.addf("DATA_BACKEND %q is not one of %v", c.DataBackend, validBackends)
	}
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			p.addf("SQLITE_DB_PATH is required with the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				p.addf("SQLITE_DB_PATH directory %q cannot be created: %v", dir, err)
			}
		}
	}
	if c.SeedFile != "" && !fileExists(c.SeedFile) {
		p.addf("SEED_FILE %q does not exist", c.SeedFile)
	}
}

func (c *Config) validateAMQP(p *problems) {
	if !c.AMQPEnabled() {
		return
	}
	u, err := url.Parse(c.AMQPURL)
	if err != nil {
		p.addf("AMQP_URL cannot be parsed: %v", err)
	} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
		p.addf("AMQP_URL scheme %q must be amqp or amqps", u.Scheme)
	}
	if c.AMQPExchange == "" {
		p.addf("AMQP_EXCHANGE is required with AMQP_URL")
	}
	if c.AMQPQueue == "" {
		p.addf("AMQP_QUEUE is required with AMQP_URL")
	}
}

func (c *Config) validateSheets(p *problems) {
	if !c.SheetsEnabled() {
		return
	}
	switch {
	case c.GoogleServiceAccountFile != "":
		if !fileExists(c.GoogleServiceAccountFile) {
			p.addf("GOOGLE_SERVICE_ACCOUNT_FILE %q does not exist", c.GoogleServiceAccountFile)
		}
	case c.GoogleServiceAccountJSON == "":
		p.addf("GOOGLE_SPREADSHEET_ID needs GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON")
	}
}

func (c *Config) validateReports(p *problems) {
	switch {
	case c.ReportCacheTTL < 0:
		p.addf("REPORT_CACHE_TTL %v is negative", c.ReportCacheTTL)
	case c.ReportCacheTTL > 24*time.Hour:
		p.addf("REPORT_CACHE_TTL %v is longer than 24h", c.ReportCacheTTL)
	}
	if c.ReportCacheSize < 1 || c.ReportCacheSize > 100000 {
		p.addf("REPORT_CACHE_SIZE %d is outside 1-100000", c.ReportCacheSize)
	}
	if c.ReportConcurrency < 1 || c.ReportConcurrency > 64 {
		p.addf("REPORT_CONCURRENCY %d is outside 1-64", c.ReportConcurrency)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// lookup returns the parsed value of key, or def when it is unset or does
// not parse.
func lookup[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnv(key, def string) string {
	return lookup(key, def, func(s string) (string, error) { return s, nil })
}

func getEnvInt(key string, def int) int {
	return lookup(key, def, strconv.Atoi)
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	return lookup(key, def, time.ParseDuration)
}
