package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends accepted by DATA_BACKEND.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Ledger storage
	DataBackend  string `yaml:"data_backend"`
	DataFile     string `yaml:"data_file"`
	SQLiteDBPath string `yaml:"sqlite_db_path"`
	// Directory holding seed_methods.txt when no spreadsheet is configured
	SeedDir string `yaml:"seed_dir"`

	// AMQP, optional: empty URL disables change notification
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`
	AMQPQueue    string `yaml:"amqp_queue"`

	// Google Sheets, optional
	GoogleSpreadsheetID string `yaml:"google_spreadsheet_id"`
	GoogleLedgerSheet   string `yaml:"google_ledger_sheet"`
	GoogleMethodsSheet  string `yaml:"google_methods_sheet"`

	// Worker
	MirrorInterval time.Duration `yaml:"mirror_interval"`

	// Summary cache
	SummaryCacheSize int           `yaml:"summary_cache_size"`
	SummaryCacheTTL  time.Duration `yaml:"summary_cache_ttl"`
}

func defaults() *Config {
	return &Config{
		Port:     "8081",
		LogLevel: "info",

		DataBackend:  BackendJSON,
		DataFile:     "data/payments.json",
		SQLiteDBPath: "data/kakeibo.db",
		SeedDir:      "data",

		AMQPExchange: "kakeibo",
		AMQPQueue:    "ledger_changes",

		GoogleLedgerSheet:  "家計簿",
		GoogleMethodsSheet: "支払い方法",

		MirrorInterval: 5 * time.Minute,

		SummaryCacheSize: 128,
		SummaryCacheTTL:  10 * time.Minute,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// KAKEIBO_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("KAKEIBO_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads a YAML file over the defaults. Environment variables are
// not consulted.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.DataFile = getEnv("DATA_FILE", c.DataFile)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.SeedDir = getEnv("SEED_DIR", c.SeedDir)

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.GoogleSpreadsheetID)
	c.GoogleLedgerSheet = getEnv("GOOGLE_LEDGER_SHEET_NAME", c.GoogleLedgerSheet)
	c.GoogleMethodsSheet = getEnv("GOOGLE_METHODS_SHEET_NAME", c.GoogleMethodsSheet)

	c.MirrorInterval = getEnvDuration("MIRROR_INTERVAL", c.MirrorInterval)

	c.SummaryCacheSize = getEnvInt("SUMMARY_CACHE_SIZE", c.SummaryCacheSize)
	c.SummaryCacheTTL = getEnvDuration("SUMMARY_CACHE_TTL", c.SummaryCacheTTL)
}

// NotificationsEnabled reports whether ledger changes are published.
func (c *Config) NotificationsEnabled() bool {
	return c.AMQPURL != ""
}

// SheetsEnabled reports whether a Google spreadsheet is configured.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	validBackends := []string{BackendJSON, BackendSQLite, BackendMemory}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendJSON && c.DataFile == "" {
		errors = append(errors, "data file cannot be empty when using json backend")
	}
	if c.DataBackend == BackendSQLite && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() && c.GoogleLedgerSheet == "" {
		errors = append(errors, "Google ledger sheet name is required when a spreadsheet is configured")
	}

	if c.MirrorInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid mirror interval %v: must be at least 1 second", c.MirrorInterval))
	} else if c.MirrorInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid mirror interval %v: must be at most 24 hours", c.MirrorInterval))
	}

	if c.SummaryCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid summary cache size %d: must be at least 1", c.SummaryCacheSize))
	}
	if c.SummaryCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid summary cache TTL %v: must be positive", c.SummaryCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
