package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/conventions.yaml
var defaultConventions []byte

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	Ledger      LedgerConfig
	Log         LogConfig
	Valuation   ValuationConfig
	Scheduler   SchedulerConfig
	Tracing     TracingConfig
	Conventions Conventions
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds the location of the quote and exchange rate cache.
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LedgerConfig points at the exported transaction ledger.
type LedgerConfig struct {
	Path string
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// ValuationConfig bounds the price and exchange rate lookups.
type ValuationConfig struct {
	Concurrency   int
	QuoteCacheTTL time.Duration
	FxCacheTTL    time.Duration
	Offline       bool // use only cached quotes and rates
}

// SchedulerConfig holds the cron specs used to reload and revalue the ledger.
// ScheduleOff disables a job.
type SchedulerConfig struct {
	RefreshSchedule string // reload the ledger file and value it
	RevalueSchedule string // reprice the current snapshot only
}

// ScheduleOff is the schedule value that disables a job.
const ScheduleOff = "off"

// TracingConfig toggles the stdout OpenTelemetry exporter.
type TracingConfig struct {
	Enabled bool
}

// Conventions lists the known owners, brokers and account types used to
// decompose account names. List order is display priority.
type Conventions struct {
	Owners       []string `yaml:"owners"`
	Brokers      []string `yaml:"brokers"`
	AccountTypes []string `yaml:"account_types"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_cache.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Ledger: LedgerConfig{
			Path: getEnv("LEDGER_CSV_PATH", "./data/transactions.csv"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scheduler: SchedulerConfig{
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 * * * *"),
			RevalueSchedule: getEnv("REVALUE_SCHEDULE", "0 */15 9-16 * * MON-FRI"),
		},
	}

	var err error
	if config.Log.Pretty, err = getBool("LOG_PRETTY", false); err != nil {
		return nil, err
	}
	if config.Tracing.Enabled, err = getBool("TRACING_ENABLED", false); err != nil {
		return nil, err
	}
	if config.Valuation.Offline, err = getBool("VALUATION_OFFLINE", false); err != nil {
		return nil, err
	}
	if config.Valuation.Concurrency, err = getInt("VALUATION_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if config.Valuation.Concurrency < 1 {
		return nil, fmt.Errorf("VALUATION_CONCURRENCY must be positive, got %d", config.Valuation.Concurrency)
	}
	if config.Valuation.QuoteCacheTTL, err = getDuration("QUOTE_CACHE_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if config.Valuation.FxCacheTTL, err = getDuration("FX_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	conventions, err := LoadConventions(os.Getenv("CONVENTIONS_PATH"))
	if err != nil {
		return nil, err
	}
	config.Conventions = conventions

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// LoadConventions reads naming conventions from a YAML file, or returns the
// embedded defaults when path is empty.
func LoadConventions(path string) (Conventions, error) {
	data := defaultConventions
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Conventions{}, fmt.Errorf("failed to read conventions: %w", err)
		}
	}
	return ParseConventions(data)
}

// ParseConventions decodes a conventions YAML document.
func ParseConventions(data []byte) (Conventions, error) {
	var c Conventions
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Conventions{}, fmt.Errorf("failed to parse conventions: %w", err)
	}
	return c, nil
}

// DefaultConventions returns the embedded naming conventions.
func DefaultConventions() Conventions {
	c, err := ParseConventions(defaultConventions)
	if err != nil {
		panic(err)
	}
	return c
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
