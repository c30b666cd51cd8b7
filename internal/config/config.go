package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the server and the CLI
type Config struct {
	DBDriver  string
	DBConnStr string

	GRPCAddr string
	HTTPAddr string
	APIToken string

	AlliumAPIKey     string
	AlliumQueryURL   string
	CoinGeckoAPIKey  string
	CoinGeckoBaseURL string
	HTTPTimeout      time.Duration

	PnLWindow time.Duration
	PnLStep   time.Duration

	IngestTopN       int
	IngestDays       int
	IngestInterval   time.Duration
	IngestRateCalls  int
	IngestRatePeriod time.Duration
}

// Load reads the configuration from the environment.
// Values from a .env file in the working directory are applied first
// without overriding variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wallet_pnl")

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("API_TOKEN", "dev-token")

	v.SetDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3")
	v.SetDefault("HTTP_TIMEOUT", "30s")

	v.SetDefault("PNL_WINDOW", "168h")
	v.SetDefault("PNL_STEP", "1h")

	v.SetDefault("INGEST_TOP_N", 10)
	v.SetDefault("INGEST_DAYS", 7)
	v.SetDefault("INGEST_INTERVAL", "0s")
	v.SetDefault("INGEST_RATE_CALLS", 30)
	v.SetDefault("INGEST_RATE_PERIOD", "60s")

	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDriver:         v.GetString("DB_DRIVER"),
		DBConnStr:        v.GetString("DB_CONN_STR"),
		GRPCAddr:         v.GetString("GRPC_ADDR"),
		HTTPAddr:         v.GetString("HTTP_ADDR"),
		APIToken:         v.GetString("API_TOKEN"),
		AlliumAPIKey:     v.GetString("ALLIUM_API_KEY"),
		AlliumQueryURL:   v.GetString("ALLIUM_QUERY_URL"),
		CoinGeckoAPIKey:  v.GetString("COINGECKO_API_KEY"),
		CoinGeckoBaseURL: v.GetString("COINGECKO_BASE_URL"),
		HTTPTimeout:      v.GetDuration("HTTP_TIMEOUT"),
		PnLWindow:        v.GetDuration("PNL_WINDOW"),
		PnLStep:          v.GetDuration("PNL_STEP"),
		IngestTopN:       v.GetInt("INGEST_TOP_N"),
		IngestDays:       v.GetInt("INGEST_DAYS"),
		IngestInterval:   v.GetDuration("INGEST_INTERVAL"),
		IngestRateCalls:  v.GetInt("INGEST_RATE_CALLS"),
		IngestRatePeriod: v.GetDuration("INGEST_RATE_PERIOD"),
	}

	if cfg.DBConnStr == "" && cfg.DBDriver == "postgres" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			v.GetString("DB_HOST"), v.GetString("DB_PORT"), v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"), v.GetString("DB_NAME"))
	}
	if cfg.DBConnStr == "" && cfg.DBDriver == "sqlite3" {
		cfg.DBConnStr = "wallet_pnl.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.DBDriver)
	}
	if c.PnLWindow <= 0 {
		return fmt.Errorf("PNL_WINDOW must be positive, got %s", c.PnLWindow)
	}
	if c.PnLStep <= 0 {
		return fmt.Errorf("PNL_STEP must be positive, got %s", c.PnLStep)
	}
	if c.IngestInterval < 0 {
		return fmt.Errorf("INGEST_INTERVAL must not be negative, got %s", c.IngestInterval)
	}
	if c.IngestRateCalls <= 0 || c.IngestRatePeriod <= 0 {
		return fmt.Errorf("invalid ingestion rate limit: %d calls per %s", c.IngestRateCalls, c.IngestRatePeriod)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
