package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every external parameter for one ETL run, read from the JSON
// run manifest (env_variables.json by default).
type Config struct {
	URL             string   `json:"url"`
	TableAttributes []string `json:"table_attributes"`
	RatesCSVPath    string   `json:"csv_path"`
	OutputPath      string   `json:"output_path"`
	DBName          string   `json:"db_name"`
	TableName       string   `json:"table_name"`

	LogPath   string `json:"log_path"`
	FetchMode string `json:"fetch_mode"`
	DBDriver  string `json:"db_driver"`
	DBDSN     string `json:"db_dsn"`
}

// Load reads the .env file, locates the run manifest and returns the
// validated configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return LoadFile(getEnv("BANKS_CONFIG", "env_variables.json"))
}

// LoadFile parses the manifest at the given path, applies environment
// overrides and defaults, and validates the result.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	cfg.DBDriver = getEnv("BANKS_DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = getEnv("BANKS_DB_DSN", cfg.DBDSN)
	cfg.LogPath = getEnv("BANKS_LOG_PATH", cfg.LogPath)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogPath == "" {
		c.LogPath = "code_log.txt"
	}
	if c.FetchMode == "" {
		c.FetchMode = "plain"
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
}

func (c *Config) validate() error {
	required := []struct {
		key string
		val string
	}{
		{"url", c.URL},
		{"csv_path", c.RatesCSVPath},
		{"output_path", c.OutputPath},
		{"table_name", c.TableName},
	}
	for _, r := range required {
		if r.val == "" {
			return fmt.Errorf("missing required key %q", r.key)
		}
	}
	if len(c.TableAttributes) != 2 {
		return fmt.Errorf("table_attributes must list exactly 2 column names, got %d", len(c.TableAttributes))
	}
	switch c.FetchMode {
	case "plain", "rendered":
	default:
		return fmt.Errorf("unknown fetch_mode %q (want plain or rendered)", c.FetchMode)
	}
	switch c.DBDriver {
	case "sqlite":
		if c.DBName == "" {
			return fmt.Errorf("missing required key %q", "db_name")
		}
	case "postgres":
		if c.DBDSN == "" {
			return fmt.Errorf("db_driver postgres requires db_dsn")
		}
	default:
		return fmt.Errorf("unknown db_driver %q (want sqlite or postgres)", c.DBDriver)
	}
	return nil
}

// DSN returns the driver-specific data source name: the database file path
// for sqlite, the connection string for postgres.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DBDSN
	}
	return c.DBName
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
