package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Supabase   SupabaseConfig
	Reporting  ReportingConfig
	DailyClose DailyCloseConfig
	MongoDB    MongoDBConfig
	Sheets     SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SupabaseConfig contains the endpoint and credentials of the remote data service.
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// ReportingConfig controls how report windows are anchored.
type ReportingConfig struct {
	Timezone string
}

// DailyCloseConfig holds settings for the scheduled end-of-day snapshot.
type DailyCloseConfig struct {
	CronSchedule string
}

// MongoDBConfig holds settings for the daily close archive. An empty URI
// disables the archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration for the optional spreadsheet export.
// Export is disabled when CredentialsPath is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("SUPABASE_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUPABASE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Supabase: SupabaseConfig{
			URL:     strings.TrimSuffix(os.Getenv("SUPABASE_URL"), "/"),
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
			Timeout: timeout,
		},
		Reporting: ReportingConfig{
			Timezone: getenvWithDefault("TIMEZONE", "Europe/Istanbul"),
		},
		DailyClose: DailyCloseConfig{
			CronSchedule: getenvWithDefault("DAILY_CLOSE_CRON", "0 22 * * *"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "kafepos"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Supabase.URL == "":
		return errors.New("SUPABASE_URL must be provided")
	case c.Supabase.AnonKey == "":
		return errors.New("SUPABASE_ANON_KEY must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must not be empty")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.DailyClose.CronSchedule == "" {
		return errors.New("DAILY_CLOSE_CRON must be provided")
	}

	// The archive and the spreadsheet export are optional, but a configured
	// export must be complete.
	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_EXPORT_ID must be provided when sheets export is enabled")
	}

	return nil
}

// Location resolves the configured reporting timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
