package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Alerts    AlertsConfig
	Reporting ReportingConfig
	Auth      AuthConfig
	Stock     StockConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the backing document store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to export reports to Google
// Sheets. Export is disabled when the credentials path is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// AlertsConfig holds the low-stock webhook destination. Alerts are disabled
// when the URL is empty.
type AlertsConfig struct {
	WebhookURL string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// AuthConfig holds session lifetime options.
type AuthConfig struct {
	SessionTTL time.Duration
}

// StockConfig describes the raw material consumed per unit sold.
type StockConfig struct {
	RawMaterialMatch string
	UnitConsumption  float64
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

	sessionTTL, err := time.ParseDuration(getenvWithDefault("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	unitConsumption, err := strconv.ParseFloat(getenvWithDefault("UNIT_CONSUMPTION_KG", "0.05"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid UNIT_CONSUMPTION_KG: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "palomitas"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
		Alerts: AlertsConfig{
			WebhookURL: os.Getenv("LOW_STOCK_WEBHOOK_URL"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Mexico_City"),
		},
		Auth: AuthConfig{
			SessionTTL: sessionTTL,
		},
		Stock: StockConfig{
			RawMaterialMatch: getenvWithDefault("RAW_MATERIAL_MATCH", "maíz"),
			UnitConsumption:  unitConsumption,
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
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_REPORT_ID must be provided when sheets credentials are set")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Auth.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Stock.RawMaterialMatch == "" {
		return errors.New("RAW_MATERIAL_MATCH must be provided")
	}

	if c.Stock.UnitConsumption <= 0 {
		return errors.New("UNIT_CONSUMPTION_KG must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
