package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "palomitas", cfg.MongoDB.DBName)
	assert.Equal(t, "0 21 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "America/Mexico_City", cfg.Reporting.Timezone)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "maíz", cfg.Stock.RawMaterialMatch)
	assert.Equal(t, 0.05, cfg.Stock.UnitConsumption)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("UNIT_CONSUMPTION_KG", "0.1")
	t.Setenv("RAW_MATERIAL_MATCH", "corn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, 0.1, cfg.Stock.UnitConsumption)
	assert.Equal(t, "corn", cfg.Stock.RawMaterialMatch)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Run("session ttl", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "SESSION_TTL")
	})

	t.Run("unit consumption", func(t *testing.T) {
		t.Setenv("UNIT_CONSUMPTION_KG", "a lot")
		_, err := Load("")
		assert.ErrorContains(t, err, "UNIT_CONSUMPTION_KG")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			MongoDB:   MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "palomitas"},
			Reporting: ReportingConfig{CronSchedule: "0 21 * * *", Timezone: "UTC"},
			Auth:      AuthConfig{SessionTTL: time.Hour},
			Stock:     StockConfig{RawMaterialMatch: "maíz", UnitConsumption: 0.05},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
		{"missing mongo uri", func(c *Config) { c.MongoDB.URI = "" }, "MONGODB_URI"},
		{"missing db name", func(c *Config) { c.MongoDB.DBName = "" }, "MONGODB_DB_NAME"},
		{"credentials without sheet id", func(c *Config) { c.Sheets.CredentialsPath = "/creds.json" }, "GOOGLE_SHEET_REPORT_ID"},
		{"missing schedule", func(c *Config) { c.Reporting.CronSchedule = "" }, "REPORT_CRON_SCHEDULE"},
		{"missing timezone", func(c *Config) { c.Reporting.Timezone = "" }, "TIMEZONE"},
		{"non-positive ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, "SESSION_TTL"},
		{"missing raw material", func(c *Config) { c.Stock.RawMaterialMatch = "" }, "RAW_MATERIAL_MATCH"},
		{"non-positive consumption", func(c *Config) { c.Stock.UnitConsumption = 0 }, "UNIT_CONSUMPTION_KG"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
