package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Default Tests
// ==========================

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "driver-portal", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "data/applications.json", cfg.Storage.File.Path)
	assert.Equal(t, "data/pdf", cfg.Storage.PDFDir)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "admin@alsaqqaf", cfg.Auth.AdminUser)
	assert.Equal(t, 12, cfg.Auth.SessionTTLHrs)
	assert.Equal(t, "portal_session", cfg.Auth.SessionCookie)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Storage.Backend = "postgres"
	cfg.Auth.SessionTTLHrs = 1

	applyDefaults(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, 1, cfg.Auth.SessionTTLHrs)
}

// ==========================
// Validation Tests
// ==========================

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown backend",
			mutate:  func(cfg *Config) { cfg.Storage.Backend = "dynamo" },
			wantErr: "unknown storage backend",
		},
		{
			name:    "postgres without host",
			mutate:  func(cfg *Config) { cfg.Storage.Backend = "postgres" },
			wantErr: "no host configured",
		},
		{
			name: "postgres with host",
			mutate: func(cfg *Config) {
				cfg.Storage.Backend = "postgres"
				cfg.Storage.Postgres.Host = "db.internal"
			},
		},
		{
			name: "missing admin pass outside development",
			mutate: func(cfg *Config) {
				cfg.App.Environment = "production"
			},
			wantErr: "admin_pass must be set",
		},
		{
			name: "notifications without sender",
			mutate: func(cfg *Config) {
				cfg.Notifications.Enabled = true
			},
			wantErr: "no sender configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ==========================
// DSN Tests
// ==========================

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "portal",
		Password: "secret",
		Database: "driver_portal",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=driver_portal")
	assert.Contains(t, dsn, "sslmode=disable")
}
