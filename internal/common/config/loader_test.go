package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	viper.Reset()
	path := writeConfig(t, `
app:
  name: admissions-platform
workers:
  calculate-match-score:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 5000, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 20, cfg.Matching.DefaultLimit)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "colleges", cfg.Database.Elasticsearch.CollegeIndex)
	assert.Equal(t, 5, cfg.Workers["calculate-match-score"].MaxJobsActive)
	assert.Equal(t, 3, cfg.Workers["calculate-match-score"].MaxRetries)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	viper.Reset()
	t.Setenv("TEST_PG_HOST", "db.internal")
	path := writeConfig(t, `
database:
  postgres:
    enabled: true
    host: ${TEST_PG_HOST}
    database: admissions
    user: app
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "host=db.internal port=5432")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "all backends disabled", mutate: func(cfg *Config) {}},
		{
			name:    "postgres enabled without host",
			mutate:  func(cfg *Config) { cfg.Database.Postgres.Enabled = true },
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "camunda enabled without broker",
			mutate:  func(cfg *Config) { cfg.Camunda.Enabled = true },
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "redis enabled without address",
			mutate:  func(cfg *Config) { cfg.Database.Redis.Enabled = true },
			wantErr: "database.redis.address is required",
		},
		{
			name:    "email enabled without sender",
			mutate:  func(cfg *Config) { cfg.Notifications.Email.Enabled = true },
			wantErr: "from_email is required",
		},
		{
			name:    "default limit above max",
			mutate:  func(cfg *Config) { cfg.Matching.DefaultLimit = 500 },
			wantErr: "default_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetWorkerConfig_FallsBackToDefaults(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"categorize-colleges": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "categorize-colleges"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "categorize-colleges").MaxJobsActive)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "unknown").Timeout)
}
