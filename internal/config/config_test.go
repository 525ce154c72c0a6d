package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepay/internal/payfast"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PAYFAST_SANDBOX", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.PayFast.Sandbox)
	assert.Equal(t, payfast.ProductionValidateURL, cfg.PayFast.ValidationURL())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursepay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
  read_timeout: 3s
payfast:
  merchant_id: "10000100"
  sandbox: true
  validate_rps: 2.5
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVER_READ_TIMEOUT", "")
	t.Setenv("PAYFAST_SANDBOX", "")
	t.Setenv("PAYFAST_VALIDATE_RPS", "")
	t.Setenv("PAYFAST_MERCHANT_ID", "10000200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout, "unset keys keep their defaults")
	assert.Equal(t, "10000200", cfg.PayFast.MerchantID)
	assert.True(t, cfg.PayFast.Sandbox)
	assert.Equal(t, 2.5, cfg.PayFast.ValidateRPS)
	assert.Equal(t, payfast.SandboxValidateURL, cfg.PayFast.ValidationURL())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SERVER_WRITE_TIMEOUT", "soon")
	t.Setenv("DB_AUTO_MIGRATE", "sometimes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestPayFastConfig_ValidationURLOverride(t *testing.T) {
	cfg := PayFastConfig{Sandbox: true, ValidateURL: "http://localhost:9999/validate"}
	assert.Equal(t, "http://localhost:9999/validate", cfg.ValidationURL())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.PayFast.MerchantID = "10000100"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"valid development", func(cfg *Config) {}, false},
		{"missing merchant id", func(cfg *Config) { cfg.PayFast.MerchantID = "" }, true},
		{"non numeric port", func(cfg *Config) { cfg.Server.Port = "http" }, true},
		{"bad sslmode", func(cfg *Config) { cfg.Database.SSLMode = "maybe" }, true},
		{"negative rps", func(cfg *Config) { cfg.PayFast.ValidateRPS = -1 }, true},
		{"bad validate url", func(cfg *Config) { cfg.PayFast.ValidateURL = "not a url" }, true},
		{"new relic without key", func(cfg *Config) { cfg.NewRelic.Enabled = true }, true},
		{"redis disabled without addr", func(cfg *Config) { cfg.Redis.Enabled = false; cfg.Redis.Addr = "" }, false},
		{"production without merchant key", func(cfg *Config) { cfg.AppEnv = EnvProduction }, true},
		{"production with merchant key", func(cfg *Config) {
			cfg.AppEnv = EnvProduction
			cfg.PayFast.MerchantKey = "46f0cd694581a"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ProductionMerchantKeySentinel(t *testing.T) {
	cfg := defaults()
	cfg.AppEnv = EnvProduction
	cfg.PayFast.MerchantID = "10000100"

	assert.ErrorIs(t, cfg.Validate(), ErrMerchantKeyRequired)
	assert.False(t, cfg.IsDevelopment())
}
