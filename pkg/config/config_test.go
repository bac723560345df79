package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Database.DSN = "user:pass@tcp(localhost:3306)/orders"
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validConfig()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"bad port", func(c *Config) { c.Server.Port = "http" }},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"bad time zone", func(c *Config) { c.Business.TimeZone = "Mars/Olympus" }},
		{"release without secrets", func(c *Config) { c.Server.Mode = "release" }},
		{"redis session without redis", func(c *Config) { c.Session.Store = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENABLE_CAPTCHA", "1")
	t.Setenv("CAPTCHA_LENGTH", "6")
	t.Setenv("TZ_REFERENCE", "Asia/Ho_Chi_Minh")

	cfg := Default()
	loadFromEnv(cfg)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Security.EnableCaptcha)
	assert.Equal(t, 6, cfg.Security.CaptchaLength)
	assert.Empty(t, cfg.Security.CaptchaAlphabet)

	loc, err := cfg.Business.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())
}

func TestStorageEnabled(t *testing.T) {
	s := StorageConfig{Endpoint: "tos-cn-beijing.volces.com", AccessKeyID: "ak", AccessKeySecret: "sk"}
	assert.False(t, s.Enabled())
	s.BucketName = "imports"
	assert.True(t, s.Enabled())
}
