package inits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PATH", "/tmp/shop.db")
	t.Setenv("REDIS_CONN", "redis://localhost:6379/0")
	t.Setenv("SIGNATURE_SECRET_KEY", "some-secret")
}

func TestConfig(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MODE", "production")
	t.Setenv("LISTEN", ":8080")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "bootpass")

	cfg, err := Config()
	require.NoError(t, err)
	assert.True(t, cfg.System.IsProd)
	assert.Equal(t, ":8080", cfg.System.Listen)
	assert.Equal(t, "/tmp/shop.db", cfg.System.DBPath)
	assert.Equal(t, "redis://localhost:6379/0", cfg.System.RedisConnectionString)
	assert.Equal(t, "some-secret", cfg.Security.SignatureSecretKey)
	assert.Equal(t, "bootpass", cfg.Security.BootstrapAdminPassword)
}

func TestConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Config()
	require.NoError(t, err)
	assert.False(t, cfg.System.IsProd)
	assert.Equal(t, ":1323", cfg.System.Listen)
	assert.Empty(t, cfg.Security.BootstrapAdminPassword)
}

// 签名密钥缺失必须拒绝启动，没有任何默认值可回落
func TestConfigMissingSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SIGNATURE_SECRET_KEY", "")

	cfg, err := Config()
	require.Error(t, err)
	assert.Nil(t, cfg)
}
