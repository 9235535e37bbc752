package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "hash-key")
	t.Setenv("SESSION_ENCRYPTION_KEY", "0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("COOKIE_SECURE", "")
	t.Setenv("CLOUDINARY_FOLDER", "")
	t.Setenv("BACKUP_DIR", "")
	t.Setenv("BACKUP_RETENTION", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge)
	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, "thevervefashion", cfg.CloudinaryFolder)
	assert.Equal(t, "checkout_requests", cfg.CheckoutQueue)
	assert.Empty(t, cfg.BackupDir)
	assert.Equal(t, 96*time.Hour, cfg.BackupRetention)
}

func TestLoad_ProdRequiresJWTSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies)
}

func TestLoad_BadSessionKeys(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_ENCRYPTION_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.Contains(t, err.Error(), "SESSION_ENCRYPTION_KEY")
}

func TestLoad_BadMaxAge(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_MAX_AGE", "forever")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := Config{Env: "dev", DBHost: "db", DBPort: "5432", DBUser: "verve", DBPassword: "pw", DBName: "shop"}
	assert.Equal(t, "host=db user=verve password=pw dbname=shop port=5432 sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", cfg.DSN())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
