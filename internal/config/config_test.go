package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "test")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, c.DBDriver)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 15*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CORSAllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, c.DBDriver)
	assert.Equal(t, 10*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
	assert.Contains(t, c.DSN(), "port=5432")
}

func TestLoad_ReleaseRequiresSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RefreshMustOutliveAccess(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("REFRESH_TOKEN_TTL", "1h")

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_DSN(t *testing.T) {
	c := &Config{
		DBDriver:   DriverMySQL,
		DBHost:     "db",
		DBPort:     "3306",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "tracker",
	}
	assert.Equal(t, "u:p@tcp(db:3306)/tracker?charset=utf8mb4&parseTime=True&loc=UTC", c.DSN())

	c.DBDriver = DriverSQLite
	assert.Equal(t, "file:tracker?_foreign_keys=on", c.DSN())
}
