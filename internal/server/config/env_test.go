package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseEnv_ProcessEnv(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	err := parseEnv(c, "", mapLookup(map[string]string{
		"PORT":                 "3000",
		"GRPC_ADDR":            ":6000",
		"DATABASE_DSN":         "dsn",
		"ACCESS_TOKEN_SECRET":  "a",
		"REFRESH_TOKEN_SECRET": "r",
		"ACCESS_TOKEN_TTL":     "15m",
		"REFRESH_TOKEN_TTL":    "48h",
		"REFRESH_COOKIE_NAME":  "rt",
		"APP_ENV":              "production",
		"CORS_ORIGINS":         "https://a.example, https://b.example,",
		"REDIS_ADDR":           "redis:6379",
		"AUTH_RATE_LIMIT":      "5",
		"AUTH_RATE_WINDOW":     "30s",
		"S3_BUCKET":            "pics",
		"PURGE_INTERVAL":       "10m",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, ":6000", c.EndpointAddrGRPC)
	assert.Equal(t, "dsn", c.DatabaseDSN)
	assert.Equal(t, "a", c.AccessTokenSecret)
	assert.Equal(t, "r", c.RefreshTokenSecret)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 48*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "rt", c.RefreshCookieName)
	assert.True(t, c.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, 5, c.AuthRateLimit)
	assert.Equal(t, 30*time.Second, c.AuthRateWindow)
	assert.Equal(t, "pics", c.S3Bucket)
	assert.Equal(t, 10*time.Minute, c.PurgeInterval)
}

func TestParseEnv_DotEnvFileAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ACCESS_TOKEN_SECRET=file-access\nREFRESH_TOKEN_SECRET=file-refresh\n"), 0o600))

	c := &Config{}
	c.LoadDefaults()
	err := parseEnv(c, path, mapLookup(map[string]string{"REFRESH_TOKEN_SECRET": "env-refresh"}))
	require.NoError(t, err)

	assert.Equal(t, "file-access", c.AccessTokenSecret)
	assert.Equal(t, "env-refresh", c.RefreshTokenSecret)
}

func TestParseEnv_MissingFileIsFine(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	err := parseEnv(c, filepath.Join(t.TempDir(), "nope.env"), mapLookup(nil))
	assert.NoError(t, err)
}

func TestParseEnv_BadValues(t *testing.T) {
	for _, kv := range [][2]string{
		{"ACCESS_TOKEN_TTL", "soon"},
		{"AUTH_RATE_LIMIT", "many"},
		{"PURGE_INTERVAL", "1 hour"},
	} {
		t.Run(kv[0], func(t *testing.T) {
			c := &Config{}
			c.LoadDefaults()
			err := parseEnv(c, "", mapLookup(map[string]string{kv[0]: kv[1]}))
			assert.Error(t, err)
		})
	}
}
