package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "APP_ADDR", "GIN_MODE", "DB_DSN", "DB_HOST", "DB_USER", "DB_PASS", "DB_NAME",
		"JWT_SECRET", "COOKIE_SECURE", "CORS_ALLOWED_ORIGINS", "GEOCODER_URL", "GEOCODER_USER_AGENT",
		"GEOCODER_RPS", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GOOGLE_CLIENT_ID",
		"GOOGLE_CLIENT_SECRET", "OAUTH_REDIRECT_BASE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	clearEnv(t)

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, 1.0, env.GeocoderRPS)
	assert.Contains(t, env.DSN(), "root:@tcp(127.0.0.1:3306)/travel_planner?parseTime=true")
	assert.EqualError(t, env.ValidateServe(), "JWT_SECRET is required")
}

func TestLoadEnvFileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "travelplanner.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_addr = ":9000"
jwt_secret = "from-file"
geocoder_rps = 0.5
cors_allowed_origins = ["https://trips.example.com"]
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("COOKIE_SECURE", "true")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", env.AppAddr)
	assert.Equal(t, "from-env", env.JWTSecret)
	assert.Equal(t, 0.5, env.GeocoderRPS)
	assert.True(t, env.CookieSecure)
	assert.Equal(t, []string{"https://trips.example.com"}, env.CORSAllowedOrigins)
	assert.NoError(t, env.ValidateServe())
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOCODER_RPS", "fast")
	_, err := LoadEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("COOKIE_SECURE", "sometimes")
	_, err = LoadEnv()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = LoadEnv()
	assert.Error(t, err)
}

func TestDSNOverrideAndOriginList(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "u:p@tcp(db:3306)/x?parseTime=true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(db:3306)/x?parseTime=true", env.DSN())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSAllowedOrigins)
}
