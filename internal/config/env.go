package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Env struct {
	AppAddr string `toml:"app_addr"`
	GinMode string `toml:"gin_mode"`

	DBDSN  string `toml:"db_dsn"`
	DBHost string `toml:"db_host"`
	DBUser string `toml:"db_user"`
	DBPass string `toml:"db_pass"`
	DBName string `toml:"db_name"`

	JWTSecret    string `toml:"jwt_secret"`
	CookieSecure bool   `toml:"cookie_secure"`

	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`

	GeocoderURL       string  `toml:"geocoder_url"`
	GeocoderUserAgent string  `toml:"geocoder_user_agent"`
	GeocoderRPS       float64 `toml:"geocoder_rps"`

	GitHubClientID     string `toml:"github_client_id"`
	GitHubClientSecret string `toml:"github_client_secret"`
	GoogleClientID     string `toml:"google_client_id"`
	GoogleClientSecret string `toml:"google_client_secret"`
	OAuthRedirectBase  string `toml:"oauth_redirect_base"`
}

func defaultEnv() Env {
	return Env{
		AppAddr:           ":8080",
		DBHost:            "127.0.0.1:3306",
		DBUser:            "root",
		DBName:            "travel_planner",
		GeocoderURL:       "https://nominatim.openstreetmap.org",
		GeocoderUserAgent: "travelplanner/1.0",
		GeocoderRPS:       1,
		OAuthRedirectBase: "http://localhost:8080",
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}
}

// LoadEnv builds the runtime configuration. Values from the TOML file named by
// CONFIG_FILE (if any) are applied over the defaults, then environment variables win.
func LoadEnv() (Env, error) {
	env := defaultEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return env, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(raw, &env); err != nil {
			return env, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	setString(&env.AppAddr, "APP_ADDR")
	setString(&env.GinMode, "GIN_MODE")
	setString(&env.DBDSN, "DB_DSN")
	setString(&env.DBHost, "DB_HOST")
	setString(&env.DBUser, "DB_USER")
	setString(&env.DBPass, "DB_PASS")
	setString(&env.DBName, "DB_NAME")
	setString(&env.JWTSecret, "JWT_SECRET")
	setString(&env.GeocoderURL, "GEOCODER_URL")
	setString(&env.GeocoderUserAgent, "GEOCODER_USER_AGENT")
	setString(&env.GitHubClientID, "GITHUB_CLIENT_ID")
	setString(&env.GitHubClientSecret, "GITHUB_CLIENT_SECRET")
	setString(&env.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&env.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&env.OAuthRedirectBase, "OAUTH_REDIRECT_BASE")

	if v := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return env, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		env.CookieSecure = b
	}
	if v := strings.TrimSpace(os.Getenv("GEOCODER_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return env, fmt.Errorf("GEOCODER_RPS: invalid value %q", v)
		}
		env.GeocoderRPS = f
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		env.CORSAllowedOrigins = splitList(v)
	}
	return env, nil
}

// ValidateServe reports settings the HTTP server cannot start without.
func (e Env) ValidateServe() error {
	if e.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if e.GeocoderURL == "" {
		return fmt.Errorf("GEOCODER_URL is required")
	}
	return nil
}

// DSN returns DB_DSN when set, otherwise a MySQL DSN built from the parts.
func (e Env) DSN() string {
	if e.DBDSN != "" {
		return e.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPass,
		e.DBHost,
		e.DBName,
	)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
