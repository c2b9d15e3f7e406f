package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type HTTPConfig struct {
	Host    string
	Port    int
	Origins []string
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret  string
	LoginDelay time.Duration
}

type UpstreamConfig struct {
	BearerToken    string
	PlanURL        string
	RouteGroupsURL string
	RoutesURL      string
	Timeout        time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type SeedConfig struct {
	DriversCSVPath string
}

type TracingConfig struct {
	OTLPEndpoint string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Upstream    UpstreamConfig
	Log         LogConfig
	Seed        SeedConfig
	Tracing     TracingConfig
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("PORT", 3001)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("LOGIN_DELAY", 500*time.Millisecond)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DRIVERS_CSV_PATH", "assets/drivers.csv")

	cfg := &Config{
		Environment: strings.ToLower(v.GetString("APP_ENV")),
		HTTP: HTTPConfig{
			Host:    v.GetString("HTTP_HOST"),
			Port:    v.GetInt("PORT"),
			Origins: splitOrigins(v.GetString("ORIGIN")),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("JWT_SECRET_KEY"),
			LoginDelay: v.GetDuration("LOGIN_DELAY"),
		},
		Upstream: UpstreamConfig{
			BearerToken:    v.GetString("BEARER_TOKEN"),
			PlanURL:        strings.TrimRight(v.GetString("PLAN_EXTERNAL_SERVICE_URL"), "/"),
			RouteGroupsURL: strings.TrimRight(v.GetString("ROUTE_GROUPS_EXTERNAL_SERVICE_URL"), "/"),
			RoutesURL:      strings.TrimRight(v.GetString("EXTERNAL_SERVICE_URL"), "/"),
			Timeout:        v.GetDuration("UPSTREAM_TIMEOUT"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Seed: SeedConfig{
			DriversCSVPath: v.GetString("DRIVERS_CSV_PATH"),
		},
		Tracing: TracingConfig{
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if cfg.HTTP.Port <= 0 {
		return fmt.Errorf("PORT must be positive")
	}
	if cfg.Auth.LoginDelay < 0 {
		return fmt.Errorf("LOGIN_DELAY must not be negative")
	}
	return nil
}

func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
