package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	GinMode         string        `mapstructure:"GIN_MODE" validate:"required,oneof=debug release test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	DBDriver   string `mapstructure:"DB_DRIVER" validate:"required,oneof=mysql postgres sqlite"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME" validate:"required"`

	JWTSecret       string        `mapstructure:"JWT_SECRET" validate:"required"`
	JWTIssuer       string        `mapstructure:"JWT_ISSUER" validate:"required"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL" validate:"required"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL" validate:"required,gtfield=AccessTokenTTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	CORSAllowedOrigins []string `mapstructure:"-"`

	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
}

// defaultJWTSecret is only accepted outside release mode.
const defaultJWTSecret = "default-secret-key-change-me"

var (
	validate = validator.New(validator.WithRequiredStructEnabled())

	keys = []string{
		"GIN_MODE",
		"HTTP_ADDR",
		"SHUTDOWN_TIMEOUT",
		"DB_DRIVER",
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
		"JWT_SECRET",
		"JWT_ISSUER",
		"ACCESS_TOKEN_TTL",
		"REFRESH_TOKEN_TTL",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"CORS_ALLOWED_ORIGINS",
		"OPENAI_API_KEY",
	}
)

// Load reads configuration from the environment, an optional .env file and an
// optional config.yaml in the working directory, then validates it.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "project_tracker")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "project-tracker-api")
	v.SetDefault("ACCESS_TOKEN_TTL", "5m")
	v.SetDefault("REFRESH_TOKEN_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	_ = v.ReadInConfig()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	for key, dst := range map[string]*time.Duration{
		"SHUTDOWN_TIMEOUT":  &c.ShutdownTimeout,
		"ACCESS_TOKEN_TTL":  &c.AccessTokenTTL,
		"REFRESH_TOKEN_TTL": &c.RefreshTokenTTL,
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	c.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if c.GinMode == "release" && c.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("invalid configuration: JWT_SECRET must be set in release mode")
	}

	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// DSN builds the driver-specific data source name.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost,
			c.DBUser,
			c.DBPassword,
			c.DBName,
			c.DBPort,
		)
	case DriverSQLite:
		return fmt.Sprintf("file:%s?_foreign_keys=on", c.DBName)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			c.DBPort,
			c.DBName,
		)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
