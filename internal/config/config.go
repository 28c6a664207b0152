// Package config loads runtime settings from an optional .env file, an
// optional config.yaml and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr     string
	StoreBackend string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	JWTSecret string
	JWTTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	LoginRate  float64
	LoginBurst int

	LogLevel string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "waterx:")
	v.SetDefault("JWT_SECRET", "waterx-dev-secret")
	v.SetDefault("JWT_TTL", "12h")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "waterx-events")
	v.SetDefault("LOGIN_RATE", 1)
	v.SetDefault("LOGIN_BURST", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_EMAIL", "alyan@waterx.pk")
	v.SetDefault("ADMIN_PASSWORD", "Waterx@123")
	v.SetDefault("ADMIN_NAME", "Alyan Ahmed")
}

// Load reads the configuration. Missing .env and config.yaml files are not errors.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		StoreBackend:  strings.ToLower(v.GetString("STORE_BACKEND")),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisPrefix:   v.GetString("REDIS_PREFIX"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        v.GetDuration("JWT_TTL"),
		KafkaBrokers:  splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:    v.GetString("KAFKA_TOPIC"),
		LoginRate:     v.GetFloat64("LOGIN_RATE"),
		LoginBurst:    v.GetInt("LOGIN_BURST"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		AdminName:     v.GetString("ADMIN_NAME"),
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	if cfg.LoginRate <= 0 || cfg.LoginBurst <= 0 {
		return Config{}, errors.New("LOGIN_RATE and LOGIN_BURST must be positive")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
