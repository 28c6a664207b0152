package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "waterx:", cfg.RedisPrefix)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "waterx-events", cfg.KafkaTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 1.0, cfg.LoginRate)
	assert.Equal(t, 5, cfg.LoginBurst)
	assert.Equal(t, "alyan@waterx.pk", cfg.AdminEmail)
	assert.Equal(t, "Waterx@123", cfg.AdminPassword)
	assert.Equal(t, "Alyan Ahmed", cfg.AdminName)
}

func TestOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORE_BACKEND": "Redis",
		"KAFKA_BROKERS": "k1:9092, k2:9092,",
		"JWT_TTL":       "30m",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"unknown backend", map[string]any{"STORE_BACKEND": "mongo"}},
		{"postgres without url", map[string]any{"STORE_BACKEND": "postgres"}},
		{"zero ttl", map[string]any{"JWT_TTL": "0s"}},
		{"zero burst", map[string]any{"LOGIN_BURST": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}
