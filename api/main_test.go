package main

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/waterx/internal/config"
	"github.com/rogerio-castellano/waterx/internal/http/ban"
	"github.com/rogerio-castellano/waterx/internal/kv"
	"github.com/rogerio-castellano/waterx/internal/seed"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConnectBackend_DefaultsToMemory(t *testing.T) {
	backend, lockout, locker := connectBackend(context.Background(), config.Config{StoreBackend: config.BackendMemory}, zerolog.Nop())
	t.Cleanup(func() { _ = backend.Close() })

	assert.IsType(t, &kv.Memory{}, backend)
	assert.IsType(t, &ban.MemoryLockout{}, lockout)
	assert.IsType(t, &seed.MutexLocker{}, locker)
}
