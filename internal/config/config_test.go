package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestGet_Defaults(t *testing.T) {
	viper.Reset()
	Init()

	cfg := Get()
	assert.Equal(t, "http://localhost:9090", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ".", cfg.ReceiptDir)
	assert.Equal(t, ":9090", cfg.SandboxAddr)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestGet_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("BACKEND_URL", "http://bank.internal:8443")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("SANDBOX_ADDR", ":7070")
	Init()

	cfg := Get()
	assert.Equal(t, "http://bank.internal:8443", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":7070", cfg.SandboxAddr)
}
