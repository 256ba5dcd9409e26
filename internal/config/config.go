package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the console and the sandbox read at startup.
type Config struct {
	BackendURL  string
	HTTPTimeout time.Duration
	ReceiptDir  string

	SandboxAddr      string
	SandboxJWTSecret string
	SessionTTL       time.Duration
}

// Init wires viper to the .env file and environment overrides.
func Init() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.BindEnv("backend.url", "BACKEND_URL")
	viper.BindEnv("backend.timeout", "BACKEND_TIMEOUT")
	viper.BindEnv("receipt.dir", "RECEIPT_DIR")
	viper.BindEnv("sandbox.addr", "SANDBOX_ADDR")
	viper.BindEnv("sandbox.jwt_secret", "SANDBOX_JWT_SECRET")
	viper.BindEnv("sandbox.session_ttl", "SANDBOX_SESSION_TTL")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}
}

// Get returns the configuration with defaults applied.
func Get() *Config {
	viper.SetDefault("backend.url", "http://localhost:9090")
	viper.SetDefault("backend.timeout", 15*time.Second)
	viper.SetDefault("receipt.dir", ".")
	viper.SetDefault("sandbox.addr", ":9090")
	viper.SetDefault("sandbox.jwt_secret", "dev-only-secret")
	viper.SetDefault("sandbox.session_ttl", 12*time.Hour)

	return &Config{
		BackendURL:       viper.GetString("backend.url"),
		HTTPTimeout:      viper.GetDuration("backend.timeout"),
		ReceiptDir:       viper.GetString("receipt.dir"),
		SandboxAddr:      viper.GetString("sandbox.addr"),
		SandboxJWTSecret: viper.GetString("sandbox.jwt_secret"),
		SessionTTL:       viper.GetDuration("sandbox.session_ttl"),
	}
}
