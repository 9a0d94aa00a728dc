package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	GatewayAddress     string
	GatewaySecret      string
	NotifierAddress    string
	CallbackURL        string
	ReturnURL          string
	Currency           string
	TokenSecret        string
	ShutdownTimeout    time.Duration
	DispatcherPoolSize int
	EventBufferSize    int
}

const (
	defaultRunAddress         = ":8080"
	defaultCurrency           = "ETB"
	defaultTokenSecret        = "change-me-in-production"
	defaultShutdownTimeout    = 10 * time.Second
	defaultDispatcherPoolSize = 4
	defaultEventBufferSize    = 64
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:     getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewaySecret:      getString(lookup, "GATEWAY_SECRET", ""),
		NotifierAddress:    getString(lookup, "NOTIFIER_ADDRESS", ""),
		CallbackURL:        getString(lookup, "CALLBACK_URL", ""),
		ReturnURL:          getString(lookup, "RETURN_URL", ""),
		Currency:           getString(lookup, "CURRENCY", defaultCurrency),
		TokenSecret:        getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		DispatcherPoolSize: getInt(lookup, "DISPATCHER_POOL_SIZE", defaultDispatcherPoolSize),
		EventBufferSize:    getInt(lookup, "EVENT_BUFFER_SIZE", defaultEventBufferSize),
	}

	fs := flag.NewFlagSet("commerce", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	shutdownTimeoutStr := cfg.ShutdownTimeout.String()

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewaySecret, "gateway-secret", cfg.GatewaySecret, "Payment gateway API secret")
	fs.StringVar(&cfg.NotifierAddress, "n", cfg.NotifierAddress, "Notification service base URL")
	fs.StringVar(&cfg.CallbackURL, "callback-url", cfg.CallbackURL, "Payment callback URL passed to the gateway")
	fs.StringVar(&cfg.ReturnURL, "return-url", cfg.ReturnURL, "Customer return URL passed to the gateway")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "Currency code for payments")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for verifying actor tokens")
	fs.IntVar(&cfg.DispatcherPoolSize, "dispatcher-pool", cfg.DispatcherPoolSize, "Number of concurrent notification workers")
	fs.IntVar(&cfg.EventBufferSize, "event-buffer", cfg.EventBufferSize, "Notification event queue capacity")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("GATEWAY_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read gateway secret file: %w", err)
		}
		cfg.GatewaySecret = string(content)
	}

	if cfg.DispatcherPoolSize <= 0 {
		cfg.DispatcherPoolSize = defaultDispatcherPoolSize
	}

	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = defaultEventBufferSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	if cfg.NotifierAddress == "" {
		return nil, fmt.Errorf("notification service address must be provided")
	}

	if cfg.CallbackURL == "" {
		return nil, fmt.Errorf("payment callback URL must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
