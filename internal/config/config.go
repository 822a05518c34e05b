package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string

	RazorpayBaseURL   string
	RazorpayKeyID     string
	RazorpayKeySecret string

	ShiprocketBaseURL   string
	ShiprocketEmail     string
	ShiprocketPassword  string
	ShiprocketChannelID string
	PickupLocation      string
	WarehousePincode    string

	KafkaBrokers     []string
	OrderEventsTopic string

	AuthSecret        string
	AdminLogin        string
	AdminPasswordHash string

	AdapterTimeout       time.Duration
	TrackingPollInterval time.Duration
	WorkerPoolSize       int
	PollBatchSize        int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress           = ":8080"
	defaultRazorpayBaseURL      = "https://api.razorpay.com/v1"
	defaultShiprocketBaseURL    = "https://apiv2.shiprocket.in/v1/external"
	defaultOrderEventsTopic     = "order-events"
	defaultAuthSecret           = "change-me-in-production"
	defaultAdminLogin           = "admin"
	defaultAdapterTimeout       = 30 * time.Second
	defaultTrackingPollInterval = 30 * time.Second
	defaultWorkerPoolSize       = 4
	defaultPollBatchSize        = 32
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		RazorpayBaseURL:      getString(lookup, "RAZORPAY_BASE_URL", defaultRazorpayBaseURL),
		RazorpayKeyID:        getString(lookup, "RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:    getString(lookup, "RAZORPAY_KEY_SECRET", ""),
		ShiprocketBaseURL:    getString(lookup, "SHIPROCKET_BASE_URL", defaultShiprocketBaseURL),
		ShiprocketEmail:      getString(lookup, "SHIPROCKET_EMAIL", ""),
		ShiprocketPassword:   getString(lookup, "SHIPROCKET_PASSWORD", ""),
		ShiprocketChannelID:  getString(lookup, "SHIPROCKET_CHANNEL_ID", ""),
		PickupLocation:       getString(lookup, "PICKUP_LOCATION", "Primary"),
		WarehousePincode:     getString(lookup, "WAREHOUSE_PINCODE", "212601"),
		OrderEventsTopic:     getString(lookup, "ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		AuthSecret:           getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AdminLogin:           getString(lookup, "ADMIN_LOGIN", defaultAdminLogin),
		AdminPasswordHash:    getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		AdapterTimeout:       getDuration(lookup, "ADAPTER_TIMEOUT", defaultAdapterTimeout),
		TrackingPollInterval: getDuration(lookup, "TRACKING_POLL_INTERVAL", defaultTrackingPollInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		PollBatchSize:        getInt(lookup, "POLL_BATCH_SIZE", defaultPollBatchSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	brokers := getString(lookup, "KAFKA_BROKERS", "")

	fs := flag.NewFlagSet("oilshop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.TrackingPollInterval.String()
		adapterTimeoutStr  = cfg.AdapterTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RazorpayBaseURL, "razorpay-url", cfg.RazorpayBaseURL, "Razorpay API base URL")
	fs.StringVar(&cfg.ShiprocketBaseURL, "shiprocket-url", cfg.ShiprocketBaseURL, "Shiprocket API base URL")
	fs.StringVar(&brokers, "kafka-brokers", brokers, "Comma separated Kafka brokers for order events (empty disables)")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing admin tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciliation workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between tracking polls")
	fs.StringVar(&adapterTimeoutStr, "adapter-timeout", adapterTimeoutStr, "Timeout for third-party adapter calls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.PollBatchSize, "poll-batch", cfg.PollBatchSize, "Maximum orders per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TrackingPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.AdapterTimeout, err = time.ParseDuration(adapterTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid adapter timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.PollBatchSize <= 0 {
		cfg.PollBatchSize = defaultPollBatchSize
	}

	if cfg.TrackingPollInterval <= 0 {
		cfg.TrackingPollInterval = defaultTrackingPollInterval
	}

	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = defaultAdapterTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("razorpay key secret must be provided")
	}

	if cfg.ShiprocketEmail == "" || cfg.ShiprocketPassword == "" {
		return nil, fmt.Errorf("shiprocket credentials must be provided")
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
