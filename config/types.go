package config

import (
	"fundchain/core/state"
	"fundchain/observability/logging"
)

// Storage backends accepted by Config.Database.
const (
	DatabaseLevelDB = "leveldb"
	DatabaseMemory  = "memory"
)

// Config is the node configuration.
type Config struct {
	ListenAddress string `toml:"ListenAddress" yaml:"listenAddress"`
	DataDir       string `toml:"DataDir" yaml:"dataDir"`
	Database      string `toml:"Database" yaml:"database"`
	NetworkName   string `toml:"NetworkName" yaml:"networkName"`
	// Faucet enables the development faucet call. Never enable on shared networks.
	Faucet      bool       `toml:"Faucet" yaml:"faucet"`
	RewardRatio uint64     `toml:"RewardRatio" yaml:"rewardRatio"`
	Rent        state.Rent `toml:"Rent" yaml:"rent"`

	EventStore EventStoreConfig `toml:"EventStore" yaml:"eventStore"`
	Gateway    GatewayConfig    `toml:"Gateway" yaml:"gateway"`
	Logging    logging.Options  `toml:"Logging" yaml:"logging"`
	Telemetry  TelemetryConfig  `toml:"Telemetry" yaml:"telemetry"`
}

// EventStoreConfig selects where committed events are persisted.
type EventStoreConfig struct {
	// DSN is a SQLite path/URI, or a postgres:// URL.
	DSN string `toml:"DSN" yaml:"dsn"`
}

// GatewayConfig configures the HTTP gateway.
type GatewayConfig struct {
	// JWTSecretEnv names the environment variable holding the HS256 secret.
	JWTSecretEnv       string  `toml:"JWTSecretEnv" yaml:"jwtSecretEnv"`
	JWTIssuer          string  `toml:"JWTIssuer" yaml:"jwtIssuer"`
	RateLimitPerSecond float64 `toml:"RateLimitPerSecond" yaml:"rateLimitPerSecond"`
	RateLimitBurst     int     `toml:"RateLimitBurst" yaml:"rateLimitBurst"`
	ReadTimeoutSecs    int     `toml:"ReadTimeoutSecs" yaml:"readTimeoutSecs"`
	WriteTimeoutSecs   int     `toml:"WriteTimeoutSecs" yaml:"writeTimeoutSecs"`
}

// TelemetryConfig configures OTLP exporters.
type TelemetryConfig struct {
	Endpoint    string  `toml:"Endpoint" yaml:"endpoint"`
	Insecure    bool    `toml:"Insecure" yaml:"insecure"`
	Headers     string  `toml:"Headers" yaml:"headers"`
	Metrics     bool    `toml:"Metrics" yaml:"metrics"`
	Traces      bool    `toml:"Traces" yaml:"traces"`
	SampleRatio float64 `toml:"SampleRatio" yaml:"sampleRatio"`
}
