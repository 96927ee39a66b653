package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"fundchain/core/state"
	"fundchain/native/fundraise"
)

// Default returns the configuration written when no file exists. Logging and
// telemetry stay at their zero values: stdout at info, exporters off.
func Default() *Config {
	return &Config{
		ListenAddress: ":8080",
		DataDir:       "./fund-data",
		Database:      DatabaseLevelDB,
		NetworkName:   "fund-local",
		RewardRatio:   fundraise.DefaultRewardRatio,
		Rent:          state.DefaultRent(),
		EventStore:    EventStoreConfig{DSN: "./fund-data/events.db"},
		Gateway: GatewayConfig{
			JWTSecretEnv:       "FUND_JWT_SECRET",
			JWTIssuer:          "fundchain",
			RateLimitPerSecond: 20,
			RateLimitBurst:     40,
			ReadTimeoutSecs:    10,
			WriteTimeoutSecs:   10,
		},
	}
}

// Load loads the configuration from the given path. Files ending in .yaml or
// .yml are decoded as YAML, everything else as TOML. A missing file is
// created with defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	} else if err != nil {
		return nil, err
	}

	cfg := Default()
	if isYAML(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: unknown key %q in %s", undecoded[0].String(), path)
		}
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "fund-local"
	}
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = DatabaseLevelDB
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// JWTSecret returns the gateway signing secret from the configured environment variable.
func (c *Config) JWTSecret() string {
	if c == nil || strings.TrimSpace(c.Gateway.JWTSecretEnv) == "" {
		return ""
	}
	return os.Getenv(c.Gateway.JWTSecretEnv)
}

// StatePath is the directory holding the LevelDB record store.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		defer enc.Close()
		return enc.Encode(cfg)
	}
	return toml.NewEncoder(f).Encode(cfg)
}
