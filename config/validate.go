package config

import (
	"fmt"
	"strings"
)

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	switch c.Database {
	case DatabaseLevelDB:
		if strings.TrimSpace(c.DataDir) == "" {
			return fmt.Errorf("config: DataDir required for leveldb")
		}
	case DatabaseMemory:
	default:
		return fmt.Errorf("config: unknown Database %q", c.Database)
	}
	if c.RewardRatio == 0 {
		return fmt.Errorf("config: RewardRatio must be positive")
	}
	if c.Gateway.RateLimitPerSecond < 0 || c.Gateway.RateLimitBurst < 0 {
		return fmt.Errorf("config: gateway rate limits must not be negative")
	}
	if c.Gateway.RateLimitPerSecond > 0 && c.Gateway.RateLimitBurst == 0 {
		return fmt.Errorf("config: gateway RateLimitBurst required when RateLimitPerSecond is set")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("config: telemetry SampleRatio must be within [0,1]")
	}
	return nil
}
