// internal/workers/matching/categorize-colleges/config.go
package categorizecolleges

import (
	"time"

	"admissions-platform/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig(wcfg config.WorkerConfig, mcfg config.MatchingConfig) *Config {
	cfg := &Config{
		Timeout:      15 * time.Second,
		DefaultLimit: mcfg.DefaultLimit,
		MaxLimit:     mcfg.MaxLimit,
	}
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}

// limit applies the default when requested is zero and caps it at MaxLimit.
func (c *Config) limit(requested int) int {
	if requested <= 0 {
		requested = c.DefaultLimit
	}
	if c.MaxLimit > 0 && requested > c.MaxLimit {
		requested = c.MaxLimit
	}
	return requested
}
