package skills

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/chimera-agent/chimera/pkg/logger"
)

// Config holds the runner settings read from the "skills" configuration key.
type Config struct {
	DefaultTimeout time.Duration `mapstructure:"default_timeout" json:"default_timeout" yaml:"default_timeout"`
	MaxConcurrent  int           `mapstructure:"max_concurrent" json:"max_concurrent" yaml:"max_concurrent"`
}

// LoadConfig reads the skills configuration from viper, falling back to
// defaults when the key is absent or malformed.
func LoadConfig(ctx context.Context) Config {
	config := Config{
		DefaultTimeout: DefaultTimeout,
	}

	if viper.IsSet("skills") {
		if err := viper.UnmarshalKey("skills", &config); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to load skills config, using defaults")
		}
	}

	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = DefaultTimeout
	}
	if config.MaxConcurrent < 0 {
		config.MaxConcurrent = 0
	}

	return config
}

// NewRunnerFromViper builds a runner for registry configured from viper.
func NewRunnerFromViper(ctx context.Context, registry *Registry) *Runner {
	config := LoadConfig(ctx)
	return NewRunner(registry,
		WithDefaultTimeout(config.DefaultTimeout),
		WithMaxConcurrent(config.MaxConcurrent),
	)
}
