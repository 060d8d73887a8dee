package skills

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	config := LoadConfig(context.Background())
	assert.Equal(t, DefaultTimeout, config.DefaultTimeout)
	assert.Zero(t, config.MaxConcurrent)
}

func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("skills", map[string]any{
		"default_timeout": "150ms",
		"max_concurrent":  3,
	})

	config := LoadConfig(context.Background())
	assert.Equal(t, 150*time.Millisecond, config.DefaultTimeout)
	assert.Equal(t, 3, config.MaxConcurrent)
}

func TestLoadConfigRejectsNonPositiveTimeout(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("skills", map[string]any{"default_timeout": "0s", "max_concurrent": -1})

	config := LoadConfig(context.Background())
	assert.Equal(t, DefaultTimeout, config.DefaultTimeout)
	assert.Zero(t, config.MaxConcurrent)
}

func TestNewRunnerFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("skills", map[string]any{"default_timeout": "45s", "max_concurrent": 4})

	registry := NewRegistry()
	require.NoError(t, registry.Register(echoSkill()))

	runner := NewRunnerFromViper(context.Background(), registry)
	require.NotNil(t, runner)
	assert.Equal(t, 45*time.Second, runner.timeout)
	assert.Equal(t, 4, cap(runner.slots))
}
