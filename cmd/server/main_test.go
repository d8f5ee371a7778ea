package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/membership-engine/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Port:            8080,
		DBPath:          "membership.db",
		LogLevel:        "info",
		LogFormat:       "text",
		AlertInterval:   time.Hour,
		AlertWindowDays: 7,
	}
}

func TestApplyFlags_Overrides(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, applyFlags(cfg, []string{"-port", "3000", "-db", ":memory:"}))

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
}

func TestApplyFlags_KeepsConfigWithoutFlags(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, applyFlags(cfg, nil))
	assert.Equal(t, 8080, cfg.Port)
}

func TestApplyFlags_RejectsOutOfRangePort(t *testing.T) {
	for _, port := range []string{"0", "70000", "-1"} {
		t.Run(port, func(t *testing.T) {
			err := applyFlags(baseConfig(), []string{"-port=" + port})
			assert.ErrorContains(t, err, "PORT out of range")
		})
	}
}
