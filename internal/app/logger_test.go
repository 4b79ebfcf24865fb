//go:build !integration

package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/print-order-service/config"
)

func TestInitializeLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zerolog.Level
	}{
		{name: "empty level falls back to info", cfg: config.LogConfig{}, level: zerolog.InfoLevel},
		{name: "debug", cfg: config.LogConfig{Level: "debug"}, level: zerolog.DebugLevel},
		{name: "pretty warn", cfg: config.LogConfig{Level: "warn", Pretty: true}, level: zerolog.WarnLevel},
		{name: "error", cfg: config.LogConfig{Level: "error"}, level: zerolog.ErrorLevel},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "loud"}, level: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { InitializeLogger(tt.cfg) })
			assert.Equal(t, tt.level, zerolog.GlobalLevel())
		})
	}
}
