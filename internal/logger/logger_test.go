//go:build !integration

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

// capture points the global logger at a buffer for the duration of a test.
func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWithWriter(&buf, level, false)
	t.Cleanup(func() { Init("info", false) })
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestInitWithWriter(t *testing.T) {
	buf := capture(t, "warn")

	l := Logger()
	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len(), "info is below warn")

	l.Warn().Msg("Price table unavailable")
	line := decodeLine(t, buf)
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, ServiceName, line["service"])
	assert.Equal(t, "Price table unavailable", line["message"])
	assert.Contains(t, line, "time")
}

func TestInitWithWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", true)
	t.Cleanup(func() { Init("info", false) })

	l := Logger()
	l.Info().Msg("Server starting")
	assert.Contains(t, buf.String(), "Server starting")
	assert.False(t, json.Valid(buf.Bytes()), "console output is not JSON")
}

func TestForSession(t *testing.T) {
	buf := capture(t, "debug")

	log := ForSession("sess-7f3a")
	log.Debug().Msg("Session started")

	line := decodeLine(t, buf)
	assert.Equal(t, "sess-7f3a", line["session_id"])
}

func TestWithContext(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{name: "no fields", fields: map[string]interface{}{}},
		{name: "order fields", fields: map[string]interface{}{"order_number": "PRN-1", "page_count": float64(12), "paid": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, "info")

			log := WithContext(tt.fields)
			log.Info().Msg("event")

			line := decodeLine(t, buf)
			for k, v := range tt.fields {
				assert.Equal(t, v, line[k])
			}
		})
	}
}
