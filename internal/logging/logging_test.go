package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{JSON: true, Output: &buf})

	log.Info().Str("url", "https://example.com").Msg("fetching")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fetching", entry["message"])
	assert.Equal(t, "https://example.com", entry["url"])
	assert.Contains(t, entry, "time")
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantInfo  bool
	}{
		{"default", Options{JSON: true}, false, true},
		{"debug", Options{JSON: true, Debug: true}, true, true},
		{"quiet", Options{JSON: true, Quiet: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = &buf
			log := New(tt.opts)

			log.Debug().Msg("debug line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))

			log.Info().Msg("info line")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))

			log.Error().Msg("error line")
			assert.Contains(t, buf.String(), "error line")
		})
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})

	log.Info().Msg("server started")
	assert.Contains(t, buf.String(), "server started")
	assert.NotContains(t, buf.String(), `"message"`)
}
