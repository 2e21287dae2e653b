package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesServiceField(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	log := New(Options{ServiceName: "api", Level: "debug", Output: &buf})
	log.Info().Str("cart_id", "c1").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "c1", entry["cart_id"])
	assert.Equal(t, "hello", entry["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
}

func TestDebugSwitch(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	log := New(Options{ServiceName: "api", Level: "info", Output: &buf})
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	toggle := DebugSwitch(ParseLevel("info"))
	toggle(true)
	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	toggle(false)
	log.Debug().Msg("hidden again")
	assert.Zero(t, buf.Len())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
