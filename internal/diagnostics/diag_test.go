package diagnostics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowFailed_JSON(t *testing.T) {
	d := ShowFailed(errors.New("spi: busy"), 3)
	b, err := json.Marshal(d)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "error", got["severity"])
	assert.Equal(t, CodeShowFailed, got["code"])
	assert.Equal(t, "spi: busy", got["detail"])
	assert.Equal(t, float64(3), got["evidence"].(map[string]any)["failures"])
}

func TestOmitEmpty(t *testing.T) {
	b, err := json.Marshal(CommandUnknown("explode"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "detail")
	assert.NotContains(t, string(b), "likely_causes")
	assert.Contains(t, string(b), `"op":"explode"`)
}

func TestString(t *testing.T) {
	assert.Equal(t, "warning COMMAND.UNKNOWN: Unknown control command", CommandUnknown("x").String())
	assert.Equal(t, "info EFFECT.STARTED: Effect started (rainbow)", EffectStarted("rainbow", "").String())
}
