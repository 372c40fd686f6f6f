package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_JSON(t *testing.T) {
	var buf bytes.Buffer
	Initialize("debug", "json", &buf)

	WithService("rental").Debug("rent started", "scooter_id", "1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rent started", line["msg"])
	assert.Equal(t, "rental", line["service"])
	assert.Equal(t, "1", line["scooter_id"])
}

func TestInitialize_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Initialize("warn", "text", &buf)

	Get().Info("hidden")
	Get().Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscard(t *testing.T) {
	Discard()
	assert.NotPanics(t, func() { Get().Error("nowhere") })
}
