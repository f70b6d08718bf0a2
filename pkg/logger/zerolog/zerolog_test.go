package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raykavin/trendline/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", JSON: true, Output: &buf})
	require.NoError(t, err)

	log.WithField("chart", "awareness").WithError(errors.New("boom")).Warnf("coerced %d values", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "coerced 3 values", line["message"])
	require.Equal(t, "awareness", line["chart"])
	require.Equal(t, "boom", line["error"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestAdapter_Level(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", JSON: true, Output: &buf})
	require.NoError(t, err)
	require.Equal(t, logger.InfoLevel, log.GetLevel())

	log.Debug("hidden")
	require.Zero(t, buf.Len())

	log.SetLevel(logger.DebugLevel)
	require.Equal(t, logger.DebugLevel, log.GetLevel())
	log.Debug("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	require.NotPanics(t, func() {
		log.Info("nothing")
		log.WithFields(map[string]any{"a": 1}).Error("still nothing")
	})
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, logger.InfoLevel, logger.ParseLevel(""))
	require.Equal(t, logger.WarnLevel, logger.ParseLevel("Warning"))
	require.Equal(t, logger.Disabled, logger.ParseLevel("off"))
	require.Equal(t, logger.NoLevel, logger.ParseLevel("nope"))
}
