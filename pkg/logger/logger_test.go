package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Options{Output: buf, Level: level, Format: "json"}), buf
}

func TestLogger_WritesStructuredJSON(t *testing.T) {
	log, buf := newBufferLogger(LevelInfo)

	log.With(Component("lease_manager")).Info("lease opened",
		LeaseID("l-1"),
		HousingID("h-1"),
		Err(errors.New("boom")),
	)
	log.Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "lease opened", entry["message"])
	assert.Equal(t, "lease_manager", entry["component"])
	assert.Equal(t, "l-1", entry["lease_id"])
	assert.Equal(t, "h-1", entry["housing_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogger_RespectsLevel(t *testing.T) {
	log, buf := newBufferLogger(LevelWarn)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")
	log.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestFromContext(t *testing.T) {
	log, buf := newBufferLogger(LevelInfo)
	ctx := WithContext(context.Background(), log.WithRequestID("req-42"))

	FromContext(ctx).Info("handled")
	log.Sync()

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.NotNil(t, FromContext(context.Background()))
}
