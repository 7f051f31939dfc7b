package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", App: "stock-ledger", Out: &buf})

	l.Info().Msg("no sale")
	c := l.Component("movements")
	c.Warn().Str("product_id", "p1").Msg("subzona fuera de capacidad")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "stock-ledger", entry["app"])
	assert.Equal(t, "movements", entry["component"])
	assert.Equal(t, "p1", entry["product_id"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "verbose", Out: &buf})
	l.Debug().Msg("oculto")
	l.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}
