package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug("hidden")
	log.Info("payment recorded", "pf_payment_id", "PF1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payment recorded", entry["msg"])
	assert.Equal(t, "PF1", entry["pf_payment_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevelopmentWritesTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debug("claim skipped", "reason", "sandbox")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "reason=sandbox")
}
