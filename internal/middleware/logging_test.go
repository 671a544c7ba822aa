package middleware

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogger(t *testing.T) {
	t.Cleanup(func() { ConfigureLogger(os.Stdout, false) })

	var buf bytes.Buffer
	ConfigureLogger(&buf, true)
	Logger.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])

	buf.Reset()
	ConfigureLogger(&buf, false)
	Logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
