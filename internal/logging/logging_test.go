package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatConsole, ParseFormat("Text"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatAuto, ParseFormat(""))
	assert.Equal(t, FormatAuto, ParseFormat("xml"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

// TestEncoding_Auto verifies auto picks console only on a terminal
func TestEncoding_Auto(t *testing.T) {
	assert.Equal(t, "console", Encoding(FormatAuto, true))
	assert.Equal(t, "json", Encoding(FormatAuto, false))
	assert.Equal(t, "json", Encoding(FormatJSON, true))
	assert.Equal(t, "console", Encoding(FormatConsole, false))
}

func TestIsTTY_Buffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestConfig_WritesToStderr(t *testing.T) {
	c := Config(FormatJSON, zapcore.WarnLevel)

	assert.Equal(t, []string{"stderr"}, c.OutputPaths)
	assert.Equal(t, "time", c.EncoderConfig.TimeKey)
	assert.Equal(t, zapcore.WarnLevel, c.Level.Level())
	assert.Equal(t, "json", c.Encoding)
}

func TestNew(t *testing.T) {
	logger := New("json", "error")
	assert.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
