package common

import (
	"bytes"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLogger(&out, &errOut, DEBUG)

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warningf("warning %d", 3)
	logger.Errorf("error %d", 4)

	assert.Contains(t, out.String(), "DEBUG: debug 1")
	assert.Contains(t, out.String(), "INFO: info 2")
	assert.NotContains(t, out.String(), "warning 3")
	assert.NotContains(t, out.String(), "error 4")

	assert.Contains(t, errOut.String(), "WARNING: warning 3")
	assert.Contains(t, errOut.String(), "ERROR: error 4")
	assert.NotContains(t, errOut.String(), "info 2")
}

func TestDefaultLogLevelFilter(t *testing.T) {
	tests := []struct {
		level    LoggingLevel
		expected []string
		dropped  []string
	}{
		{DEBUG, []string{"d", "i", "w", "e"}, nil},
		{INFO, []string{"i", "w", "e"}, []string{"d"}},
		{WARNING, []string{"w", "e"}, []string{"d", "i"}},
		{ERROR, []string{"e"}, []string{"d", "i", "w"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var out bytes.Buffer
			logger := NewLogger(&out, &out, tt.level)
			logger.Debugf("<%s>", "d")
			logger.Infof("<%s>", "i")
			logger.Warningf("<%s>", "w")
			logger.Errorf("<%s>", "e")

			for _, s := range tt.expected {
				assert.Contains(t, out.String(), "<"+s+">")
			}
			for _, s := range tt.dropped {
				assert.NotContains(t, out.String(), "<"+s+">")
			}
			assert.Equal(t, tt.level, logger.Level())
		})
	}
}

func TestParseLoggingLevel(t *testing.T) {
	tests := map[string]LoggingLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"":        INFO,
		"warn":    WARNING,
		"warning": WARNING,
		" error ": ERROR,
	}
	for name, expected := range tests {
		level, err := ParseLoggingLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, level, name)
	}

	_, err := ParseLoggingLevel("trace")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestLoggingLevelString(t *testing.T) {
	assert.Equal(t, "warning", WARNING.String())
	assert.Equal(t, "LoggingLevel(9)", LoggingLevel(9).String())
}

func TestBindError(t *testing.T) {
	var err error = &BindError{Port: 49152, Op: "bind", Err: syscall.EADDRINUSE}

	assert.Equal(t, "bind: "+syscall.EADDRINUSE.Error(), err.Error())
	assert.True(t, errors.Is(err, syscall.EADDRINUSE))

	var bindErr *BindError
	require.True(t, errors.As(fmt.Errorf("startup: %w", err), &bindErr))
	assert.Equal(t, uint16(49152), bindErr.Port)
}
