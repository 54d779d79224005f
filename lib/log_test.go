package lib

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		level  int32
	}{
		{
			name:   "info",
			prefix: "INFO: ",
			level:  InfoLevel,
		},
		{
			name:   "debug",
			prefix: "DEBUG: ",
			level:  DebugLevel,
		},
		{
			name:   "warn",
			prefix: "WARN: ",
			level:  WarnLevel,
		},
		{
			name:   "error",
			prefix: "ERROR: ",
			level:  ErrorLevel,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			logger := NewLogger(LoggerConfig{
				Level: DebugLevel,
				Out:   buf,
			})
			switch test.level {
			case InfoLevel:
				logger.Infof("arg1 %s", "arg2")
			case DebugLevel:
				logger.Debugf("arg1 %s", "arg2")
			case ErrorLevel:
				logger.Errorf("arg1 %s", "arg2")
			case WarnLevel:
				logger.Warnf("arg1 %s", "arg2")
			}
			require.Contains(t, buf.String(), test.prefix+"arg1 arg2")
		})
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(LoggerConfig{Level: WarnLevel, Out: buf})
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown warn")
	logger.Error("shown error")
	got := buf.String()
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "shown warn")
	require.Contains(t, got, "shown error")
	require.Equal(t, 2, strings.Count(got, "\n"))
}

func TestLoggerWith(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(LoggerConfig{Level: DebugLevel, Out: buf})
	logger.With("fsm").Info("swap applied")
	require.Contains(t, buf.String(), "INFO: [fsm] swap applied")
}

func TestLoggerMultiline(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(LoggerConfig{Level: DebugLevel, Out: buf})
	logger.Error(ErrInvalidArgument().Error())
	got := buf.String()
	require.Contains(t, got, "Module:  main")
	require.Contains(t, got, "Message: the argument is invalid")
}

func TestNewDefaultLogger(t *testing.T) {
	// pre-define expected
	expected := NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   os.Stdout,
	})
	// execute the function call
	got := NewDefaultLogger()
	// compare got vs expected
	require.Equal(t, expected, got)
}

func TestNewNullLogger(t *testing.T) {
	// pre-define expected
	expected := NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   io.Discard,
	})
	// execute the function call
	got := NewNullLogger()
	// compare got vs expected
	require.Equal(t, expected, got)
}

func TestNewLoggerRotatingFile(t *testing.T) {
	dataDir := t.TempDir()
	logger := NewLogger(LoggerConfig{Level: InfoLevel}, dataDir)
	logger.Info("written to disk")
	bz, err := os.ReadFile(filepath.Join(dataDir, LogDirectory, LogFileName))
	require.NoError(t, err)
	require.Contains(t, string(bz), "written to disk")
}
