/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLoggerIsLogLevel(t *testing.T) {
	logger := NewConsoleLogger(LogLevelInfo)
	assert.True(t, logger.IsLogLevel(LogLevelError))
	assert.True(t, logger.IsLogLevel(LogLevelInfo))
	assert.False(t, logger.IsLogLevel(LogLevelDebug))
}

func TestConsoleLoggerWritesAboveConfiguredLevel(t *testing.T) {
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	original := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = original }()

	logger := NewConsoleLogger(LogLevelWarning)
	logger.Error("disk %s", "full")
	logger.Debug("should not appear")

	w.Close()
	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	out := string(buf[:n])

	assert.Contains(t, out, "[ERROR] disk full")
	assert.NotContains(t, out, "should not appear")
}

func TestDummyLoggerIsAlwaysLoggable(t *testing.T) {
	var logger Logger = DummyLogger{}
	assert.True(t, logger.IsLogLevel(LogLevelTrace))
	logger.Error("noop")
}

func TestSetLoggerReplacesPackageLevelLogger(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	custom := NewConsoleLogger(LogLevelError)
	SetLogger(custom)
	assert.Equal(t, Logger(custom), Log)
}
