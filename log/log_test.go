// MIT License
//
// Copyright (c) 2026 Kestrel Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestZapWritesAtLevel(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)

	logger.Info("visible message")
	logger.Debug("invisible message")

	output := buffer.String()
	assert.Contains(t, output, "visible message")
	assert.NotContains(t, output, "invisible message")
}

func TestZapFormats(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(DebugLevel, buffer)

	logger.Debugf("answer is %d", 42)
	logger.Warnf("warned %s", "once")
	logger.Errorf("failed %v", "badly")

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "answer is 42")
	assert.Contains(t, lines[1], "warned once")
	assert.Contains(t, lines[2], "failed badly")
}

func TestZapLogLevel(t *testing.T) {
	buffer := new(bytes.Buffer)
	assert.Equal(t, WarningLevel, NewZap(WarningLevel, buffer).LogLevel())
	assert.Equal(t, DebugLevel, NewZap(DebugLevel, buffer).LogLevel())
}

func TestZapOutputs(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := NewZap(InfoLevel, buffer)
	require.Len(t, logger.LogOutput(), 1)
	assert.NotNil(t, logger.StdLogger())
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger.Info("dropped")
	DiscardLogger.Errorf("dropped %d", 1)
	assert.Equal(t, InfoLevel, DiscardLogger.LogLevel())
	assert.NotNil(t, DiscardLogger.StdLogger())
	assert.Panics(t, func() {
		DiscardLogger.Panic("expected")
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "PANIC", PanicLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "", InvalidLevel.String())
}
