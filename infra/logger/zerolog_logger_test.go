package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("scheduler", &buf, "info")
	l.Debugf("hidden")
	l.Infof("placed %s", "A1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "placed A1", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestConfigure(t *testing.T) {
	Configure("warn", "json")
	defer Configure("", "")
	l, ok := NewZerologLogger("cfg").(*ZerologLogger)
	require.True(t, ok)
	assert.Equal(t, "warn", l.log.GetLevel().String())
}
