package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("loud")
	assert.Error(t, err)
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.log")

	l, err := NewLogger("info", path)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("item added", zap.String("product", "Pen"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"item added"`)
	assert.Contains(t, string(data), `"product":"Pen"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestZeroLoggerIsNoop(t *testing.T) {
	var l Logger
	assert.NotPanics(t, func() {
		l.Info("nothing")
		l.Error("nothing")
	})
}

func TestWithAddsFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.log")

	l, err := NewLogger("info", path)
	require.NoError(t, err)

	l.With(zap.String("component", "console")).Info("menu")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"console"`)
}
