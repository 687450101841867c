package logger

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = prev })

	return logs
}

func TestRequestLogger(t *testing.T) {
	logs := observe(t)

	handler := RequestLogger(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	require.Equal(t, http.StatusTeapot, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("got incoming HTTP request").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(len("short and stout")), fields["size"])
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), fields["request_id"])
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	logs := observe(t)

	handler := RequestLogger(func(w http.ResponseWriter, r *http.Request) {})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(http.StatusOK), logs.All()[0].ContextMap()["status"])
}

func TestInitialize(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.Error(t, Initialize("loud", ""))

	file := filepath.Join(t.TempDir(), "skill.log")
	require.NoError(t, Initialize("info", file))
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))

	Log.Info("hello")
	assert.NoError(t, Sync())
	assert.FileExists(t, file)
}
