package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveypulse/internal/config"
)

func testApp(t *testing.T) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.ExecutableDir = t.TempDir()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := NewWithConfig(cfg, logger)
	require.NoError(t, err)
	return app
}

func TestNewWithConfig(t *testing.T) {
	app := testApp(t)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Survey)
	assert.NotNil(t, app.Dashboard)
	assert.NotNil(t, app.Health)

	// Data and logs directories are created under the executable dir
	_, err := os.Stat(app.Config.Paths.DataDir)
	assert.NoError(t, err)
	_, err = os.Stat(app.Config.Paths.LogsDir)
	assert.NoError(t, err)
}

func TestRouter_CoreRoutes(t *testing.T) {
	app := testApp(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"records", http.MethodGet, "/api/records", http.StatusOK},
		{"dashboard", http.MethodPost, "/api/dashboard", http.StatusOK},
		{"export csv", http.MethodGet, "/api/export/records.csv", http.StatusOK},
		{"export json", http.MethodGet, "/api/export/dataset.json", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	app := testApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_BodySizeLimit(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = 11 << 20

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRouter_RejectsMalformedJSON(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", strings.NewReader("{bad"))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_JSON")
}

func TestRouter_SnapshotRestoredOnStartup(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths.ExecutableDir = dir
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := NewWithConfig(cfg, logger)
	require.NoError(t, err)

	// Seed a snapshot through the first instance
	require.NoError(t, first.Survey.Clear(context.Background()))
	snapshotPath := first.Config.SnapshotPath()
	require.NoError(t, os.WriteFile(snapshotPath,
		[]byte(`{"savedAt":"2025-08-15T10:00:00Z","total":1,"records":[{"id":"sub-1","turma":"Turma A","submittedAt":"2025-08-02T14:30:00Z"}]}`), 0644))

	cfg2 := config.Default()
	cfg2.Paths.ExecutableDir = dir
	second, err := NewWithConfig(cfg2, logger)
	require.NoError(t, err)

	assert.Equal(t, 1, second.Survey.Count())
	assert.Equal(t, filepath.Join(second.Config.Paths.DataDir, "records.json"), snapshotPath)
}

func TestRun_GracefulShutdown(t *testing.T) {
	app := testApp(t)
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	// Give the listener a moment, then trigger shutdown
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
