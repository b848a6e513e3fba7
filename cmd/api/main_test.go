package main

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

	"github.com/streamline-io/streamline/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, dbPath string) string {
	t.Helper()
	configPath := filepath.Join(dir, "app.yml")
	content := []byte(`
port: 8080
jwtSecret: test-secret
tmdb:
  apiKey: test-key
database:
  type: sqlite
  path: ` + dbPath + `
`)
	require.NoError(t, os.WriteFile(configPath, content, 0644))
	return configPath
}

func TestInitializeAPI(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, filepath.Join(dir, "data", "test.db"))

	cfg, err := loadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api, cleanup, err := initializeAPI(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, api)
	assert.Equal(t, 8080, api.Config.Port)
}

func TestSessionLifetimeIsFixed(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, filepath.Join(dir, "data", "test.db"))
	f, err := os.OpenFile(configPath, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("sessionTTL: 1h\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := loadConfig(configPath)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api, cleanup, err := initializeAPI(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer cleanup()

	body := strings.NewReader(`{"email":"a@b.com","password":"secret1","username":"alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt-netflix", cookies[0].Name)
	assert.Equal(t, int((15 * 24 * time.Hour).Seconds()), cookies[0].MaxAge)
}

func TestLoadConfigFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, filepath.Join(dir, "test.db"))
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := loadConfig("ignored.yml")
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadConfigErrors(t *testing.T) {
	originalLoad := configLoad
	defer func() { configLoad = originalLoad }()

	configLoad = func(string) (*config.Config, error) {
		return nil, assert.AnError
	}
	_, err := loadConfig("app.yml")
	assert.ErrorIs(t, err, assert.AnError)

	configLoad = func(string) (*config.Config, error) {
		return &config.Config{Port: 8080}, nil
	}
	_, err = loadConfig("app.yml")
	assert.ErrorContains(t, err, "jwtSecret is required")
}

func TestSyncAvatarsRequiresBucket(t *testing.T) {
	err := syncAvatars(context.Background(), &config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
