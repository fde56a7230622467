package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"sentiment-webapi/internal/bootstrap"
	"sentiment-webapi/internal/config"
	"sentiment-webapi/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	dir := filepath.Join("..", "sentiment", "testdata")
	return &config.Config{
		AppEnv:           "local",
		AppName:          "sentiment-webapi-test",
		BodyLimitMB:      1,
		LogLevel:         "debug",
		CORSAllowOrigins: "*",
		CORSAllowMethods: "GET,POST,HEAD",
		CORSAllowHeaders: "Origin,Content-Type,Accept,X-Requested-With",
		RequestLogPath:   filepath.Join(t.TempDir(), "requests.json"),
		VectorizerPath:   filepath.Join(dir, "vectorizer.json"),
		LRModelPath:      filepath.Join(dir, "logistic-regression-model.json"),
		NBModelPath:      filepath.Join(dir, "naive-bayes-model.json"),
		SVMModelPath:     filepath.Join(dir, "svm-model.json"),
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig(t)
	logger := zap.NewNop()
	components, err := bootstrap.InitializeAppComponents(cfg, logger, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, components.LogPruner)
	return NewServer(cfg, logger, logger, components, false)
}

func TestServerHealthAndRequestID(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "upstream-id")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "upstream-id", resp.Header.Get(middleware.RequestIDHeader))
}

func TestServerUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out["error"], "Cannot GET /nope")
}

func TestServerRendersHome(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestInitializeAppComponentsFailsOnMissingModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.SVMModelPath = filepath.Join(t.TempDir(), "missing.json")
	_, err := bootstrap.InitializeAppComponents(cfg, zap.NewNop(), nil, nil)
	assert.ErrorContains(t, err, "failed to load sentiment models")
}
