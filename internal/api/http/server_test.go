package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pardismasoud-hue/pishgam/internal/observability"
	apperrors "github.com/pardismasoud-hue/pishgam/pkg/errorutil"
)

func decodeError(t *testing.T, app *fiber.App, method, path string) (int, errorBody, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out.Error, resp.Header.Get(fiber.HeaderXRequestID)
}

func TestServerRendersErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := observability.NewMetrics()
	app := NewServer(ServerConfig{AppName: "test", Logger: zap.New(core), Metrics: metrics, RequestTimeout: time.Second})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("nil map write")
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return errors.New("connection reset")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"ticket_id": "t-1"})
	})

	t.Run("panic becomes internal error", func(t *testing.T) {
		status, body, rid := decodeError(t, app, fiber.MethodGet, "/boom")
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, apperrors.CodeInternal, body.Code)
		assert.NotEmpty(t, rid)
		assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	})

	t.Run("plain error hides its cause", func(t *testing.T) {
		status, body, _ := decodeError(t, app, fiber.MethodGet, "/broken")
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.NotContains(t, body.Message, "connection reset")

		failed := logs.FilterMessage("request failed").FilterField(zap.String("path", "/broken"))
		require.NotZero(t, failed.Len())
		assert.Equal(t, zapcore.ErrorLevel, failed.All()[0].Level)
	})

	t.Run("domain error keeps details", func(t *testing.T) {
		status, body, _ := decodeError(t, app, fiber.MethodGet, "/conflict")
		assert.Equal(t, fiber.StatusConflict, status)
		assert.Equal(t, apperrors.CodeConflict, body.Code)
		assert.Equal(t, "t-1", body.Details["ticket_id"])
		assert.Equal(t, int64(1), metrics.Snapshot().Errors["/conflict|GET|CONFLICT"])
	})

	t.Run("unknown route", func(t *testing.T) {
		status, body, _ := decodeError(t, app, fiber.MethodGet, "/nowhere")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, apperrors.CodeNotFound, body.Code)
	})

	handled := logs.FilterMessage("request handled").FilterField(zap.Int("status", fiber.StatusConflict))
	assert.Equal(t, 1, handled.Len())
}
