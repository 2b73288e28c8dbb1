package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sayso-interpreter/internal/middleware"
	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/rules"
	"sayso-interpreter/internal/service"
	"sayso-interpreter/internal/service/executor"
	"sayso-interpreter/internal/service/formatter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	intents, err := rules.Default()
	require.NoError(t, err)
	interp, err := service.NewInterpreter(intents)
	require.NoError(t, err)

	exec := executor.NewExecutor()
	exec.Register("add_memo", executor.HandlerFunc(func(_ context.Context, act *model.Action, _ *model.MessageRequest) (model.ActionSummary, error) {
		return model.ActionSummary{Note: "saved: " + act.Fields["content"].Text()}, nil
	}))
	exec.Register("delete_todo", executor.HandlerFunc(func(context.Context, *model.Action, *model.MessageRequest) (model.ActionSummary, error) {
		return model.ActionSummary{}, errors.New("store unavailable")
	}))

	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := service.NewMessageService(interp, exec, formatter.New(nil), zap.NewNop(),
		service.WithLocation(time.UTC),
		service.WithClock(func() time.Time { return now }),
	)
	return Router(svc, zap.NewNop(), nil)
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "test-req")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestParseEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/parse", `{"text":"todo: buy milk, due: tomorrow"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RequestID string `json:"request_id"`
		Success   bool   `json:"success"`
		Action    struct {
			Intent string         `json:"intent"`
			Fields map[string]any `json:"fields"`
		} `json:"action"`
		Errors []map[string]any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test-req", body.RequestID)
	assert.True(t, body.Success)
	assert.Equal(t, "add_todo", body.Action.Intent)
	assert.Equal(t, "buy milk", body.Action.Fields["title"])
	assert.Equal(t, "2024-01-16", body.Action.Fields["due"])
	assert.Empty(t, body.Errors)
}

func TestParseEndpointErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		status   int
		contains string
	}{
		{name: "no match is 200", body: `{"text":"asdf123"}`, status: http.StatusOK, contains: `"NO_MATCH"`},
		{name: "missing field is 200", body: `{"text":"todo:"}`, status: http.StatusOK, contains: `"MISSING_REQUIRED_FIELD"`},
		{name: "malformed json", body: `{"text":`, status: http.StatusBadRequest, contains: "invalid request"},
		{name: "missing text", body: `{}`, status: http.StatusBadRequest, contains: "invalid request"},
		{name: "bad now", body: `{"text":"todo: x","now":"later"}`, status: http.StatusBadRequest, contains: "RFC3339"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/parse", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestMessageEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/message", `{"text":"メモ: 牛乳を買う","user_id":"u1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Executed bool   `json:"executed"`
		Reply    string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Executed)
	assert.Equal(t, "saved: 牛乳を買う", resp.Reply)

	w = doJSON(r, http.MethodPost, "/api/v1/message", `{"text":"delete: 3"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "store unavailable")
	assert.Contains(t, w.Body.String(), `"request_id":"test-req"`)
}

func TestIntentsAndHealth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/intents", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Intents []model.IntentInfo `json:"intents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Intents)
	assert.Equal(t, "help", body.Intents[0].Name)

	w = doJSON(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
