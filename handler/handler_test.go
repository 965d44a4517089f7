package handler_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/binder"
	"github.com/dmitrymomot/subscriptions/handler"
	"github.com/dmitrymomot/subscriptions/pkg/logger"
)

type greetRequest struct {
	Name string `json:"name"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, req greetRequest) handler.Response {
		switch req.Name {
		case "":
			return handler.Error(handler.NewHTTPError(http.StatusBadRequest, "name is required", nil))
		case "boom":
			return handler.Error(errors.New("database exploded"))
		case "nil":
			return nil
		}
		return handler.JSON(map[string]string{"greeting": "hello " + req.Name})
	}, handler.WithBinders[greetRequest](binder.JSON(1024)), handler.WithErrorHandler[greetRequest](handler.JSONErrorHandler(nil, nil)))

	tests := []struct {
		name     string
		body     string
		status   int
		wantBody string
	}{
		{name: "ok", body: `{"name":"bob"}`, status: http.StatusOK, wantBody: `{"greeting":"hello bob"}`},
		{name: "handler client error", body: `{}`, status: http.StatusBadRequest, wantBody: `{"error":"name is required"}`},
		{name: "internal error hides details", body: `{"name":"boom"}`, status: http.StatusInternalServerError, wantBody: `{"error":"Internal Server Error"}`},
		{name: "nil response", body: `{"name":"nil"}`, status: http.StatusInternalServerError, wantBody: `{"error":"Internal Server Error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h(rec, r)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}

	t.Run("bind error is 400", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, r)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid JSON")
	})
}

func TestTextErrorHandler(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.Error(handler.NewHTTPError(http.StatusConflict, "taken", nil))
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "taken\n", rec.Body.String())
}

func TestText(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Text(http.StatusTeapot, "short and stout").Render(rec, nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestJSONErrorHandler_Logs(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	classify := func(err error) (int, string) { return http.StatusNotFound, "missing" }
	eh := handler.JSONErrorHandler(logger.New(logger.WithOutput(buf)), classify)

	rec := httptest.NewRecorder()
	eh(handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/things/1", nil)), errors.New("no row"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"missing"}`, rec.Body.String())
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"path":"/things/1"`)
	assert.Contains(t, buf.String(), "no row")
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := handler.BadRequest(inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "inner", err.Message)
	assert.Equal(t, "missing", handler.NewHTTPError(404, "missing", nil).Error())
}

func TestJSON_EncodeFailure(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.JSONWithStatus(http.StatusCreated, map[string]any{"ch": make(chan int)})
	}, handler.WithErrorHandler[struct{}](handler.JSONErrorHandler(nil, nil)))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}
