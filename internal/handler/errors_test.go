package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
)

func serveError(t *testing.T, exposeInternal bool, method string, err error) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/products/1", nil), rec)
	c.Set("logger", zap.New(core))
	NewErrorHandler(exposeInternal)(err, c)
	return rec, logs
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		typ    string
		msg    string
	}{
		{apperror.Validation("Validation failed: price is required"), 400, "ValidationError", "Validation failed: price is required"},
		{apperror.Authentication("Unauthorized", nil), 401, "AuthenticationError", "Unauthorized"},
		{apperror.Authorization("Unauthorized."), 401, "AuthorizationError", "Unauthorized."},
		{apperror.NotFound("Product not found"), 404, "NotFoundError", "Product not found"},
		{apperror.Conflict("ONE review per person"), 400, "ConflictError", "ONE review per person"},
		{echo.ErrNotFound, 404, "NotFoundError", "Not Found"},
		{echo.ErrMethodNotAllowed, 405, "HTTPError", "Method Not Allowed"},
		{echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, retry in 6s"), 429, "HTTPError", "Too many requests, retry in 6s"},
	}
	for _, tc := range cases {
		rec, logs := serveError(t, false, http.MethodGet, tc.err)
		if rec.Code != tc.status {
			t.Errorf("%v: status %d, want %d", tc.err, rec.Code, tc.status)
			continue
		}
		body := decodeError(t, rec)
		if body.Error.Type != tc.typ || body.Error.Status != tc.status || body.Error.Message != tc.msg || body.Message != tc.msg {
			t.Errorf("%v: body %+v", tc.err, body)
		}
		if logs.Len() != 0 {
			t.Errorf("%v: client errors must not be logged as unhandled", tc.err)
		}
	}
}

func TestErrorHandlerHidesInternalCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:3306: connection refused")

	rec, logs := serveError(t, false, http.MethodGet, apperror.Internal(cause))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error.Type != "UnhandledError" || body.Message != "Internal Server Error" {
		t.Fatalf("body = %+v", body)
	}
	if logs.FilterMessage("unhandled error").Len() != 1 {
		t.Fatalf("expected the cause to be logged, got %v", logs.All())
	}

	// a plain error is treated the same way
	rec, _ = serveError(t, false, http.MethodGet, cause)
	if decodeError(t, rec).Message != "Internal Server Error" {
		t.Fatal("raw errors must not leak")
	}
}

func TestErrorHandlerExposesCauseInTestMode(t *testing.T) {
	cause := errors.New("boom")
	rec, _ := serveError(t, true, http.MethodGet, apperror.Internal(cause))
	if got := decodeError(t, rec).Message; got != apperror.Internal(cause).Error() {
		t.Fatalf("message = %q", got)
	}
}

func TestErrorHandlerHead(t *testing.T) {
	rec, _ := serveError(t, false, http.MethodHead, apperror.NotFound("Product not found"))
	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("HEAD: status %d body %q", rec.Code, rec.Body.String())
	}
}
