// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type stubResolver struct {
	claims *sec.AuthClaims
}

func (s stubResolver) ResolveToken(_ context.Context, token string) (*sec.AuthClaims, error) {
	switch token {
	case "good":
		return s.claims, nil
	case "orphaned":
		return nil, apperr.Unauthorized("Account no longer exists")
	case "store_down":
		return nil, apperr.Internal(errors.New("connection refused"))
	}
	return nil, errors.New("bad token")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate covers anonymous, valid, malformed and rejected tokens and resolver failures.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u-1", Username: "critic", Role: sec.RoleUser}

	var seen *sec.AuthClaims
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
	})
	handler := middleware.Authenticate(stubResolver{claims: claims})(inner)

	tests := []struct {
		name   string
		header string
		status int
		claims *sec.AuthClaims
	}{
		{"anonymous", "", http.StatusOK, nil},
		{"valid", "Bearer good", http.StatusOK, claims},
		{"lowercase_scheme", "bearer good", http.StatusOK, claims},
		{"wrong_scheme", "Basic good", http.StatusUnauthorized, nil},
		{"missing_token", "Bearer", http.StatusUnauthorized, nil},
		{"invalid_token", "Bearer forged", http.StatusUnauthorized, nil},
		{"deleted_account", "Bearer orphaned", http.StatusUnauthorized, nil},
		{"store_failure", "Bearer store_down", http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			recorder := serve(handler, request)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.claims, seen)
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(okHandler())

	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(handler, anonymous).Code)

	moderator := anonymous.WithContext(ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "m", Role: sec.RoleModerator}))
	assert.Equal(t, http.StatusForbidden, serve(handler, moderator).Code)

	admin := anonymous.WithContext(ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "a", Role: sec.RoleAdmin}))
	assert.Equal(t, http.StatusOK, serve(handler, admin).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(middleware.RequireAuth(okHandler()), anonymous).Code)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(okHandler())

	request := httptest.NewRequest(http.MethodPost, "/auth/signup", nil)
	request.RemoteAddr = "203.0.113.7:4000"

	assert.Equal(t, http.StatusOK, serve(handler, request).Code)
	assert.Equal(t, http.StatusOK, serve(handler, request).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, request).Code)

	other := httptest.NewRequest(http.MethodPost, "/auth/signup", nil)
	other.RemoteAddr = "198.51.100.1:4000"
	assert.Equal(t, http.StatusOK, serve(handler, other).Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-supplied")
	serve(handler, request)
	assert.Equal(t, "client-supplied", seen)
}

/*
TestStructuredLogger_RecordsUser checks the final log line carries the authenticated user.
*/
func TestStructuredLogger_RecordsUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	claims := &sec.AuthClaims{UserID: "u-42", Role: sec.RoleUser}
	handler := middleware.StructuredLogger(logger)(middleware.Authenticate(stubResolver{claims: claims})(okHandler()))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/titles", nil)
	request.Header.Set("Authorization", "Bearer good")
	serve(handler, request)

	assert.Contains(t, buf.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, buf.String(), `"user_id":"u-42"`)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{origins: []string{"https://yamdb.app"}})(okHandler())

	allowed := httptest.NewRequest(http.MethodOptions, "/", nil)
	allowed.Header.Set("Origin", "https://yamdb.app")
	recorder := serve(handler, allowed)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://yamdb.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "https://evil.example")
	recorder = serve(handler, denied)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
