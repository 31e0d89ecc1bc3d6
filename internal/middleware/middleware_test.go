package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/projecttracker/pkg/auth"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, ok := GetUserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	json.NewEncoder(w).Encode(map[string]int64{"user_id": id})
}

func TestAuthenticator(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(7, "Ada")
	require.NoError(t, err)

	handler := NewAuthenticator(tm, "/login").Middleware(http.HandlerFunc(echoUser))

	tests := []struct {
		name         string
		setup        func(r *http.Request)
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "bearer token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "session cookie",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "json client without session",
			setup:      func(r *http.Request) { r.Header.Set("Accept", "application/json") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:         "browser without session",
			setup:        func(r *http.Request) { r.Header.Set("Accept", "text/html") },
			wantStatus:   http.StatusFound,
			wantLocation: "/login",
		},
		{
			name: "bad token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer nope")
				r.Header.Set("Accept", "application/json")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Token "+token)
				r.Header.Set("Accept", "application/json")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/projects", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{accept: "application/json", want: true},
		{accept: "application/json, text/plain, */*", want: true},
		{accept: "application/vnd.api+json", want: true},
		{accept: "text/html,application/xhtml+xml,application/json;q=0.9", want: false},
		{accept: "*/*", want: false},
		{accept: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", tt.accept)
			assert.Equal(t, tt.want, WantsJSON(req))
		})
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer

	var seen string
	handler := RequestID(ClientInfo(AccessLog(logger.New(&buf, "info", "json"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
		assert.Equal(t, "10.0.0.1", GetIPAddressFromContext(r.Context()))
		assert.Equal(t, "curl/8.5.0", GetUserAgentFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))))

	t.Run("generated id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		req.Header.Set("User-Agent", "curl/8.5.0")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		id := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, seen)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "request", line["msg"])
		assert.Equal(t, float64(http.StatusNoContent), line["status"])
		assert.Equal(t, id, line["request_id"])
	})

	t.Run("propagated id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		req.Header.Set("X-Real-IP", "10.0.0.1")
		req.Header.Set("User-Agent", "curl/8.5.0")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", seen)
	})
}

func TestRecover(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Server Error"}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/projects/1", "/projects/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/projects/{id}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	n, err := testutil.GatherAndCount(reg, "projecttracker_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
