package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestMiddlewareLimitsPerClient(t *testing.T) {
	l := New(rate.Every(time.Hour), 2)
	h := Middleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/rounds/current", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/rounds/current", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAllowPrunesIdleClients(t *testing.T) {
	l := New(rate.Inf, 1)
	start := time.Now()
	l.now = func() time.Time { return start }

	for i := 0; i <= pruneThreshold; i++ {
		l.Allow(fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, pruneThreshold+1, l.Size())

	l.now = func() time.Time { return start.Add(maxIdle + time.Minute) }
	l.Allow("fresh")
	assert.Equal(t, 1, l.Size())
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://club.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://club.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://club.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://other.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
