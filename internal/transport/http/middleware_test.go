package httptransport_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	httptransport "adventure-service/internal/transport/http"
)

func TestRequestLogger_ResponseControllerReachesWriter(t *testing.T) {
	var flushErr error
	h := httptransport.RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		flushErr = http.NewResponseController(w).Flush()
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stories/jobs/x", nil))

	if flushErr != nil {
		t.Fatalf("expected flush through the logger, got %v", flushErr)
	}
	if !rr.Flushed {
		t.Fatal("expected the recorder to be flushed")
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
}

func TestRequestLogger_SkipsProbes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := httptransport.RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, path := range []string{"/health", "/metrics", "/api/stories/jobs/x"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Fatalf("expected warn for 404, got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusNotFound) {
		t.Fatalf("expected status 404 in log, got %v", got)
	}
}
