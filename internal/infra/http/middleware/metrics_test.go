package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/leads/{id}", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leads/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/leads/def", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/leads/{id}", "404"))

	assert.Equal(t, 2.0, after-before)
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(leadEventsPublished.WithLabelValues("lead.created", "error"))
	RecordEventPublish("lead.created", assert.AnError)
	assert.Equal(t, before+1, testutil.ToFloat64(leadEventsPublished.WithLabelValues("lead.created", "error")))

	before = testutil.ToFloat64(leadMutations.WithLabelValues("create"))
	RecordLeadMutation("create")
	assert.Equal(t, before+1, testutil.ToFloat64(leadMutations.WithLabelValues("create")))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/leads/x", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "DELETE", fields["method"])
		assert.Equal(t, int64(500), fields["status"])
	}
}
