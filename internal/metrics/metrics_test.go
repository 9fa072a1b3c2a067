package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		fallback bool
		outcome  string
	}{
		{"ranked rules", "rules", false, "ranked"},
		{"fallback similarity", "similarity", true, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(tt.strategy, tt.outcome))
			RecordRecommendation(tt.strategy, tt.fallback, 5*time.Millisecond)
			after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(tt.strategy, tt.outcome))
			if after != before+1 {
				t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
			}
		})
	}
}

func TestRecordExternalCall(t *testing.T) {
	before := testutil.ToFloat64(ExternalCallsTotal.WithLabelValues(CapabilityMatch, ResultTimeout))
	RecordExternalCall(CapabilityMatch, ResultTimeout, time.Second)
	if got := testutil.ToFloat64(ExternalCallsTotal.WithLabelValues(CapabilityMatch, ResultTimeout)); got != before+1 {
		t.Errorf("got %v, want %v", got, before+1)
	}
}

func TestRecordInsightCache(t *testing.T) {
	hits := testutil.ToFloat64(InsightCacheHits)
	misses := testutil.ToFloat64(InsightCacheMisses)
	RecordInsightCache(true)
	RecordInsightCache(false)
	RecordInsightCache(false)
	if testutil.ToFloat64(InsightCacheHits) != hits+1 {
		t.Error("hit not recorded")
	}
	if testutil.ToFloat64(InsightCacheMisses) != misses+2 {
		t.Error("misses not recorded")
	}
}

func TestRecordSessionOperation(t *testing.T) {
	before := testutil.ToFloat64(SessionOperations.WithLabelValues("memory", "save", ResultError))
	RecordSessionOperation("memory", "save", errors.New("boom"))
	RecordSessionOperation("memory", "save", nil)
	if got := testutil.ToFloat64(SessionOperations.WithLabelValues("memory", "save", ResultError)); got != before+1 {
		t.Errorf("error count: got %v, want %v", got, before+1)
	}
}

func TestHandler(t *testing.T) {
	RecordAPIRequest("GET", "/health", 200, time.Millisecond)
	SetCircuitBreakerState("llm", 2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"hairmatch_api_requests_total", "hairmatch_circuit_breaker_state"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in output", name)
		}
	}
}
