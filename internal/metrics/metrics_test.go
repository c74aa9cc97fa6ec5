package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"gdaSwap/internal/model"
)

func TestPutOutcomeCounts(t *testing.T) {
	m := NewMetrics("test")

	for _, status := range []string{"pending", "accepted", "pending", "failed"} {
		if err := m.PutOutcome(context.Background(), model.OutcomeRecord{Operation: model.OperationSwap, Status: status}); err != nil {
			t.Fatalf("put outcome: %v", err)
		}
	}

	if got := testutil.ToFloat64(m.Outcomes.WithLabelValues("swap", "pending")); got != 2 {
		t.Fatalf("pending count mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.Outcomes.WithLabelValues("swap", "failed")); got != 1 {
		t.Fatalf("failed count mismatch: %v", got)
	}
}

func TestObserveMembership(t *testing.T) {
	m := NewMetrics("test")
	at := time.Unix(1700000000, 0)

	m.ObserveMembership(model.MembershipState{Connected: true, ObservedAt: at})

	if got := testutil.ToFloat64(m.MemberConnected); got != 1 {
		t.Fatalf("connected gauge mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.LastObservation); got != 1700000000 {
		t.Fatalf("timestamp gauge mismatch: %v", got)
	}
	if got := testutil.ToFloat64(m.MembershipPolls); got != 1 {
		t.Fatalf("observation count mismatch: %v", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	m := NewMetrics("test")
	m.ObserveMembership(model.MembershipState{})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "test_membership_connected 0") {
		t.Fatalf("metrics output missing gauge:\n%s", rec.Body.String())
	}
}
