package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_DomainCounters(t *testing.T) {
	c := NewCollector("clinicdesk")

	c.BillCreated()
	c.BillCreated()
	c.BillNumberFallback()
	c.BillNumberRetry()
	c.PatientCreated()
	c.BillStatusChanged("paid")
	c.OrphanedBillSkipped()

	if got := testutil.ToFloat64(c.BillsCreatedTotal); got != 2 {
		t.Errorf("expected 2 bills created, got %v", got)
	}
	if got := testutil.ToFloat64(c.BillNumberFallbacks); got != 1 {
		t.Errorf("expected 1 fallback, got %v", got)
	}
	if got := testutil.ToFloat64(c.BillStatusChanges.WithLabelValues("paid")); got != 1 {
		t.Errorf("expected 1 paid status change, got %v", got)
	}
	if got := testutil.ToFloat64(c.PatientsCreatedTotal); got != 1 {
		t.Errorf("expected 1 patient created, got %v", got)
	}
}

func TestCollector_IndependentRegistries(t *testing.T) {
	// Two collectors must not panic on duplicate registration.
	a := NewCollector("clinicdesk")
	b := NewCollector("clinicdesk")
	a.BillCreated()
	if got := testutil.ToFloat64(b.BillsCreatedTotal); got != 0 {
		t.Errorf("expected registries to be independent, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("clinicdesk")
	c.RegisterGaugeFunc("db", "acquired_conns", "Acquired pool connections.", func() float64 { return 3 })
	c.BillCreated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"clinicdesk_billing_bills_created_total 1",
		"db_acquired_conns 3",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}
