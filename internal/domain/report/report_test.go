package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amit001112/HospitalBilling/internal/platform/middleware"
)

func TestPredefined(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range Predefined {
		if d.ID == "" || d.Name == "" {
			t.Errorf("incomplete definition %+v", d)
		}
		if seen[d.ID] {
			t.Errorf("duplicate report id %s", d.ID)
		}
		seen[d.ID] = true
	}
	for _, id := range []string{"daily-revenue", "patient-list", "outstanding-bills"} {
		if Find(id) == nil {
			t.Errorf("expected report %s", id)
		}
	}
	if Find("audit-trail") != nil {
		t.Error("expected unknown report to be nil")
	}
}

func get(path string) *httptest.ResponseRecorder {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(zerolog.Nop())
	NewHandler().RegisterRoutes(e.Group("/api"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_ListReports(t *testing.T) {
	rec := get("/api/reports")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var defs []Definition
	json.Unmarshal(rec.Body.Bytes(), &defs)
	if len(defs) != len(Predefined) {
		t.Errorf("expected %d reports, got %d", len(Predefined), len(defs))
	}
}

func TestHandler_GetReport(t *testing.T) {
	rec := get("/api/reports/daily-revenue")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
	var body pendingResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Report == nil || body.Report.ID != "daily-revenue" || body.Message == "" {
		t.Errorf("unexpected body %+v", body)
	}

	rec = get("/api/reports/unknown")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
