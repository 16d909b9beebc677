package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amit001112/HospitalBilling/internal/domain/billing"
	"github.com/amit001112/HospitalBilling/internal/domain/patient"
	"github.com/amit001112/HospitalBilling/pkg/money"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fakePatients struct {
	list []*patient.Patient
	err  error
}

func (f *fakePatients) CountPatients(context.Context) (int, error) {
	return len(f.list), f.err
}

func (f *fakePatients) RecentPatients(_ context.Context, n int) ([]*patient.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.list) > n {
		return f.list[:n], nil
	}
	return f.list, nil
}

// fakeBills keeps bills newest first.
type fakeBills struct {
	list []*billing.BillWithItems
	err  error
}

func (f *fakeBills) Summary(_ context.Context, from, to time.Time) (*billing.DaySummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &billing.DaySummary{Revenue: money.Zero}
	for _, b := range f.list {
		if !b.BillDate.Before(from) && b.BillDate.Before(to) {
			s.Bills++
			s.Revenue = s.Revenue.Add(b.Total)
		}
		if b.Status == billing.StatusPending {
			s.Pending++
		}
	}
	return s, nil
}

func (f *fakeBills) RecentBills(_ context.Context, n int) ([]*billing.BillWithItems, error) {
	if len(f.list) > n {
		return f.list[:n], nil
	}
	return f.list, nil
}

func bill(id int64, date time.Time, total string, status billing.Status) *billing.BillWithItems {
	return &billing.BillWithItems{Bill: billing.Bill{
		ID:       id,
		BillDate: date,
		Total:    money.MustParse(total),
		Status:   status,
	}}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 15, 0, 0, ist)
	from, to := Today(now)
	if !from.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, ist)) {
		t.Errorf("unexpected start %s", from)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Errorf("expected a one day window, got %s", to.Sub(from))
	}
}

func TestService_Stats(t *testing.T) {
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, ist)
	midnight := time.Date(2024, 5, 1, 0, 0, 0, 0, ist)

	var patients []*patient.Patient
	for i := 7; i >= 1; i-- {
		patients = append(patients, &patient.Patient{ID: int64(i)})
	}
	bills := &fakeBills{list: []*billing.BillWithItems{
		bill(6, midnight.AddDate(0, 0, 1), "999.00", billing.StatusPending),
		bill(5, now.Add(-time.Hour), "49.50", billing.StatusPaid),
		bill(4, midnight.Add(9*time.Hour), "250.50", billing.StatusPending),
		bill(3, midnight, "100.00", billing.StatusOverdue),
		bill(2, midnight.Add(-time.Second), "75.00", billing.StatusPending),
		bill(1, midnight.AddDate(0, 0, -3), "10.00", billing.StatusPaid),
	}}

	svc := NewService(&fakePatients{list: patients}, bills).WithClock(func() time.Time { return now })
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalPatients != 7 {
		t.Errorf("expected 7 patients, got %d", stats.TotalPatients)
	}
	if stats.TodayBills != 3 {
		t.Errorf("expected 3 bills today, got %d", stats.TodayBills)
	}
	if stats.TodayRevenue != "400.00" {
		t.Errorf("expected revenue 400.00, got %s", stats.TodayRevenue)
	}
	if stats.PendingBills != 3 {
		t.Errorf("expected 3 pending bills, got %d", stats.PendingBills)
	}
	if len(stats.RecentPatients) != RecentLimit || stats.RecentPatients[0].ID != 7 {
		t.Errorf("expected 5 newest patients, got %d", len(stats.RecentPatients))
	}
	if len(stats.RecentBills) != RecentLimit || stats.RecentBills[0].ID != 6 {
		t.Errorf("expected 5 newest bills, got %d", len(stats.RecentBills))
	}
}

func TestService_Stats_Empty(t *testing.T) {
	svc := NewService(&fakePatients{}, &fakeBills{})
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TodayRevenue != "0.00" || stats.TodayBills != 0 || stats.TotalPatients != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.RecentPatients == nil || stats.RecentBills == nil {
		t.Error("expected empty lists rather than nil")
	}
}

func TestService_Stats_Error(t *testing.T) {
	svc := NewService(&fakePatients{}, &fakeBills{err: errors.New("connection refused")})
	if _, err := svc.Stats(context.Background()); err == nil {
		t.Error("expected error")
	}
}
