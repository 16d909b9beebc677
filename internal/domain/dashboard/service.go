package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amit001112/HospitalBilling/internal/domain/billing"
	"github.com/amit001112/HospitalBilling/internal/domain/patient"
)

// RecentLimit is how many patients and bills the dashboard lists.
const RecentLimit = 5

// PatientSource is satisfied by patient.Service.
type PatientSource interface {
	CountPatients(ctx context.Context) (int, error)
	RecentPatients(ctx context.Context, n int) ([]*patient.Patient, error)
}

// BillSource is satisfied by billing.Service.
type BillSource interface {
	Summary(ctx context.Context, from, to time.Time) (*billing.DaySummary, error)
	RecentBills(ctx context.Context, n int) ([]*billing.BillWithItems, error)
}

// Stats is the body of GET /api/dashboard/stats.
type Stats struct {
	TotalPatients int `json:"totalPatients"`
	TodayBills    int `json:"todayBills"`
	// TodayRevenue is encoded as a JSON number with two decimals.
	TodayRevenue   json.Number              `json:"todayRevenue"`
	PendingBills   int                      `json:"pendingBills"`
	RecentPatients []*patient.Patient       `json:"recentPatients"`
	RecentBills    []*billing.BillWithItems `json:"recentBills"`
}

type Service struct {
	patients PatientSource
	bills    BillSource
	now      func() time.Time
}

func NewService(patients PatientSource, bills BillSource) *Service {
	return &Service{patients: patients, bills: bills, now: time.Now}
}

// WithClock replaces time.Now when deciding what "today" is.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Today returns local midnight and the following midnight for now.
func Today(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	from = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 0, 1)
}

// Stats computes the dashboard on demand. The four loads run concurrently
// and the first failure cancels the rest.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	from, to := Today(s.now())

	var (
		total    int
		summary  *billing.DaySummary
		patients []*patient.Patient
		bills    []*billing.BillWithItems
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.patients.CountPatients(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		patients, err = s.patients.RecentPatients(ctx, RecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.bills.Summary(ctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.bills.RecentBills(ctx, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if patients == nil {
		patients = []*patient.Patient{}
	}
	if bills == nil {
		bills = []*billing.BillWithItems{}
	}
	return &Stats{
		TotalPatients:  total,
		TodayBills:     summary.Bills,
		TodayRevenue:   json.Number(summary.Revenue.String()),
		PendingBills:   summary.Pending,
		RecentPatients: patients,
		RecentBills:    bills,
	}, nil
}
