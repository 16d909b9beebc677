package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/amit001112/HospitalBilling/internal/domain/patient"
	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
	"github.com/amit001112/HospitalBilling/internal/platform/db"
)

// PatientLookup resolves bill owners. patient.Service satisfies it.
type PatientLookup interface {
	GetPatient(ctx context.Context, id int64) (*patient.Patient, error)
	GetPatients(ctx context.Context, ids []int64) (map[int64]*patient.Patient, error)
}

// Validator is satisfied by validate.Validator.
type Validator interface {
	Validate(i interface{}) error
	Var(field string, value interface{}, tag string) *apperr.FieldError
}

// Recorder receives billing events for metrics.
type Recorder interface {
	BillCreated()
	BillStatusChanged(status string)
	BillNumberFallback()
	BillNumberRetry()
	OrphanedBillSkipped()
}

type nopRecorder struct{}

func (nopRecorder) BillCreated() {}
func (nopRecorder) BillStatusChanged(string) {}
func (nopRecorder) BillNumberFallback() {}
func (nopRecorder) BillNumberRetry() {}
func (nopRecorder) OrphanedBillSkipped() {}

type Options struct {
	// VerifyTotals recomputes item amounts, subtotal and total on create
	// and rejects mismatches.
	VerifyTotals bool
	// MaxRetries bounds how often a create is retried after a bill number
	// collision.
	MaxRetries int
}

func DefaultOptions() Options {
	return Options{VerifyTotals: true, MaxRetries: 3}
}

type Service struct {
	repo     Repository
	patients PatientLookup
	tx       db.Transactor
	validate Validator
	opts     Options
	metrics  Recorder
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(repo Repository, patients PatientLookup, tx db.Transactor, v Validator, opts Options, logger zerolog.Logger) *Service {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Service{
		repo:     repo,
		patients: patients,
		tx:       tx,
		validate: v,
		opts:     opts,
		metrics:  nopRecorder{},
		now:      time.Now,
		log:      logger.With().Str("component", "billing").Logger(),
	}
}

// WithRecorder sets the metrics sink.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.metrics = r
	}
	return s
}

// WithClock replaces time.Now for fallback bill numbers.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func patientMissing(id int64) error {
	return apperr.Precondition("Patient with ID "+strconv.FormatInt(id, 10)+" not found",
		apperr.Field("Patient not found", "patientId"))
}

// CreateBill validates in, checks the patient exists and persists the header
// and its items in one transaction under a freshly generated bill number.
func (s *Service) CreateBill(ctx context.Context, in *CreateInput) (*BillWithItems, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if fields := checkAmounts(in); len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}
	if s.opts.VerifyTotals {
		if fields := checkTotals(in); len(fields) > 0 {
			return nil, apperr.Validation(fields...)
		}
	}

	owner, err := s.patients.GetPatient(ctx, in.PatientID)
	if errors.Is(err, patient.ErrNotFound) {
		return nil, patientMissing(in.PatientID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve patient %d: %w", in.PatientID, err)
	}

	var out *BillWithItems
	for attempt := 0; ; attempt++ {
		out, err = s.createOnce(ctx, in, owner)
		if !errors.Is(err, ErrDuplicateBillNumber) || attempt >= s.opts.MaxRetries {
			break
		}
		s.metrics.BillNumberRetry()
		s.log.Warn().Int("attempt", attempt+1).Int64("patient_id", in.PatientID).
			Msg("bill number collision, retrying")
	}
	switch {
	case errors.Is(err, ErrUnknownPatient):
		return nil, patientMissing(in.PatientID)
	case err != nil:
		return nil, err
	}

	s.metrics.BillCreated()
	s.log.Info().Int64("bill_id", out.ID).Str("bill_number", out.BillNumber).
		Int64("patient_id", out.PatientID).Int("items", len(out.Items)).Msg("bill created")
	return out, nil
}

func (s *Service) createOnce(ctx context.Context, in *CreateInput, owner *patient.Patient) (*BillWithItems, error) {
	var out *BillWithItems
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockNumbering(ctx); err != nil {
			return err
		}
		b := in.toBill()
		b.BillNumber = s.nextNumber(ctx)
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		if err := s.repo.AddItems(ctx, b.ID, in.toItems()); err != nil {
			return err
		}

		stored, err := s.repo.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		items, err := s.repo.Items(ctx, []int64{b.ID})
		if err != nil {
			return err
		}
		out = &BillWithItems{Bill: *stored, Items: items[b.ID], Patient: owner}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// nextNumber loads existing numbers inside a savepoint so a failed read
// leaves the surrounding transaction usable, falling back to a clock-based
// number.
func (s *Service) nextNumber(ctx context.Context) string {
	var existing []string
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		existing, err = s.repo.BillNumbers(ctx)
		return err
	})
	if err != nil {
		n := FallbackBillNumber(s.now())
		s.metrics.BillNumberFallback()
		s.log.Warn().Err(err).Str("bill_number", n).Msg("could not load bill numbers, using fallback")
		return n
	}
	return NextBillNumber(existing)
}

// GetBill returns the bill with its items and patient. A bill whose patient
// no longer exists is reported as not found.
func (s *Service) GetBill(ctx context.Context, id int64) (*BillWithItems, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.compose(ctx, []*Bill{b})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}

// ListBills returns every bill newest first.
func (s *Service) ListBills(ctx context.Context) ([]*BillWithItems, error) {
	bills, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, bills)
}

func (s *Service) ListBillsForPatient(ctx context.Context, patientID int64) ([]*BillWithItems, error) {
	bills, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, bills)
}

// RecentBills returns up to n of the newest bills.
func (s *Service) RecentBills(ctx context.Context, n int) ([]*BillWithItems, error) {
	bills, err := s.repo.ListRecent(ctx, n)
	if err != nil {
		return nil, err
	}
	return s.compose(ctx, bills)
}

// Summary aggregates bills dated in [from, to) and all pending bills.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*DaySummary, error) {
	return s.repo.Summary(ctx, from, to)
}

// UpdateBillStatus sets any valid status regardless of the current one.
func (s *Service) UpdateBillStatus(ctx context.Context, id int64, status Status) (*BillWithItems, error) {
	if fe := s.validate.Var("status", string(status), "required,"+statusTag); fe != nil {
		return nil, apperr.Validation(*fe)
	}
	b, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.metrics.BillStatusChanged(string(status))
	s.log.Info().Int64("bill_id", id).Str("status", string(status)).Msg("bill status updated")

	out, err := s.compose(ctx, []*Bill{b})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}

// DeleteBill removes the items and the header together and reports whether
// the bill existed.
func (s *Service) DeleteBill(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		var err error
		ok, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info().Int64("bill_id", id).Msg("bill deleted")
	}
	return ok, nil
}

// DeleteBillsForPatient removes all bills of a patient and their items.
func (s *Service) DeleteBillsForPatient(ctx context.Context, patientID int64) (int, error) {
	var n int
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repo.DeleteByPatient(ctx, patientID)
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("patient_id", patientID).Int("bills", n).Msg("patient bills deleted")
	}
	return n, nil
}

// compose attaches items and patients, preserving the order of bills.
// Bills whose patient cannot be found are dropped.
func (s *Service) compose(ctx context.Context, bills []*Bill) ([]*BillWithItems, error) {
	out := make([]*BillWithItems, 0, len(bills))
	if len(bills) == 0 {
		return out, nil
	}

	ids := make([]int64, len(bills))
	var patientIDs []int64
	seen := make(map[int64]bool)
	for i, b := range bills {
		ids[i] = b.ID
		if !seen[b.PatientID] {
			seen[b.PatientID] = true
			patientIDs = append(patientIDs, b.PatientID)
		}
	}

	owners, err := s.patients.GetPatients(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("load bill patients: %w", err)
	}
	items, err := s.repo.Items(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, b := range bills {
		owner, ok := owners[b.PatientID]
		if !ok {
			s.metrics.OrphanedBillSkipped()
			s.log.Warn().Int64("bill_id", b.ID).Int64("patient_id", b.PatientID).
				Msg("bill references missing patient, skipping")
			continue
		}
		lines := items[b.ID]
		if lines == nil {
			lines = []*Item{}
		}
		out = append(out, &BillWithItems{Bill: *b, Items: lines, Patient: owner})
	}
	return out, nil
}
