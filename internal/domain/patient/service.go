package patient

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
	"github.com/amit001112/HospitalBilling/internal/platform/db"
)

// Validator is satisfied by validate.Validator.
type Validator interface {
	Validate(i interface{}) error
}

// Recorder receives registry events for metrics.
type Recorder interface {
	PatientCreated()
}

// BillPurger removes every bill of a patient. billing.Service satisfies it.
type BillPurger interface {
	DeleteBillsForPatient(ctx context.Context, patientID int64) (int, error)
}

type nopRecorder struct{}

func (nopRecorder) PatientCreated() {}

type Service struct {
	repo     Repository
	validate Validator
	metrics  Recorder
	tx       db.Transactor
	purger   BillPurger
	log      zerolog.Logger
}

func NewService(repo Repository, v Validator, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: v,
		metrics:  nopRecorder{},
		log:      logger.With().Str("component", "patients").Logger(),
	}
}

// WithRecorder sets the metrics sink.
func (s *Service) WithRecorder(r Recorder) *Service {
	if r != nil {
		s.metrics = r
	}
	return s
}

// WithCascadeDelete makes DeletePatient remove the patient's bills in the
// same transaction instead of failing with ErrHasBills.
func (s *Service) WithCascadeDelete(tx db.Transactor, bills BillPurger) *Service {
	if tx != nil && bills != nil {
		s.tx = tx
		s.purger = bills
	}
	return s
}

func (s *Service) CreatePatient(ctx context.Context, in *CreateInput) (*Patient, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = blankToNil(in.Email)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	p := in.toPatient()
	if fe := checkStay(p); fe != nil {
		return nil, apperr.Validation(*fe)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.metrics.PatientCreated()
	s.log.Info().Int64("patient_id", p.ID).Msg("patient registered")
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPatients returns the patients that exist among ids, keyed by id.
func (s *Service) GetPatients(ctx context.Context, ids []int64) (map[int64]*Patient, error) {
	return s.repo.GetMany(ctx, ids)
}

// ListPatients returns every patient, newest first.
func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.repo.List(ctx)
}

// UpdatePatient changes only the provided fields.
func (s *Service) UpdatePatient(ctx context.Context, id int64, in *UpdateInput) (*Patient, error) {
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		in.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		in.LastName = &v
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if fe := checkStay(p); fe != nil {
		return nil, apperr.Validation(*fe)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePatient reports whether a patient was removed. Unless cascading
// deletes are enabled, patients with bills cannot be deleted.
func (s *Service) DeletePatient(ctx context.Context, id int64) (bool, error) {
	if s.purger == nil {
		ok, err := s.repo.Delete(ctx, id)
		if err != nil {
			return false, err
		}
		if ok {
			s.log.Info().Int64("patient_id", id).Msg("patient deleted")
		}
		return ok, nil
	}

	var (
		ok    bool
		bills int
	)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if bills, err = s.purger.DeleteBillsForPatient(ctx, id); err != nil {
			return err
		}
		ok, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info().Int64("patient_id", id).Int("bills_deleted", bills).Msg("patient deleted")
	}
	return ok, nil
}

// SearchPatients matches names case-insensitively and phone by substring.
// A blank query lists everyone.
func (s *Service) SearchPatients(ctx context.Context, query string) ([]*Patient, error) {
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) RecentPatients(ctx context.Context, n int) ([]*Patient, error) {
	return s.repo.ListRecent(ctx, n)
}
