package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
	"github.com/amit001112/HospitalBilling/internal/platform/validate"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[int64]*Patient
	nextID   int64
	clock    time.Time
	withBill map[int64]bool
	failList bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients: make(map[int64]*Patient),
		clock:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		withBill: make(map[int64]bool),
	}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	p.ID = m.nextID
	p.CreatedAt = m.clock
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetMany(_ context.Context, ids []int64) (map[int64]*Patient, error) {
	out := make(map[int64]*Patient)
	for _, id := range ids {
		if p, ok := m.patients[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockRepo) List(_ context.Context) ([]*Patient, error) {
	if m.failList {
		return nil, errors.New("connection reset")
	}
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepo) ListRecent(ctx context.Context, limit int) ([]*Patient, error) {
	all, _ := m.List(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) { return len(m.patients), nil }

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.withBill[id] {
		return false, ErrHasBills
	}
	if _, ok := m.patients[id]; !ok {
		return false, nil
	}
	delete(m.patients, id)
	return true, nil
}

func (m *mockRepo) Search(ctx context.Context, q string) ([]*Patient, error) {
	all, _ := m.List(ctx)
	q = strings.ToLower(q)
	var out []*Patient
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.FirstName), q) ||
			strings.Contains(strings.ToLower(p.LastName), q) ||
			strings.Contains(p.Phone, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockTx restores the patient map when fn fails.
type mockTx struct {
	repo      *mockRepo
	rollbacks int
}

func (t *mockTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := make(map[int64]*Patient, len(t.repo.patients))
	for id, p := range t.repo.patients {
		saved[id] = p
	}
	if err := fn(ctx); err != nil {
		t.repo.patients = saved
		t.rollbacks++
		return err
	}
	return nil
}

// fakePurger stands in for billing: it forgets the patient's bills.
type fakePurger struct {
	repo  *mockRepo
	calls []int64
	err   error
}

func (f *fakePurger) DeleteBillsForPatient(_ context.Context, patientID int64) (int, error) {
	f.calls = append(f.calls, patientID)
	if f.err != nil {
		return 0, f.err
	}
	if !f.repo.withBill[patientID] {
		return 0, nil
	}
	delete(f.repo.withBill, patientID)
	return 1, nil
}

type countingRecorder struct{ created int }

func (c *countingRecorder) PatientCreated() { c.created++ }

func newTestService() *Service {
	return NewService(newMockRepo(), validate.New(), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func validInput() *CreateInput {
	return &CreateInput{
		FirstName: "Asha",
		LastName:  "Verma",
		Age:       34,
		Gender:    GenderFemale,
		Phone:     "9876543210",
	}
}

// -- Tests --

func TestService_CreatePatient(t *testing.T) {
	rec := &countingRecorder{}
	svc := newTestService().WithRecorder(rec)

	in := validInput()
	in.FirstName = "  Asha "
	in.Email = strPtr("")
	in.Address = strPtr("")
	p, err := svc.CreatePatient(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 || p.CreatedAt.IsZero() {
		t.Error("expected id and createdAt to be assigned")
	}
	if p.FirstName != "Asha" {
		t.Errorf("expected trimmed first name, got %q", p.FirstName)
	}
	if p.Status != StatusActive {
		t.Errorf("expected default status active, got %s", p.Status)
	}
	if p.Email != nil || p.Address != nil {
		t.Error("expected empty optional fields to be stored as null")
	}
	if rec.created != 1 {
		t.Errorf("expected recorder to count 1 creation, got %d", rec.created)
	}
}

func TestService_CreatePatient_Validation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name  string
		mod   func(in *CreateInput)
		field string
	}{
		{"blank first name", func(in *CreateInput) { in.FirstName = "   " }, "firstName"},
		{"missing last name", func(in *CreateInput) { in.LastName = "" }, "lastName"},
		{"age zero", func(in *CreateInput) { in.Age = 0 }, "age"},
		{"age too high", func(in *CreateInput) { in.Age = 121 }, "age"},
		{"bad gender", func(in *CreateInput) { in.Gender = "unknown" }, "gender"},
		{"short phone", func(in *CreateInput) { in.Phone = "12345" }, "phone"},
		{"bad email", func(in *CreateInput) { in.Email = strPtr("nope") }, "email"},
		{"bad status", func(in *CreateInput) { in.Status = "archived" }, "status"},
		{"discharge before admission", func(in *CreateInput) {
			adm := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
			dis := adm.Add(-time.Hour)
			in.AdmissionDateTime, in.DischargeDateTime = &adm, &dis
		}, "dischargeDateTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mod(in)
			_, err := svc.CreatePatient(context.Background(), in)
			var e *apperr.Error
			if !errors.As(err, &e) || e.Kind != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, f := range e.Fields {
				if len(f.Path) > 0 && f.Path[0] == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field error on %s, got %+v", tt.field, e.Fields)
			}
		})
	}

	if n, _ := svc.CountPatients(context.Background()); n != 0 {
		t.Errorf("expected no patients stored after validation failures, got %d", n)
	}
}

func TestService_GetPatient_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetPatient(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_UpdatePatient_Partial(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Email = strPtr("asha@example.com")
	p, _ := svc.CreatePatient(ctx, in)

	updated, err := svc.UpdatePatient(ctx, p.ID, &UpdateInput{Phone: strPtr("9000000001")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone != "9000000001" {
		t.Errorf("expected phone to change, got %s", updated.Phone)
	}
	if updated.FirstName != "Asha" || updated.LastName != "Verma" || updated.Age != 34 ||
		updated.Email == nil || *updated.Email != "asha@example.com" || !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("expected other fields unchanged, got %+v", updated)
	}

	stored, _ := svc.GetPatient(ctx, p.ID)
	if stored.Phone != "9000000001" {
		t.Errorf("expected stored phone to change, got %s", stored.Phone)
	}
}

func TestService_UpdatePatient_ClearsOptional(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Address = strPtr("12 MG Road")
	p, _ := svc.CreatePatient(ctx, in)

	updated, err := svc.UpdatePatient(ctx, p.ID, &UpdateInput{Address: strPtr("")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Address != nil {
		t.Errorf("expected address cleared, got %q", *updated.Address)
	}
}

func TestService_UpdatePatient_Errors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.UpdatePatient(ctx, 99, &UpdateInput{Phone: strPtr("9000000001")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	p, _ := svc.CreatePatient(ctx, validInput())
	age := 0
	if _, err := svc.UpdatePatient(ctx, p.ID, &UpdateInput{Age: &age}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for age 0, got %v", err)
	}
	if _, err := svc.UpdatePatient(ctx, p.ID, &UpdateInput{FirstName: strPtr(" ")}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
}

func TestService_DeletePatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.CreatePatient(ctx, validInput())

	ok, err := svc.DeletePatient(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got %v %v", ok, err)
	}
	ok, err = svc.DeletePatient(ctx, p.ID)
	if err != nil || ok {
		t.Errorf("expected second delete to report false, got %v %v", ok, err)
	}
}

func TestService_DeletePatient_WithBills(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, validate.New(), zerolog.Nop())
	ctx := context.Background()
	p, _ := svc.CreatePatient(ctx, validInput())
	repo.withBill[p.ID] = true

	_, err := svc.DeletePatient(ctx, p.ID)
	if !errors.Is(err, ErrHasBills) {
		t.Errorf("expected ErrHasBills, got %v", err)
	}
	if _, err := svc.GetPatient(ctx, p.ID); err != nil {
		t.Error("expected patient to remain")
	}
}

func TestService_DeletePatient_Cascade(t *testing.T) {
	repo := newMockRepo()
	tx := &mockTx{repo: repo}
	purger := &fakePurger{repo: repo}
	svc := NewService(repo, validate.New(), zerolog.Nop()).WithCascadeDelete(tx, purger)
	ctx := context.Background()
	p, _ := svc.CreatePatient(ctx, validInput())
	repo.withBill[p.ID] = true

	ok, err := svc.DeletePatient(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("expected cascading delete to succeed, got %v %v", ok, err)
	}
	if len(purger.calls) != 1 || purger.calls[0] != p.ID {
		t.Errorf("expected bills of patient %d purged, got %v", p.ID, purger.calls)
	}
	if _, err := svc.GetPatient(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected patient gone, got %v", err)
	}

	ok, err = svc.DeletePatient(ctx, 99)
	if err != nil || ok {
		t.Errorf("expected unknown patient to report false, got %v %v", ok, err)
	}
}

func TestService_DeletePatient_CascadeFailureKeepsPatient(t *testing.T) {
	repo := newMockRepo()
	tx := &mockTx{repo: repo}
	purger := &fakePurger{repo: repo, err: errors.New("connection reset")}
	svc := NewService(repo, validate.New(), zerolog.Nop()).WithCascadeDelete(tx, purger)
	ctx := context.Background()
	p, _ := svc.CreatePatient(ctx, validInput())

	if _, err := svc.DeletePatient(ctx, p.ID); err == nil {
		t.Fatal("expected purge failure to surface")
	}
	if tx.rollbacks != 1 {
		t.Errorf("expected 1 rollback, got %d", tx.rollbacks)
	}
	if _, err := svc.GetPatient(ctx, p.ID); err != nil {
		t.Errorf("expected patient to remain, got %v", err)
	}
}

func TestService_SearchPatients(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.CreatePatient(ctx, validInput())
	other := validInput()
	other.FirstName, other.LastName, other.Phone = "Ravi", "Kumar", "9123456780"
	svc.CreatePatient(ctx, other)

	for _, q := range []string{"verma", "VERMA", "987"} {
		got, err := svc.SearchPatients(ctx, q)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if len(got) != 1 || got[0].FullName() != "Asha Verma" {
			t.Errorf("search %q: expected Asha Verma, got %+v", q, got)
		}
	}

	if got, _ := svc.SearchPatients(ctx, "  "); len(got) != 0 {
		t.Errorf("expected whitespace to be searched literally, got %d", len(got))
	}

	all, _ := svc.SearchPatients(ctx, "")
	if len(all) != 2 {
		t.Errorf("expected blank search to list all, got %d", len(all))
	}
	if all[0].FirstName != "Ravi" {
		t.Errorf("expected newest first, got %s", all[0].FirstName)
	}
}
