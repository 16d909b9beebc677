package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/amit001112/HospitalBilling/internal/platform/db/dbtest"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"verma", "verma"},
		{"987", "987"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\d`, `c:\\d`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func seedPatient(t *testing.T, repo Repository, first, last, phone string) *Patient {
	t.Helper()
	p := &Patient{FirstName: first, LastName: last, Age: 30, Gender: GenderOther, Phone: phone, Status: StatusActive}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create %s %s: %v", first, last, err)
	}
	return p
}

func TestRepoPG_Search(t *testing.T) {
	repo := NewRepoPG(dbtest.Open(t))
	ctx := context.Background()
	seedPatient(t, repo, "Asha", "Verma", "9876543210")
	seedPatient(t, repo, "Rahul", "Singh", "9123456789")
	seedPatient(t, repo, "Meera_", "Iyer", "9988776655")

	tests := []struct {
		query string
		want  []string
	}{
		{"verma", []string{"Asha Verma"}},
		{"VERMA", []string{"Asha Verma"}},
		{"ash", []string{"Asha Verma"}},
		{"987", []string{"Asha Verma"}},
		{"singh", []string{"Rahul Singh"}},
		{"_", []string{"Meera_ Iyer"}},
		{"%", nil},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d patients", tt.want, len(got))
			}
			for i, p := range got {
				if p.FullName() != tt.want[i] {
					t.Errorf("result %d: expected %s, got %s", i, tt.want[i], p.FullName())
				}
			}
		})
	}
}

func TestRepoPG_DeleteWithBills(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewRepoPG(pool)
	ctx := context.Background()
	p := seedPatient(t, repo, "Asha", "Verma", "9876543210")

	if _, err := pool.Exec(ctx, `INSERT INTO bills (bill_number, patient_id, subtotal, total)
		VALUES ('B000001', $1, 100, 100)`, p.ID); err != nil {
		t.Fatalf("insert bill: %v", err)
	}
	if _, err := repo.Delete(ctx, p.ID); !errors.Is(err, ErrHasBills) {
		t.Errorf("expected ErrHasBills, got %v", err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM bills WHERE patient_id = $1`, p.ID); err != nil {
		t.Fatalf("delete bill: %v", err)
	}
	ok, err := repo.Delete(ctx, p.ID)
	if err != nil || !ok {
		t.Errorf("expected delete to succeed, got %v %v", ok, err)
	}
}
