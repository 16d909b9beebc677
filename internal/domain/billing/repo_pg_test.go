package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amit001112/HospitalBilling/internal/domain/patient"
	"github.com/amit001112/HospitalBilling/internal/platform/db/dbtest"
	"github.com/amit001112/HospitalBilling/pkg/money"
)

func TestRepoPG_DeleteByPatient(t *testing.T) {
	pool := dbtest.Open(t)
	patients := patient.NewRepoPG(pool)
	repo := NewRepoPG(pool)
	ctx := context.Background()

	var owners []int64
	for _, name := range []string{"Asha", "Ravi"} {
		p := &patient.Patient{FirstName: name, LastName: "Test", Age: 40, Gender: patient.GenderOther,
			Phone: "9876543210", Status: patient.StatusActive}
		if err := patients.Create(ctx, p); err != nil {
			t.Fatalf("create patient: %v", err)
		}
		owners = append(owners, p.ID)
	}

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, owner := range []int64{owners[0], owners[0], owners[1]} {
		b := &Bill{BillNumber: fmt.Sprintf("B%06d", i+1), PatientID: owner, BillDate: date,
			Subtotal: money.MustParse("100"), Tax: money.Zero, Discount: money.Zero,
			Total: money.MustParse("100"), Status: StatusPending}
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("create bill: %v", err)
		}
		items := []*Item{{SerialNumber: 1, Description: "Consultation", Quantity: 1,
			Rate: money.MustParse("100"), Discount: money.Zero, Amount: money.MustParse("100")}}
		if err := repo.AddItems(ctx, b.ID, items); err != nil {
			t.Fatalf("add items: %v", err)
		}
	}

	n, err := repo.DeleteByPatient(ctx, owners[0])
	if err != nil || n != 2 {
		t.Fatalf("expected 2 bills deleted, got %d %v", n, err)
	}
	left, err := repo.List(ctx)
	if err != nil || len(left) != 1 || left[0].PatientID != owners[1] {
		t.Fatalf("expected only Ravi's bill left, got %+v %v", left, err)
	}
	var orphanItems int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM bill_items
		WHERE bill_id NOT IN (SELECT id FROM bills)`).Scan(&orphanItems); err != nil || orphanItems != 0 {
		t.Errorf("expected no leftover items, got %d %v", orphanItems, err)
	}
	if !left[0].BillDate.Equal(date) {
		t.Errorf("expected bill date %s, got %s", date, left[0].BillDate)
	}
}
