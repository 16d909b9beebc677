package billing

import (
	"errors"
	"strconv"
	"time"

	"github.com/amit001112/HospitalBilling/internal/domain/patient"
	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
	"github.com/amit001112/HospitalBilling/pkg/money"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// statusTag validates a status update.
const statusTag = "oneof=pending paid overdue"

var (
	ErrNotFound = apperr.NotFound("Bill not found")

	// ErrDuplicateBillNumber is returned by Repository.Create when the
	// bill_number unique constraint rejects the insert.
	ErrDuplicateBillNumber = errors.New("duplicate bill number")
	// ErrUnknownPatient is returned by Repository.Create when the patient
	// foreign key rejects the insert.
	ErrUnknownPatient = errors.New("bill references unknown patient")
)

// Bill is the persisted bill header.
type Bill struct {
	ID         int64        `json:"id"`
	BillNumber string       `json:"billNumber"`
	PatientID  int64        `json:"patientId"`
	BillDate   time.Time    `json:"billDate"`
	Subtotal   money.Amount `json:"subtotal"`
	Tax        money.Amount `json:"tax"`
	Discount   money.Amount `json:"discount"`
	Total      money.Amount `json:"total"`
	Status     Status       `json:"status"`
	Notes      *string      `json:"notes"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Item is one line of a bill.
type Item struct {
	ID           int64        `json:"id"`
	BillID       int64        `json:"billId"`
	SerialNumber int          `json:"serialNumber"`
	Description  string       `json:"description"`
	Quantity     int          `json:"quantity"`
	Rate         money.Amount `json:"rate"`
	Discount     money.Amount `json:"discount"`
	Amount       money.Amount `json:"amount"`
}

// BillWithItems is the read model returned by the API: the header, its items
// ordered by serial number and the owning patient.
type BillWithItems struct {
	Bill
	Items   []*Item          `json:"items"`
	Patient *patient.Patient `json:"patient"`
}

type ItemInput struct {
	Description string        `json:"description" validate:"notblank"`
	Quantity    int           `json:"quantity" validate:"min=1"`
	Rate        *money.Amount `json:"rate" validate:"required"`
	Discount    money.Amount  `json:"discount"`
	Amount      *money.Amount `json:"amount" validate:"required"`
}

// CreateInput is the body of POST /api/bills. The bill number is always
// generated server-side.
type CreateInput struct {
	PatientID int64         `json:"patientId" validate:"gt=0"`
	BillDate  *Date         `json:"billDate" validate:"required"`
	Subtotal  *money.Amount `json:"subtotal" validate:"required"`
	Tax       money.Amount  `json:"tax"`
	Discount  money.Amount  `json:"discount"`
	Total     *money.Amount `json:"total" validate:"required"`
	Status    Status        `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	Notes     *string       `json:"notes"`
	Items     []ItemInput   `json:"items" validate:"required,min=1,dive"`
}

// StatusInput is the body of PATCH /api/bills/:id/status.
type StatusInput struct {
	Status Status `json:"status"`
}

func (in *CreateInput) toBill() *Bill {
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	var notes *string
	if in.Notes != nil && *in.Notes != "" {
		v := *in.Notes
		notes = &v
	}
	return &Bill{
		PatientID: in.PatientID,
		BillDate:  in.BillDate.Time(),
		Subtotal:  *in.Subtotal,
		Tax:       in.Tax,
		Discount:  in.Discount,
		Total:     *in.Total,
		Status:    status,
		Notes:     notes,
	}
}

// toItems numbers the lines 1..n in input order.
func (in *CreateInput) toItems() []*Item {
	items := make([]*Item, len(in.Items))
	for i, it := range in.Items {
		items[i] = &Item{
			SerialNumber: i + 1,
			Description:  it.Description,
			Quantity:     it.Quantity,
			Rate:         *it.Rate,
			Discount:     it.Discount,
			Amount:       *it.Amount,
		}
	}
	return items
}

// checkAmounts rejects negative money anywhere in the input.
func checkAmounts(in *CreateInput) []apperr.FieldError {
	var fields []apperr.FieldError
	neg := func(a *money.Amount, path ...string) {
		if a != nil && a.IsNegative() {
			fields = append(fields, apperr.Field("Must not be negative", path...))
		}
	}
	neg(in.Subtotal, "subtotal")
	neg(&in.Tax, "tax")
	neg(&in.Discount, "discount")
	neg(in.Total, "total")
	for i := range in.Items {
		it := &in.Items[i]
		idx := strconv.Itoa(i)
		neg(it.Rate, "items", idx, "rate")
		neg(&it.Discount, "items", idx, "discount")
		neg(it.Amount, "items", idx, "amount")
	}
	return fields
}

// checkTotals recomputes the derived amounts and reports every mismatch:
// amount = quantity*rate - discount per line, subtotal = sum of amounts and
// total = subtotal - discount. When tax is set, subtotal + tax - discount is
// accepted as well.
func checkTotals(in *CreateInput) []apperr.FieldError {
	var fields []apperr.FieldError
	sum := money.Zero
	for i := range in.Items {
		it := &in.Items[i]
		want := it.Rate.Times(int64(it.Quantity)).Sub(it.Discount)
		if !want.Equal(*it.Amount) {
			fields = append(fields, apperr.Field("Amount must equal quantity x rate - discount ("+want.String()+")",
				"items", strconv.Itoa(i), "amount"))
		}
		sum = sum.Add(*it.Amount)
	}
	if !sum.Equal(*in.Subtotal) {
		fields = append(fields, apperr.Field("Subtotal must equal the sum of item amounts ("+sum.String()+")", "subtotal"))
	}
	net := in.Subtotal.Sub(in.Discount)
	taxed := net.Add(in.Tax)
	switch {
	case net.Equal(*in.Total), taxed.Equal(*in.Total):
	case in.Tax.IsZero():
		fields = append(fields, apperr.Field("Total must equal subtotal - discount ("+net.String()+")", "total"))
	default:
		fields = append(fields, apperr.Field("Total must equal subtotal - discount ("+net.String()+
			") or subtotal + tax - discount ("+taxed.String()+")", "total"))
	}
	return fields
}
