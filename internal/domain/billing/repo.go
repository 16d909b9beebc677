package billing

import (
	"context"
	"time"

	"github.com/amit001112/HospitalBilling/pkg/money"
)

// DaySummary aggregates bills for the dashboard.
type DaySummary struct {
	// Bills and Revenue cover bills dated within the requested window.
	Bills   int
	Revenue money.Amount
	// Pending counts every pending bill regardless of date.
	Pending int
}

type Repository interface {
	// LockNumbering serializes bill-number generation until the surrounding
	// transaction ends.
	LockNumbering(ctx context.Context) error
	BillNumbers(ctx context.Context) ([]string, error)
	// Create inserts the header and fills ID and CreatedAt. It returns
	// ErrDuplicateBillNumber or ErrUnknownPatient on constraint violations.
	Create(ctx context.Context, b *Bill) error
	// AddItems inserts items for billID and fills their IDs.
	AddItems(ctx context.Context, billID int64, items []*Item) error
	GetByID(ctx context.Context, id int64) (*Bill, error)
	// Items returns the lines of each bill ordered by serial number.
	Items(ctx context.Context, billIDs []int64) (map[int64][]*Item, error)
	// List returns all bills, newest first.
	List(ctx context.Context) ([]*Bill, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*Bill, error)
	ListRecent(ctx context.Context, limit int) ([]*Bill, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Bill, error)
	DeleteItems(ctx context.Context, billID int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	// DeleteByPatient removes every bill of patientID with its items and
	// returns how many bills went.
	DeleteByPatient(ctx context.Context, patientID int64) (int, error)
	// Summary counts bills dated in [from, to) along with all pending bills.
	Summary(ctx context.Context, from, to time.Time) (*DaySummary, error)
}
