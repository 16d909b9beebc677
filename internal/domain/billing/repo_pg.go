package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amit001112/HospitalBilling/internal/platform/db"
)

// numberingLockKey is the pg_advisory_xact_lock key guarding bill numbers.
const numberingLockKey int64 = 0x62696c6c // "bill"

const (
	constraintBillNumber = "bills_bill_number_key"
	constraintPatient    = "bills_patient_id_fkey"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const billCols = `id, bill_number, patient_id, bill_date, subtotal, tax, discount, total,
	status, notes, created_at`

const itemCols = `id, bill_id, serial_number, description, quantity, rate, discount, amount`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.BillNumber, &b.PatientID, &b.BillDate, &b.Subtotal, &b.Tax,
		&b.Discount, &b.Total, &b.Status, &b.Notes, &b.CreatedAt)
	return &b, err
}

func (r *repoPG) LockNumbering(ctx context.Context) error {
	if db.TxFromContext(ctx) == nil {
		return errors.New("lock bill numbering: no transaction in context")
	}
	if _, err := r.conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, numberingLockKey); err != nil {
		return fmt.Errorf("lock bill numbering: %w", err)
	}
	return nil
}

func (r *repoPG) BillNumbers(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT bill_number FROM bills`)
	if err != nil {
		return nil, fmt.Errorf("query bill numbers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan bill number: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bills (bill_number, patient_id, bill_date, subtotal, tax, discount, total, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		b.BillNumber, b.PatientID, b.BillDate, b.Subtotal, b.Tax, b.Discount, b.Total, b.Status, b.Notes,
	).Scan(&b.ID, &b.CreatedAt)
	switch {
	case db.IsPgError(err, db.CodeUniqueViolation, constraintBillNumber):
		return ErrDuplicateBillNumber
	case db.IsPgError(err, db.CodeForeignKeyViolation, constraintPatient):
		return ErrUnknownPatient
	case err != nil:
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (r *repoPG) AddItems(ctx context.Context, billID int64, items []*Item) error {
	q := r.conn(ctx)
	for _, it := range items {
		it.BillID = billID
		err := q.QueryRow(ctx, `
			INSERT INTO bill_items (bill_id, serial_number, description, quantity, rate, discount, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			billID, it.SerialNumber, it.Description, it.Quantity, it.Rate, it.Discount, it.Amount,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert bill item %d: %w", it.SerialNumber, err)
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Bill, error) {
	b, err := scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+` FROM bills WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bill %d: %w", id, err)
	}
	return b, nil
}

func (r *repoPG) Items(ctx context.Context, billIDs []int64) (map[int64][]*Item, error) {
	out := make(map[int64][]*Item, len(billIDs))
	if len(billIDs) == 0 {
		return out, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM bill_items
		WHERE bill_id = ANY($1) ORDER BY bill_id, serial_number`, billIDs)
	if err != nil {
		return nil, fmt.Errorf("query bill items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.BillID, &it.SerialNumber, &it.Description, &it.Quantity,
			&it.Rate, &it.Discount, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan bill item: %w", err)
		}
		out[it.BillID] = append(out[it.BillID], &it)
	}
	return out, rows.Err()
}

func (r *repoPG) List(ctx context.Context) ([]*Bill, error) {
	return r.query(ctx, `SELECT `+billCols+` FROM bills ORDER BY created_at DESC, id DESC`)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Bill, error) {
	return r.query(ctx, `SELECT `+billCols+` FROM bills WHERE patient_id = $1
		ORDER BY created_at DESC, id DESC`, patientID)
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*Bill, error) {
	return r.query(ctx, `SELECT `+billCols+` FROM bills ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status Status) (*Bill, error) {
	b, err := scanBill(r.conn(ctx).QueryRow(ctx,
		`UPDATE bills SET status = $2 WHERE id = $1 RETURNING `+billCols, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update bill %d status: %w", id, err)
	}
	return b, nil
}

func (r *repoPG) DeleteItems(ctx context.Context, billID int64) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM bill_items WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("delete items of bill %d: %w", billID, err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete bill %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID int64) (int, error) {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `DELETE FROM bill_items
		WHERE bill_id IN (SELECT id FROM bills WHERE patient_id = $1)`, patientID); err != nil {
		return 0, fmt.Errorf("delete bill items of patient %d: %w", patientID, err)
	}
	tag, err := q.Exec(ctx, `DELETE FROM bills WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("delete bills of patient %d: %w", patientID, err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) Summary(ctx context.Context, from, to time.Time) (*DaySummary, error) {
	var s DaySummary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE bill_date >= $1 AND bill_date < $2),
			COALESCE(SUM(total) FILTER (WHERE bill_date >= $1 AND bill_date < $2), 0),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM bills`, from, to,
	).Scan(&s.Bills, &s.Revenue, &s.Pending)
	if err != nil {
		return nil, fmt.Errorf("summarize bills: %w", err)
	}
	return &s, nil
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Bill, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var out []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
