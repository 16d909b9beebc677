package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amit001112/HospitalBilling/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const cols = `id, first_name, last_name, father_husband_name, age, gender, phone, email,
	address, emergency_contact, blood_group, medical_history,
	admission_date_time, discharge_date_time, status, created_at`

func scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.FatherHusbandName, &p.Age, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.EmergencyContact, &p.BloodGroup, &p.MedicalHistory,
		&p.AdmissionDateTime, &p.DischargeDateTime, &p.Status, &p.CreatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (first_name, last_name, father_husband_name, age, gender, phone, email,
			address, emergency_contact, blood_group, medical_history,
			admission_date_time, discharge_date_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`,
		p.FirstName, p.LastName, p.FatherHusbandName, p.Age, p.Gender, p.Phone, p.Email,
		p.Address, p.EmergencyContact, p.BloodGroup, p.MedicalHistory,
		p.AdmissionDateTime, p.DischargeDateTime, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}
	return p, nil
}

func (r *repoPG) GetMany(ctx context.Context, ids []int64) (map[int64]*Patient, error) {
	out := make(map[int64]*Patient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.query(ctx, `SELECT `+cols+` FROM patients WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Patient, error) {
	return r.query(ctx, `SELECT `+cols+` FROM patients ORDER BY created_at DESC, id DESC`)
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*Patient, error) {
	return r.query(ctx, `SELECT `+cols+` FROM patients ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET first_name = $2, last_name = $3, father_husband_name = $4, age = $5,
			gender = $6, phone = $7, email = $8, address = $9, emergency_contact = $10,
			blood_group = $11, medical_history = $12, admission_date_time = $13,
			discharge_date_time = $14, status = $15
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.FatherHusbandName, p.Age,
		p.Gender, p.Phone, p.Email, p.Address, p.EmergencyContact,
		p.BloodGroup, p.MedicalHistory, p.AdmissionDateTime,
		p.DischargeDateTime, p.Status)
	if err != nil {
		return fmt.Errorf("update patient %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if db.IsPgError(err, db.CodeForeignKeyViolation, "") {
		return false, ErrHasBills
	}
	if err != nil {
		return false, fmt.Errorf("delete patient %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) Search(ctx context.Context, query string) ([]*Patient, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.query(ctx, `SELECT `+cols+` FROM patients
		WHERE first_name ILIKE $1 ESCAPE '\' OR last_name ILIKE $1 ESCAPE '\' OR phone LIKE $1 ESCAPE '\'
		ORDER BY created_at DESC, id DESC`, pattern)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
