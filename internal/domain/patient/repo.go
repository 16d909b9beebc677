package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID returns ErrNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*Patient, error)
	// GetMany returns the patients that exist among ids, keyed by id.
	GetMany(ctx context.Context, ids []int64) (map[int64]*Patient, error)
	// List returns all patients, newest first.
	List(ctx context.Context) ([]*Patient, error)
	ListRecent(ctx context.Context, limit int) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, p *Patient) error
	// Delete returns ErrHasBills when bills still reference the patient.
	Delete(ctx context.Context, id int64) (bool, error)
	// Search matches first/last name case-insensitively and phone as a
	// substring, newest first.
	Search(ctx context.Context, query string) ([]*Patient, error)
}
