package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, item *ServiceItem) error
	GetByID(ctx context.Context, id int64) (*ServiceItem, error)
	// List returns every item, newest first.
	List(ctx context.Context) ([]*ServiceItem, error)
	Update(ctx context.Context, item *ServiceItem) error
	Delete(ctx context.Context, id int64) (bool, error)
}
