package catalog

import (
	"context"
	"strings"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
)

type Validator interface {
	Validate(i interface{}) error
}

type Service struct {
	repo     Repository
	validate Validator
}

func NewService(repo Repository, v Validator) *Service {
	return &Service{repo: repo, validate: v}
}

func (s *Service) CreateServiceItem(ctx context.Context, in *CreateInput) (*ServiceItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusActive
	}
	it := &ServiceItem{
		Name:        in.Name,
		Description: optional(in.Description),
		Price:       *in.Price,
		Category:    optional(in.Category),
		Status:      status,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) GetServiceItem(ctx context.Context, id int64) (*ServiceItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListServiceItems(ctx context.Context) ([]*ServiceItem, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateServiceItem(ctx context.Context, id int64, in *UpdateInput) (*ServiceItem, error) {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Description != nil {
		it.Description = optional(in.Description)
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	if in.Category != nil {
		it.Category = optional(in.Category)
	}
	if in.Status != nil {
		it.Status = *in.Status
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) DeleteServiceItem(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// Seed inserts items when the catalog is empty and returns how many were added.
func (s *Service) Seed(ctx context.Context, items []CreateInput) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for i := range items {
		if _, err := s.CreateServiceItem(ctx, &items[i]); err != nil {
			return n, apperr.Wrap(err, "seed service items")
		}
		n++
	}
	return n, nil
}
