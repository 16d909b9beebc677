package catalog

import (
	"time"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
	"github.com/amit001112/HospitalBilling/pkg/money"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var ErrNotFound = apperr.NotFound("Service item not found")

// ServiceItem is a billable service in the price list. Bills copy its
// description and price by value; there is no reference back.
type ServiceItem struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Price       money.Amount `json:"price"`
	Category    *string      `json:"category"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type CreateInput struct {
	Name        string        `json:"name" validate:"notblank"`
	Description *string       `json:"description"`
	Price       *money.Amount `json:"price" validate:"required"`
	Category    *string       `json:"category"`
	Status      Status        `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateInput changes only non-nil fields.
type UpdateInput struct {
	Name        *string       `json:"name" validate:"omitnil,notblank"`
	Description *string       `json:"description"`
	Price       *money.Amount `json:"price"`
	Category    *string       `json:"category"`
	Status      *Status       `json:"status" validate:"omitnil,oneof=active inactive"`
}

func checkPrice(p *money.Amount) error {
	if p != nil && p.IsNegative() {
		return apperr.Validation(apperr.Field("Price must not be negative", "price"))
	}
	return nil
}

func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
