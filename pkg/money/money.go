// Package money holds the two-decimal monetary amount used for prices and
// bill totals.
package money

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every Amount is rounded to.
const Places = 2

// Amount is a decimal value rounded half away from zero to two places.
// It marshals to JSON as a fixed two-decimal string ("123.00") and accepts
// either a JSON number or a numeric string on input.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

func New(d decimal.Decimal) Amount {
	return Amount{d: d.Round(Places)}
}

// FromCents builds an amount from an integer number of minor units.
func FromCents(cents int64) Amount {
	return Amount{d: decimal.New(cents, -Places)}
}

func FromFloat(f float64) Amount {
	return New(decimal.NewFromFloat(f))
}

func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return New(d), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return New(a.d.Add(b.d)) }

func (a Amount) Sub(b Amount) Amount { return New(a.d.Sub(b.d)) }

// Times multiplies by an integer quantity.
func (a Amount) Times(qty int64) Amount { return New(a.d.Mul(decimal.NewFromInt(qty))) }

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) IsZero() bool { return a.d.IsZero() }

// Float64 is for JSON fields that must be numbers, such as dashboard revenue.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Amount) String() string { return a.d.StringFixed(Places) }

// Sum adds amounts.
func Sum(amounts ...Amount) Amount {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.d)
	}
	return New(total)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Zero
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = Zero
			return nil
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or numeric string: %w", err)
	}
	parsed, err := Parse(n.String())
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (a *Amount) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	*a = New(d)
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}
