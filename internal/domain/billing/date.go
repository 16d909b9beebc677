package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidDate is returned when a bill date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Layouts accepted for a bill date. Values without a zone are read in the
// server's local zone, except date-only values which are midnight UTC.
var (
	zonedLayouts = []string{time.RFC3339Nano}
	localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}
	dateOnly     = "2006-01-02"
)

// Date is a bill date decoded from an ISO 8601 string, either a full
// timestamp or a plain calendar date.
type Date time.Time

func ParseDate(s string) (Date, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Date(t), nil
		}
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return Date(t), nil
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return ErrInvalidDate
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
