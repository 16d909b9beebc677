package billing

import (
	"testing"
	"time"
)

func TestNextBillNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "B000001"},
		{"single", []string{"B000001"}, "B000002"},
		{"takes max not last", []string{"B000007", "B000003"}, "B000008"},
		{"unparseable count as zero", []string{"legacy", "B-12"}, "B000001"},
		{"mixed", []string{"oops", "B000041", "B000002"}, "B000042"},
		{"past six digits", []string{"B999999"}, "B1000000"},
		{"embedded match", []string{"XB000010Y"}, "B000011"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextBillNumber(tt.existing); got != tt.want {
				t.Errorf("NextBillNumber(%v) = %q, want %q", tt.existing, got, tt.want)
			}
		})
	}
}

func TestFallbackBillNumber(t *testing.T) {
	now := time.UnixMilli(1717000123456)
	if got := FallbackBillNumber(now); got != "B123456" {
		t.Errorf("FallbackBillNumber() = %q, want B123456", got)
	}

	small := time.UnixMilli(1717000000042)
	if got := FallbackBillNumber(small); got != "B000042" {
		t.Errorf("expected zero padding, got %q", got)
	}
}
