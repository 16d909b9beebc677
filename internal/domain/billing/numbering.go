package billing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// FirstBillNumber is issued when no bills exist yet.
const FirstBillNumber = "B000001"

var billNumberPattern = regexp.MustCompile(`B(\d+)`)

// NextBillNumber returns the number following the highest sequence among
// existing. Values that do not parse count as zero.
func NextBillNumber(existing []string) string {
	if len(existing) == 0 {
		return FirstBillNumber
	}
	var highest int64
	for _, n := range existing {
		m := billNumberPattern.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		seq, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return fmt.Sprintf("B%06d", highest+1)
}

// FallbackBillNumber derives a number from the last six digits of the Unix
// millisecond clock. It is used only when existing numbers cannot be read.
func FallbackBillNumber(now time.Time) string {
	return fmt.Sprintf("B%06d", now.UnixMilli()%1_000_000)
}
