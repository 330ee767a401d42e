package date

import (
	"fmt"
	"strings"
)

// Period is a reporting bucket size.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod parses a period name; it accepts both "weekly" and "week"
// spellings.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month", "":
		return Monthly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}
