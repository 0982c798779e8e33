package enums

import "fmt"

// Period defines the cadence for billing and usage renewal.
type Period string

const (
	PeriodDaily      Period = "daily"
	PeriodWeekly     Period = "weekly"
	PeriodMonthly    Period = "monthly"
	PeriodQuarterly  Period = "quarterly"
	PeriodSemiannual Period = "semiannual"
	PeriodAnnual     Period = "annual"
	PeriodLifetime   Period = "lifetime"
)

var validPeriods = []Period{
	PeriodDaily,
	PeriodWeekly,
	PeriodMonthly,
	PeriodQuarterly,
	PeriodSemiannual,
	PeriodAnnual,
	PeriodLifetime,
}

var periodDays = map[Period]int{
	PeriodDaily:      1,
	PeriodWeekly:     7,
	PeriodMonthly:    30,
	PeriodQuarterly:  92,
	PeriodSemiannual: 183,
	PeriodAnnual:     365,
}

// String implements fmt.Stringer.
func (p Period) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Period.
func (p Period) IsValid() bool {
	for _, candidate := range validPeriods {
		if candidate == p {
			return true
		}
	}
	return false
}

// Days returns the cycle length in days. Lifetime has no cycle and returns 0.
func (p Period) Days() int {
	return periodDays[p]
}

// ParsePeriod converts raw input into a Period.
func ParsePeriod(value string) (Period, error) {
	for _, candidate := range validPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid period %q", value)
}

// AllPeriods returns the known periods in declaration order.
func AllPeriods() []Period {
	out := make([]Period, len(validPeriods))
	copy(out, validPeriods)
	return out
}
