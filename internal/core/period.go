package core

import "strings"

const (
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// Granularity selects the calendar bucket size used by reports.
type Granularity string

// ParseGranularity accepts month, quarter or year. An empty value means month.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if g == "" {
		return Month, nil
	}
	if err := g.Validate(); err != nil {
		return "", err
	}
	return g, nil
}

func (g Granularity) Validate() error {
	switch g {
	case Month, Quarter, Year:
		return nil
	default:
		return ErrInvalidGranularity
	}
}

func (g Granularity) String() string {
	return string(g)
}

// Period is a closed calendar range [Start, End].
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the period, bounds included.
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Key identifies the period by its first day.
func (p Period) Key() string {
	return p.Start.String()
}
