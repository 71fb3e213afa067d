package analytics

import "wallet/internal/core"

// Truncate returns the first day of the period of granularity g containing d.
// Quarters start in January, April, July and October.
func Truncate(d core.Date, g core.Granularity) core.Date {
	switch g {
	case core.Year:
		return core.NewDate(d.Year(), 1, 1)
	case core.Quarter:
		return core.NewDate(d.Year(), (d.Month()-1)/3*3+1, 1)
	default:
		return core.NewDate(d.Year(), d.Month(), 1)
	}
}

func step(g core.Granularity) int {
	switch g {
	case core.Year:
		return 12
	case core.Quarter:
		return 3
	default:
		return 1
	}
}

// GeneratePeriods splits [from, to] into consecutive calendar periods. The
// first period starts at the boundary at or before from and the last one ends
// at the boundary at or after to, so the result covers the range without gaps
// or overlaps. It returns nil when from is after to or g is not valid.
func GeneratePeriods(from, to core.Date, g core.Granularity) []core.Period {
	if from.After(to) || g.Validate() != nil {
		return nil
	}
	months := step(g)

	var periods []core.Period
	for start := Truncate(from, g); !start.After(to); {
		next := start.AddMonths(months)
		periods = append(periods, core.Period{Start: start, End: next.AddDays(-1)})
		start = next
	}
	return periods
}
