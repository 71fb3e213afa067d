package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/core"
)

func d(s string) core.Date { return core.MustParseDate(s) }

func TestGeneratePeriods(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		g    core.Granularity
		want [][2]string
	}{
		{
			name: "months across partial range",
			from: "2025-01-15", to: "2025-03-03", g: core.Month,
			want: [][2]string{{"2025-01-01", "2025-01-31"}, {"2025-02-01", "2025-02-28"}, {"2025-03-01", "2025-03-31"}},
		},
		{
			name: "leap february",
			from: "2024-02-10", to: "2024-02-10", g: core.Month,
			want: [][2]string{{"2024-02-01", "2024-02-29"}},
		},
		{
			name: "month across year end",
			from: "2024-12-31", to: "2025-01-01", g: core.Month,
			want: [][2]string{{"2024-12-01", "2024-12-31"}, {"2025-01-01", "2025-01-31"}},
		},
		{
			name: "quarters",
			from: "2025-02-10", to: "2025-08-01", g: core.Quarter,
			want: [][2]string{{"2025-01-01", "2025-03-31"}, {"2025-04-01", "2025-06-30"}, {"2025-07-01", "2025-09-30"}},
		},
		{
			name: "quarter across year end",
			from: "2024-11-01", to: "2025-01-01", g: core.Quarter,
			want: [][2]string{{"2024-10-01", "2024-12-31"}, {"2025-01-01", "2025-03-31"}},
		},
		{
			name: "years",
			from: "2023-06-01", to: "2024-01-01", g: core.Year,
			want: [][2]string{{"2023-01-01", "2023-12-31"}, {"2024-01-01", "2024-12-31"}},
		},
		{
			name: "inverted range",
			from: "2025-02-01", to: "2025-01-01", g: core.Month,
			want: nil,
		},
		{
			name: "invalid granularity",
			from: "2025-01-01", to: "2025-02-01", g: core.Granularity("week"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePeriods(d(tt.from), d(tt.to), tt.g)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w[0], got[i].Start.String())
				assert.Equal(t, w[1], got[i].End.String())
			}
		})
	}
}

func TestGeneratePeriodsCoverage(t *testing.T) {
	start := d("2023-11-17")
	for _, g := range []core.Granularity{core.Month, core.Quarter, core.Year} {
		for days := 0; days < 800; days += 37 {
			from, to := start, start.AddDays(days)
			periods := GeneratePeriods(from, to, g)
			require.NotEmpty(t, periods)

			assert.False(t, periods[0].Start.After(from), "%s: first start after from", g)
			assert.False(t, periods[len(periods)-1].End.Before(to), "%s: last end before to", g)
			for i := range periods {
				assert.False(t, periods[i].End.Before(periods[i].Start))
				assert.True(t, periods[i].Start.Equal(Truncate(periods[i].Start, g)))
				if i > 0 {
					assert.True(t, periods[i].Start.Equal(periods[i-1].End.AddDays(1)), "%s: gap or overlap at %d", g, i)
				}
			}
		}
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "2025-05-01", Truncate(d("2025-05-31"), core.Month).String())
	assert.Equal(t, "2025-04-01", Truncate(d("2025-05-31"), core.Quarter).String())
	assert.Equal(t, "2025-10-01", Truncate(d("2025-12-31"), core.Quarter).String())
	assert.Equal(t, "2025-01-01", Truncate(d("2025-05-31"), core.Year).String())
}

func TestRunningAverage(t *testing.T) {
	var avg runningAverage
	assert.True(t, avg.value().IsZero())

	avg.observe(decimal.RequireFromString("10.00"))
	avg.observe(decimal.Zero)
	avg.observe(decimal.RequireFromString("-5"))
	assert.Equal(t, "10.00", avg.value().StringFixed(2))

	// (10.00 + 10.01) / 2 = 10.005 rounds half-up
	avg.observe(decimal.RequireFromString("10.01"))
	assert.Equal(t, "10.01", avg.value().StringFixed(2))
}
