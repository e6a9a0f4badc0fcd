package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBandCalendar_YearRollover(t *testing.T) {
	c := NewBandCalendar(MonthKey{Year: 2020, Month: time.November}, 4)

	require.Equal(t, 4, c.Bands())
	assert.Equal(t, MonthKey{Year: 2020, Month: time.November}, c.Label(1))
	assert.Equal(t, MonthKey{Year: 2020, Month: time.December}, c.Label(2))
	assert.Equal(t, MonthKey{Year: 2021, Month: time.January}, c.Label(3))
	assert.Equal(t, MonthKey{Year: 2021, Month: time.February}, c.Label(4))
}

func TestNewBandCalendar_LastBandOffset(t *testing.T) {
	start := MonthKey{Year: 2018, Month: time.January}
	c := NewBandCalendar(start, 96) // 2018-01 through 2025-12

	assert.Equal(t, start, c.Label(1))
	assert.Equal(t, start.AddMonths(95), c.Label(96))
	assert.Equal(t, MonthKey{Year: 2025, Month: time.December}, c.Label(96))
}

func TestBandCalendar_BandFor(t *testing.T) {
	c := NewBandCalendar(MonthKey{Year: 2020, Month: time.November}, 10)

	band, ok := c.BandFor(MonthKey{Year: 2021, Month: time.June})
	require.True(t, ok)
	assert.Equal(t, 8, band)

	_, ok = c.BandFor(MonthKey{Year: 2019, Month: time.January})
	assert.False(t, ok, "month before raster span")

	_, ok = c.BandFor(MonthKey{Year: 2021, Month: time.September})
	assert.False(t, ok, "month after raster span")
}

func TestBandCalendar_MonthsOrdering(t *testing.T) {
	c := NewBandCalendar(MonthKey{Year: 2021, Month: time.October}, 5)

	months := c.Months()
	require.Len(t, months, 5)
	for i := 1; i < len(months); i++ {
		assert.Equal(t, months[i-1].AddMonths(1), months[i])
	}
}

func TestMonthKey_String(t *testing.T) {
	assert.Equal(t, "2021-06", MonthKey{Year: 2021, Month: time.June}.String())
	assert.Equal(t, "0985-12", MonthKey{Year: 985, Month: time.December}.String())
}

func TestMonthKey_AddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    MonthKey
		n        int
		expected MonthKey
	}{
		{"same month", MonthKey{2020, time.May}, 0, MonthKey{2020, time.May}},
		{"within year", MonthKey{2020, time.May}, 3, MonthKey{2020, time.August}},
		{"rollover", MonthKey{2020, time.December}, 1, MonthKey{2021, time.January}},
		{"multiple years", MonthKey{2018, time.January}, 25, MonthKey{2020, time.February}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.start.AddMonths(tt.n))
		})
	}
}

func TestParseMonthKey(t *testing.T) {
	key, err := ParseMonthKey("2018-01")
	require.NoError(t, err)
	assert.Equal(t, MonthKey{Year: 2018, Month: time.January}, key)

	key, err = ParseMonthKey(" 2020-11 ")
	require.NoError(t, err)
	assert.Equal(t, MonthKey{Year: 2020, Month: time.November}, key)

	for _, bad := range []string{"", "2018", "2018-13", "2018-00", "abcd-01", "-2018-01"} {
		_, err := ParseMonthKey(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
