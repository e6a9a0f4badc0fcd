package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses a "YYYY-MM" string.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return MonthKey{}, fmt.Errorf("parse month %q: want YYYY-MM", s)
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil || year <= 0 || month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("parse month %q: want YYYY-MM", s)
	}
	return MonthKey{Year: year, Month: time.Month(month)}, nil
}

// String renders the key as "YYYY-MM".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// AddMonths returns the key n months later, rolling the year as needed.
func (k MonthKey) AddMonths(n int) MonthKey {
	total := k.Year*12 + int(k.Month) - 1 + n
	return MonthKey{Year: total / 12, Month: time.Month(total%12 + 1)}
}

// BandCalendar maps 1-based raster band indices to calendar months. ERA-5
// monthly files carry no per-band time metadata, so the mapping is derived
// from the configured start month under the assumption of consecutive,
// gap-free months. Built once per run and shared read-only across points.
type BandCalendar struct {
	months []MonthKey
	index  map[MonthKey]int
}

// NewBandCalendar derives the calendar for a raster with the given band
// count, anchored at start. Band 1 is labeled start; band N is labeled
// start advanced by N−1 months.
func NewBandCalendar(start MonthKey, bands int) *BandCalendar {
	c := &BandCalendar{
		months: make([]MonthKey, bands),
		index:  make(map[MonthKey]int, bands),
	}
	for i := 0; i < bands; i++ {
		key := start.AddMonths(i)
		c.months[i] = key
		c.index[key] = i + 1
	}
	return c
}

// Bands returns the number of bands the calendar covers.
func (c *BandCalendar) Bands() int { return len(c.months) }

// Label returns the month for a 1-based band index. The index must be in
// 1..Bands; band counts are trusted configuration.
func (c *BandCalendar) Label(band int) MonthKey { return c.months[band-1] }

// BandFor returns the 1-based band index holding the given month, or false
// when the month falls outside the raster's time span.
func (c *BandCalendar) BandFor(key MonthKey) (int, bool) {
	band, ok := c.index[key]
	return band, ok
}

// Months returns the ordered month labels, band 1 first. The slice is
// shared; callers must not modify it.
func (c *BandCalendar) Months() []MonthKey { return c.months }
