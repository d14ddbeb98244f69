package model

import (
	"fmt"
	"strings"
	"time"
)

// Month identifies a calendar month. The zero value means "no month".
type Month struct {
	Year  int
	Month time.Month
}

var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	time.RFC3339,
	"2006/01",
	"01/2006",
}

// NewMonth creates a Month for the given year and calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	if t.IsZero() {
		return Month{}
	}
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM", "YYYY-MM-DD", RFC3339 and a couple of
// slash-separated variants into a Month.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Month{}, fmt.Errorf("empty month")
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return Month{}, fmt.Errorf("unrecognized month %q", s)
}

// MustParseMonth is ParseMonth for literals known to be valid.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// IsZero reports whether m is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Ordinal returns a monotonically increasing month number.
func (m Month) Ordinal() int {
	return m.Year*12 + int(m.Month) - 1
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	return m.Ordinal() < o.Ordinal()
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	ord := m.Ordinal() + n
	return Month{Year: ord / 12, Month: time.Month(ord%12 + 1)}
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// ShortName returns the three-letter month-of-year name, e.g. "Jan".
func (m Month) ShortName() string {
	return m.Month.String()[:3]
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = Month{}
		return nil
	}
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MonthsBetween returns the number of months from a to b.
func MonthsBetween(a, b Month) int {
	return b.Ordinal() - a.Ordinal()
}
