// Package billdate implements the calendar-date codec used on bills:
// the storage/display form is "DD/MM/YYYY" and every "current date" or
// creation timestamp is taken in one fixed reference zone so that
// date-only ordering and timestamp ordering agree for bills created today.
package billdate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
)

// ErrInvalidDate reports input that is not a valid DD/MM/YYYY date.
var ErrInvalidDate = errors.New("invalid_date")

const referenceZone = "Asia/Kolkata"

var zone = loadZone()

func loadZone() *time.Location {
	loc, err := time.LoadLocation(referenceZone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// Zone returns the fixed reference time zone.
func Zone() *time.Location {
	return zone
}

// Date is a calendar date with no time-of-day component. The zero value
// is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse decodes a DD/MM/YYYY string. The separator split is explicit so
// behavior never depends on a locale-aware parser, and impossible dates
// (31/02/2024) are rejected rather than normalized.
func Parse(value string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	day, err := atoiStrict(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	month, err := atoiStrict(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	year, err := atoiStrict(parts[2])
	if err != nil || len(parts[2]) != 4 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func atoiStrict(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidDate
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidDate
		}
	}
	return strconv.Atoi(s)
}

// String encodes the date back to its canonical DD/MM/YYYY form.
// String(Parse(s)) == s for every valid input.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// SortKey returns the ISO yyyy-mm-dd form. Lexicographic order of sort
// keys matches calendar order, which is what the store's date index
// columns rely on.
func (d Date) SortKey() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare orders two dates: -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Between reports whether d falls inside [from, to], bounds inclusive.
func (d Date) Between(from, to Date) bool {
	return d.Compare(from) >= 0 && d.Compare(to) <= 0
}

// FromTime converts an instant to the calendar date it falls on in the
// reference zone.
func FromTime(t time.Time) Date {
	local := t.In(zone)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Today returns the current calendar date in the reference zone.
func Today(c clock.Clock) Date {
	return FromTime(c.Now())
}

// Timestamp returns the current instant normalized to the reference
// zone. Derived from the same clock reading Today uses, so a bill
// stamped "now" sorts consistently under both date and timestamp order.
func Timestamp(c clock.Clock) time.Time {
	return c.Now().In(zone)
}
