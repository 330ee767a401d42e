// Package date provides a day-granularity civil date and the reporting
// periods used to bucket sales and expenses.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the canonical ISO-8601 day representation used everywhere a date
// is stored or exchanged.
const Format = "2006-01-02"

// readFormat is more permissive on read, accepting single-digit month/day.
const readFormat = "2006-1-2"

// Date represents a calendar day with no time component.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Parse parses a Date from a string. It is lenient and accepts forms like
// "2024-7-1" in addition to "2024-07-01".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// time returns the canonical time.Time for the day (midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// String formats the date in its canonical YYYY-MM-DD form.
func (d Date) String() string { return d.time().Format(Format) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// WeekStart returns the Monday of the week containing d. A Sunday belongs to
// the week that started the previous Monday, not the following one.
func (d Date) WeekStart() Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.Add(-offset)
}

// MonthKey returns the calendar-month bucket key, the first seven characters
// of the canonical form ("2024-01").
func (d Date) MonthKey() string { return d.String()[:7] }

// MonthLabel returns a human-readable month/year label ("January 2024").
func (d Date) MonthLabel() string { return d.time().Format("January 2006") }

// DayLabel returns a short human-readable label ("Jan 2").
func (d Date) DayLabel() string { return d.time().Format("Jan 2") }

// WeekdayLabel returns the abbreviated weekday name ("Mon").
func (d Date) WeekdayLabel() string { return d.time().Format("Mon") }

// MarshalJSON encodes the date as its canonical string.
func (d Date) MarshalJSON() ([]byte, error) {
	s := d.String()
	return json.Marshal(&s)
}

// UnmarshalJSON decodes a date from a JSON string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
