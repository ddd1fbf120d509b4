// Package dateops provides date-only values and the comparison and
// arithmetic primitives the rest of taskflow is built on.
//
// A Date carries no time-of-day and no time zone. All comparisons happen at
// calendar-day granularity, so callers never have to normalize clock times
// themselves once a value has been turned into a Date.
package dateops

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Layout is the wire format of a Date (e.g., "2024-01-31").
const Layout = "2006-01-02"

// Date is a calendar day. The zero value means "no date".
type Date struct {
	// t is always midnight UTC of the represented day.
	t time.Time
}

// New returns the Date for the given year, month and day. Out-of-range
// values normalize the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a "YYYY-MM-DD" string. Surrounding whitespace is ignored and
// an empty string yields the zero Date.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MonthLayout is the format of a calendar month (e.g., "2024-02").
const MonthLayout = "2006-01"

// ParseMonth parses a "YYYY-MM" string and returns the first day of that
// month.
func ParseMonth(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Date{t: t}, nil
}

// IsZero reports whether d is the absent date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats d as "YYYY-MM-DD", or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// Format formats d with a time.Format layout.
func (d Date) Format(layout string) string {
	return d.t.Format(layout)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return d.t
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// MarshalJSON encodes d as a "YYYY-MM-DD" string ("" when absent).
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes d as its string form.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes a "YYYY-MM-DD" scalar.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("date must be a scalar, got YAML kind %d", value.Kind)
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
