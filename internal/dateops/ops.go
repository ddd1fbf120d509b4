package dateops

import "time"

// SameDay reports whether a and b are the same calendar day.
func SameDay(a, b Date) bool {
	return a.t.Equal(b.t)
}

// IsAfter reports whether a is a later day than b.
func IsAfter(a, b Date) bool {
	return a.t.After(b.t)
}

// IsBefore reports whether a is an earlier day than b.
func IsBefore(a, b Date) bool {
	return a.t.Before(b.t)
}

// IsToday reports whether d is today.
func IsToday(d, today Date) bool {
	return !d.IsZero() && SameDay(d, today)
}

// IsTomorrow reports whether d is the day after today.
func IsTomorrow(d, today Date) bool {
	return !d.IsZero() && SameDay(d, AddDays(today, 1))
}

// IsPastStrict reports whether d is strictly before today. The zero Date is
// never in the past.
func IsPastStrict(d, today Date) bool {
	return !d.IsZero() && IsBefore(d, today)
}

// AddDays returns d shifted by n days.
func AddDays(d Date, n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddWeeks returns d shifted by n weeks.
func AddWeeks(d Date, n int) Date {
	return AddDays(d, 7*n)
}

// AddMonths returns d shifted by n months. When the target month is shorter
// than d's day of month the result is clamped to that month's last day, so
// Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(d Date, n int) Date {
	y, m, day := d.t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

// SameMonth reports whether a and b fall in the same month of the same year.
func SameMonth(a, b Date) bool {
	ay, am, _ := a.t.Date()
	by, bm, _ := b.t.Date()
	return ay == by && am == bm
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d Date) Date {
	y, m, _ := d.t.Date()
	return New(y, m, 1)
}

// EndOfMonth returns the last day of d's month.
func EndOfMonth(d Date) Date {
	y, m, _ := d.t.Date()
	return New(y, m, daysIn(y, m))
}

// MonthGrid returns every day of the Sunday-first week rows that cover the
// month containing d, from the Sunday on or before the 1st to the Saturday
// on or after the last day. The result always has a multiple of seven days.
func MonthGrid(d Date) []Date {
	first := StartOfMonth(d)
	last := EndOfMonth(d)
	start := AddDays(first, -int(first.Weekday()))
	end := AddDays(last, int(time.Saturday-last.Weekday()))

	days := make([]Date, 0, 42)
	for cur := start; !IsAfter(cur, end); cur = AddDays(cur, 1) {
		days = append(days, cur)
	}
	return days
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
