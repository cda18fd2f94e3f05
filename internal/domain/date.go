package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateFormat is the dd.mm.yyyy layout used by the text store and quiz titles.
const DateFormat = "02.01.2006"

// isoDate is the layout used by the relational store and the HTTP API.
const isoDate = "2006-01-02"

var dateRe = regexp.MustCompile(`^\s*(\d{1,2})[._](\d{1,2})[._](\d{4})`)

// ParseDate extracts a calendar date from strings such as "21.03.2021",
// "21_03_2021" or "21.03.2021.txt" (trailing text is ignored).
// With swap set, the first field is read as the month and the second as the day.
func ParseDate(s string, swap bool) (time.Time, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a dd.mm.yyyy date", ErrValidation, s)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if swap {
		day, month = month, day
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid calendar date", ErrValidation, s)
	}
	return d, nil
}

// FormatDate renders a date in DateFormat.
func FormatDate(d time.Time) string {
	return d.Format(DateFormat)
}

// ParseISODate parses a yyyy-mm-dd date as used by the HTTP API.
func ParseISODate(s string) (time.Time, error) {
	d, err := time.Parse(isoDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a yyyy-mm-dd date", ErrValidation, s)
	}
	return d, nil
}

// Truncate drops the clock part so dates compare by calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}
