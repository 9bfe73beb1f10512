package date

import (
	"fmt"
	"strings"
	"time"
)

// MonthFormat is the canonical representation of a YearMonth.
const MonthFormat = "2006-01"

// legacyMonthFormat is the long month name form ("October 2024") found in
// older state files.
const legacyMonthFormat = "January 2006"

// YearMonth identifies a calendar month. It is the key of the monthly history.
type YearMonth struct {
	y int
	m time.Month
}

// NewYearMonth returns a normalized YearMonth.
func NewYearMonth(year int, month time.Month) YearMonth {
	return New(year, month, 1).YearMonth()
}

// Year returns the year.
func (ym YearMonth) Year() int { return ym.y }

// Month returns the month of the year.
func (ym YearMonth) Month() time.Month { return ym.m }

// First returns the first day of the month.
func (ym YearMonth) First() Date { return New(ym.y, ym.m, 1) }

// Last returns the last day of the month.
func (ym YearMonth) Last() Date { return New(ym.y, ym.m+1, 0) }

// Add returns the month n months after ym (before if n is negative).
func (ym YearMonth) Add(n int) YearMonth { return NewYearMonth(ym.y, ym.m+time.Month(n)) }

// Contains reports whether d falls within the month.
func (ym YearMonth) Contains(d Date) bool { return d.y == ym.y && d.m == ym.m }

// Before reports whether ym is before x.
func (ym YearMonth) Before(x YearMonth) bool {
	return ym.y < x.y || (ym.y == x.y && ym.m < x.m)
}

// IsZero reports whether ym is the zero YearMonth.
func (ym YearMonth) IsZero() bool { return ym == YearMonth{} }

// String formats the month as YYYY-MM.
func (ym YearMonth) String() string { return ym.First().Format(MonthFormat) }

// Label returns a human readable name such as "October 2024".
func (ym YearMonth) Label() string { return ym.First().Format(legacyMonthFormat) }

// ParseYearMonth parses "2024-10" (or "2024-1"). When legacy is true the
// long form "October 2024" was used.
func ParseYearMonth(str string) (ym YearMonth, legacy bool, err error) {
	str = strings.TrimSpace(str)
	if t, err := time.Parse("2006-1", str); err == nil {
		return NewYearMonth(t.Year(), t.Month()), false, nil
	}
	if t, err := time.Parse(legacyMonthFormat, str); err == nil {
		return NewYearMonth(t.Year(), t.Month()), true, nil
	}
	return YearMonth{}, false, fmt.Errorf("invalid month %q want format %q", str, "YYYY-MM")
}

// MustParseYearMonth is like ParseYearMonth but panics on error.
func MustParseYearMonth(str string) YearMonth {
	ym, _, err := ParseYearMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return ym
}
