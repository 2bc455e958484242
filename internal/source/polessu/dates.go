package polessu

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const shortDateLayout = "02.01"

var (
	ErrUnknownWeekday = errors.New("unknown weekday")
	ErrBadWeekStart   = errors.New("malformed week start")
)

var weekdayOffsets = map[string]int{
	"понедельник": 0,
	"вторник":     1,
	"среда":       2,
	"четверг":     3,
	"пятница":     4,
	"суббота":     5,
	"воскресенье": 6,

	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// WeekdayOffset returns the number of days between Monday and day, or -1.
func WeekdayOffset(day string) int {
	offset, ok := weekdayOffsets[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return -1
	}
	return offset
}

// ResolveDate returns the DD.MM date of dayOfWeek in the week starting at
// weekStart (DD.MM). The page never states a year, so it is taken from now.
func ResolveDate(weekStart, dayOfWeek string, now time.Time) (string, error) {
	offset := WeekdayOffset(dayOfWeek)
	if offset < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownWeekday, dayOfWeek)
	}

	start, err := time.Parse(shortDateLayout, strings.TrimSpace(weekStart))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadWeekStart, weekStart)
	}

	year := weekYear(start.Month(), now)
	date := time.Date(year, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return date.Format(shortDateLayout), nil
}

// weekYear picks the year closest to now for a year-less month, so that a
// December week read in January lands in the previous year and vice versa.
func weekYear(month time.Month, now time.Time) int {
	year := now.Year()
	switch diff := int(month) - int(now.Month()); {
	case diff > 6:
		year--
	case diff < -6:
		year++
	}
	return year
}
