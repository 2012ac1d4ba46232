package models

import (
	"fmt"
	"time"
)

// Period enumerates the canonical report windows.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps the query-string value onto a Period, defaulting the empty
// string to today.
func ParsePeriod(raw string) (Period, error) {
	switch raw {
	case "", string(PeriodToday):
		return PeriodToday, nil
	case string(PeriodWeek):
		return PeriodWeek, nil
	case string(PeriodMonth):
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown report period %q", raw)
	}
}

// Window resolves the period to a concrete [start, end] range in the given
// location. Start is local midnight of the period anchor (today, the ISO week
// Monday, or the first of the month); end is now. Both endpoints are sent to
// the backend inclusively.
func (p Period) Window(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch p {
	case PeriodWeek:
		// ISO week starts on Monday; Go counts Sunday as 0.
		offset := int(midnight.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7
		}
		return midnight.AddDate(0, 0, -offset), local
	case PeriodMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc), local
	default:
		return midnight, local
	}
}
