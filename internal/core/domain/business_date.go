package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ResolveBusinessDate returns the business date open at now in loc: today, unless
// the local clock reads before cutoverHour, in which case yesterday. The result
// is a calendar date at UTC midnight.
func ResolveBusinessDate(now time.Time, loc *time.Location, cutoverHour int) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	if local.Hour() < cutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDate truncates t to its calendar date at UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow returns the [start, end) instants of a calendar date in loc.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// RoundMoney rounds an amount to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
