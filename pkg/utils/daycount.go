package utils

import (
	"time"
)

// Day count conventions.
const (
	DayCountActActISDA = "ACT/ACT"
	DayCountAct365F    = "ACT/365F"
	DayCountAct360     = "ACT/360"
)

// YearFraction computes the year fraction between two dates using the
// specified day count convention.
// Supported conventions: ACT/ACT (ISDA), ACT/365F, ACT/360.
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case DayCountActActISDA:
		return actActISDA(start, end)
	case DayCountAct360:
		return daysBetween(start, end) / 360.0
	case DayCountAct365F:
		return daysBetween(start, end) / 365.0
	default:
		return daysBetween(start, end) / 365.0
	}
}

// actActISDA splits the period at calendar-year boundaries; each slice is
// divided by the actual length of its own year.
func actActISDA(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	y1, y2 := start.Year(), end.Year()
	if y1 == y2 {
		return daysBetween(start, end) / daysInYear(y1)
	}

	startYearEnd := time.Date(y1+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	endYearStart := time.Date(y2, time.January, 1, 0, 0, 0, 0, time.UTC)

	frac := daysBetween(start, startYearEnd) / daysInYear(y1)
	frac += float64(y2 - y1 - 1)
	frac += daysBetween(endYearStart, end) / daysInYear(y2)
	return frac
}

func daysBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

func daysInYear(year int) float64 {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
