package utils

import (
	"time"
)

// ISSDateLayout is the date layout used by the MOEX ISS API.
const ISSDateLayout = "2006-01-02"

// MoscowLocation is the timezone of the Moscow Exchange.
var MoscowLocation *time.Location

func init() {
	var err error
	MoscowLocation, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Fallback to UTC+3
		MoscowLocation = time.FixedZone("MSK", 3*60*60)
	}
}

// NowMoscow returns the current exchange time.
func NowMoscow() time.Time {
	return time.Now().In(MoscowLocation)
}

// TradeDate truncates a time to its exchange-calendar date, midnight UTC.
// ISS dates carry no time component, so schedule arithmetic runs on
// UTC-midnight dates throughout.
func TradeDate(t time.Time) time.Time {
	t = t.In(MoscowLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HistoryWindow returns the from/till query dates covering the last
// `days` calendar days up to now, formatted for the ISS history endpoint.
func HistoryWindow(now time.Time, days int) (from, till string) {
	d := TradeDate(now)
	return d.AddDate(0, 0, -days).Format(ISSDateLayout), d.Format(ISSDateLayout)
}

// ParseISSDate parses an ISS "YYYY-MM-DD" date into midnight UTC.
func ParseISSDate(s string) (time.Time, error) {
	return time.Parse(ISSDateLayout, s)
}

// FormatISSDate renders a date in the ISS layout.
func FormatISSDate(t time.Time) string {
	return t.Format(ISSDateLayout)
}
