// Package cli provides the command-line interface for the bond viewer.
package cli

import (
	"time"

	"github.com/shopspring/decimal"

	"moex-bonds/internal/models"
	"moex-bonds/pkg/utils"
)

// FormatAmount renders a nullable money amount, Missing when absent.
func FormatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return models.Missing
	}
	return d.Decimal.String()
}

// FormatDate renders a schedule date in the exchange's date form.
func FormatDate(t time.Time) string {
	return utils.FormatISSDate(t)
}

// FormatDateTime renders a timestamp in Moscow time.
func FormatDateTime(t time.Time) string {
	return t.In(utils.MoscowLocation).Format("02-Jan-2006 15:04:05")
}

// StringOrMissing substitutes the Missing marker for empty strings.
func StringOrMissing(s string) string {
	if s == "" {
		return models.Missing
	}
	return s
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
