// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatGrouped formats a number with comma thousands separators and the
// given number of decimal places.
func FormatGrouped(value float64, decimals int) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%.*f", decimals, value)
	intPart := str
	decPart := ""
	if i := strings.IndexByte(str, '.'); i >= 0 {
		intPart = str[:i]
		decPart = str[i+1:]
	}

	grouped := groupThousands(intPart)

	result := grouped
	if decPart != "" {
		result = grouped + "." + decPart
	}
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands splits an integer string into comma-separated groups of three.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 3 {
			result = s[len(s)-3:] + "," + result
			s = s[:len(s)-3]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatBillions renders a rouble amount in billions, e.g. "12.5 млрд".
func FormatBillions(amount float64) string {
	return FormatGrouped(amount/1e9, 1) + " млрд"
}

// FormatMillions renders a rouble amount in millions, e.g. "3.4 млн".
func FormatMillions(amount float64) string {
	return FormatGrouped(amount/1e6, 1) + " млн"
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatQuantity formats a quantity with comma separators.
func FormatQuantity(qty int64) string {
	return groupThousands(fmt.Sprintf("%d", qty))
}
