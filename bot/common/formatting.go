package common

import (
	"fmt"
	"strings"
)

// FormatThousands formats a whole number with thousand separators
func FormatThousands(n int64) string {
	if n < 0 {
		return "-" + FormatThousands(-n)
	}
	str := fmt.Sprintf("%d", n)

	count := len(str)
	if count <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (count-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatAmount renders a dollar amount with separators and cents
func FormatAmount(amount float64) string {
	cents := int64(amount*100 + 0.5)
	if amount < 0 {
		cents = int64(amount*100 - 0.5)
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, FormatThousands(cents/100), cents%100)
}
