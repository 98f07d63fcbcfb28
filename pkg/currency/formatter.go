package currency

import (
	"fmt"
	"math"
)

// FormatUSD renders whole dollars with thousands separators, e.g. "$1,250".
func FormatUSD(amount float64) string {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	intStr := fmt.Sprintf("%.0f", rounded)
	result := "$" + addThousandsSeparator(intStr, ",")
	if negative {
		result = "-" + result
	}

	return result
}

// Format falls back to an ISO-prefixed amount for currencies without a symbol here.
func Format(code string, amount float64) string {
	if code == "" || code == "USD" {
		return FormatUSD(amount)
	}
	return code + " " + addThousandsSeparator(fmt.Sprintf("%.0f", math.Round(amount)), ",")
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
