package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a value in Brazilian currency style: "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	sign, intPart, fracPart := split(v)
	return sign + "R$ " + group(intPart, ".") + "," + fracPart
}

// FormatUSD renders a value in US currency style: "$1,234.56".
func FormatUSD(v decimal.Decimal) string {
	sign, intPart, fracPart := split(v)
	return sign + "$" + group(intPart, ",") + "." + fracPart
}

func split(v decimal.Decimal) (sign, intPart, fracPart string) {
	s := v.StringFixed(2)
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	return sign, s[:dot], s[dot+1:]
}

func group(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
