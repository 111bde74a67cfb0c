package service

import "github.com/shopspring/decimal"

// roundCents rounds a float64 amount to 2 decimals using decimal arithmetic,
// avoiding the half-cent drift of math.Round(v*100)/100.
func roundCents(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// formatUSD renders an amount as "$1,234.56".
func formatUSD(value float64) string {
	d := decimal.NewFromFloat(value).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var out []byte
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return sign + "$" + string(out) + frac
}

// ceilCents rounds up to the next cent, so a payment computed from it never
// falls short.
func ceilCents(value float64) float64 {
	return decimal.NewFromFloat(value).RoundCeil(2).InexactFloat64()
}
