package accounting

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
		"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN", "SEVENTEEN", "EIGHTEEN", "NINETEEN"}
	tens = []string{"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY"}
)

// indian scale, largest first
var scales = []struct {
	size int64
	name string
}{
	{10_000_000, "CRORE"},
	{100_000, "LAKH"},
	{1_000, "THOUSAND"},
	{100, "HUNDRED"},
}

// AmountInWords renders an amount in rupees and paise on the Indian numbering scale, e.g.
// 1050.25 → "ONE THOUSAND FIFTY RUPEES AND TWENTY FIVE PAISE ONLY". Negative amounts get a
// leading "MINUS".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	var b strings.Builder
	if amount.IsNegative() {
		b.WriteString("MINUS ")
		amount = amount.Neg()
	}
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(hundred).IntPart()

	if rupees == 0 {
		b.WriteString("ZERO")
	} else {
		b.WriteString(numberToWords(rupees))
	}
	b.WriteString(" RUPEES")
	if paise > 0 {
		b.WriteString(" AND ")
		b.WriteString(numberToWords(paise))
		b.WriteString(" PAISE")
	}
	b.WriteString(" ONLY")
	return b.String()
}

// numberToWords spells n > 0. Multiples of a crore recurse, so 1500 crore reads
// "ONE THOUSAND FIVE HUNDRED CRORE".
func numberToWords(n int64) string {
	var parts []string
	for _, s := range scales {
		if n >= s.size {
			parts = append(parts, numberToWords(n/s.size), s.name)
			n %= s.size
		}
	}
	if n >= 20 {
		parts = append(parts, tens[n/10])
		n %= 10
	}
	if n > 0 {
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}
