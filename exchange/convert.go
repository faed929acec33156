package exchange

import (
	"fmt"
	"go-currency-converter/domain"
	"math"
)

// Unavailable is the conversion result when the amount does not parse or a rate is missing
const Unavailable = "0.00"

// Convert converts amountText from one currency to another through the base currency
// of rates: amount / rates[from] * rates[to], formatted with two decimals.
// It never fails; anything it cannot compute yields Unavailable. That includes
// non-finite values: "NaN" and "Inf" amounts, and results that overflow or
// divide by a zero rate.
func Convert(amountText string, from domain.Currency, to domain.Currency, rates domain.Rates) string {
	amount, ok := domain.ParseAmount(amountText)
	if !ok {
		return Unavailable
	}

	fromRate, ok := rates[from]
	if !ok {
		return Unavailable
	}
	toRate, ok := rates[to]
	if !ok {
		return Unavailable
	}

	inBase := float64(amount) / float64(fromRate)
	converted := inBase * float64(toRate)
	if math.IsNaN(converted) || math.IsInf(converted, 0) {
		return Unavailable
	}

	return fmt.Sprintf("%.2f", converted)
}
