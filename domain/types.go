package domain

import (
	"math"
	"strconv"
)

// Currency a currency code
type Currency string

// Base is the currency every rate table is quoted against.
// Conversions go amount -> Base -> target.
const Base Currency = "USD"

// Amount a monetary amount as entered by the user
type Amount float64

// ParseAmount parses user input into an Amount. NaN and infinities are rejected.
func ParseAmount(text string) (Amount, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return Amount(f), true
}

// Rate an exchange rate: how many units of a currency one unit of Base buys
type Rate float64

// Rates maps currency codes to their rate against Base.
// A published Rates value is never modified; a refresh replaces it whole.
type Rates map[Currency]Rate
