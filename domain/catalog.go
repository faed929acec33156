package domain

// CurrencyInfo static display metadata for a selectable currency
type CurrencyInfo struct {
	Code   Currency `json:"code"`
	Symbol string   `json:"symbol"`
	Flag   string   `json:"flag"`
	Name   string   `json:"name"`
}

// catalog is the fixed, ordered list of supported currencies.
var catalog = [...]CurrencyInfo{
	{Code: "USD", Symbol: "$", Flag: "🇺🇸", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Flag: "🇪🇺", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Flag: "🇬🇧", Name: "British Pound"},
	{Code: "NGN", Symbol: "₦", Flag: "🇳🇬", Name: "Nigerian Naira"},
	{Code: "CAD", Symbol: "C$", Flag: "🇨🇦", Name: "Canadian Dollar"},
	{Code: "JPY", Symbol: "¥", Flag: "🇯🇵", Name: "Japanese Yen"},
	{Code: "INR", Symbol: "₹", Flag: "🇮🇳", Name: "Indian Rupee"},
}

// Currencies returns a copy of the catalog in display order.
func Currencies() []CurrencyInfo {
	out := make([]CurrencyInfo, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup finds a catalog entry by code.
func Lookup(code Currency) (CurrencyInfo, bool) {
	for _, c := range catalog {
		if c.Code == code {
			return c, true
		}
	}
	return CurrencyInfo{}, false
}
