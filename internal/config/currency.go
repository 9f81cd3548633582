package config

import (
	"math"
	"strings"
)

// Currency describes a currency symbol the dashboards know how to label.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// KnownCurrencies maps ISO codes to their display info.
var KnownCurrencies = map[string]Currency{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "Pound Sterling"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
}

// currencyAliases maps loose spellings onto ISO codes.
var currencyAliases = map[string]string{
	"rs":     "INR",
	"rs.":    "INR",
	"rupee":  "INR",
	"rupees": "INR",
	"dollar": "USD",
	"euro":   "EUR",
	"pound":  "GBP",
	"yen":    "JPY",
}

// LookupCurrency resolves a code, symbol or alias to a known currency.
// Returns the zero Currency and false if it is unknown.
func LookupCurrency(raw string) (Currency, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Currency{}, false
	}
	if c, ok := KnownCurrencies[strings.ToUpper(s)]; ok {
		return c, true
	}
	if code, ok := currencyAliases[strings.ToLower(s)]; ok {
		return KnownCurrencies[code], true
	}
	for _, c := range KnownCurrencies {
		if c.Symbol == s {
			return c, true
		}
	}
	return Currency{}, false
}

// NormalizeCurrencySymbol returns the display symbol for raw. Unknown
// non-empty values are kept as free text; empty input yields the fallback.
func NormalizeCurrencySymbol(raw, fallback string) string {
	if c, ok := LookupCurrency(raw); ok {
		return c.Symbol
	}
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return fallback
}

// ValidUSDRate reports whether r can be used to convert dollar prices.
func ValidUSDRate(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r > 0
}

// USDRate returns the configured dollar conversion rate, defaulting to 80
// when the configured value is not a positive finite number.
func USDRate(cfg Config) float64 {
	if !ValidUSDRate(cfg.General.USDRate) {
		return 80
	}
	return cfg.General.USDRate
}
