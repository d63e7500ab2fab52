// Package catalog is the static currency name dictionary.
package catalog

import (
	"context"
	"sort"

	"github.com/kylycht/flux/model"
	"github.com/kylycht/flux/service"
)

var names = map[string]string{
	"USD": "United States Dollar",
	"EUR": "Euro",
	"GBP": "British Pound Sterling",
	"JPY": "Japanese Yen",
	"AUD": "Australian Dollar",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CNY": "Chinese Yuan",
	"HKD": "Hong Kong Dollar",
	"NZD": "New Zealand Dollar",
	"SEK": "Swedish Krona",
	"KRW": "South Korean Won",
	"SGD": "Singapore Dollar",
	"NOK": "Norwegian Krone",
	"MXN": "Mexican Peso",
	"INR": "Indian Rupee",
	"RUB": "Russian Ruble",
	"ZAR": "South African Rand",
	"TRY": "Turkish Lira",
	"BRL": "Brazilian Real",
	"TWD": "New Taiwan Dollar",
	"DKK": "Danish Krone",
	"PLN": "Polish Zloty",
	"THB": "Thai Baht",
	"IDR": "Indonesian Rupiah",
	"HUF": "Hungarian Forint",
	"CZK": "Czech Koruna",
	"ILS": "Israeli New Shekel",
	"CLP": "Chilean Peso",
	"PHP": "Philippine Peso",
	"AED": "UAE Dirham",
	"COP": "Colombian Peso",
	"SAR": "Saudi Riyal",
	"MYR": "Malaysian Ringgit",
	"RON": "Romanian Leu",
	"KZT": "Kazakhstani Tenge",
	"KGS": "Kyrgyzstani Som",
	"UZS": "Uzbekistani Som",
	"AMD": "Armenian Dram",
	"GEL": "Georgian Lari",
	"UAH": "Ukrainian Hryvnia",
	"AZN": "Azerbaijani Manat",
	"BYN": "Belarusian Ruble",
}

// Priority codes are listed first, in this order
var Priority = []string{"USD", "EUR", "RUB", "KZT", "KGS", "GBP", "CNY"}

// Static serves the built in dictionary
type Static struct{}

func New() service.NameProvider {
	return Static{}
}

// CurrencyNames implements service.NameProvider.
// A copy is returned so callers may modify it.
func (Static) CurrencyNames(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for code, name := range names {
		out[code] = name
	}
	return out, nil
}

// Options orders the dictionary for display: priority codes
// first, the remaining codes alphabetically
func Options(dict map[string]string) []model.Currency {
	rank := make(map[string]int, len(Priority))
	for i, code := range Priority {
		rank[code] = i
	}

	options := make([]model.Currency, 0, len(dict))
	for code, name := range dict {
		options = append(options, model.Currency{Code: code, Name: name})
	}

	sort.Slice(options, func(i, j int) bool {
		ri, iPrio := rank[options[i].Code]
		rj, jPrio := rank[options[j].Code]

		switch {
		case iPrio && jPrio:
			return ri < rj
		case iPrio:
			return true
		case jPrio:
			return false
		}

		return options[i].Code < options[j].Code
	})

	return options
}

// Name returns the display name of code, the code itself when unknown
func Name(options []model.Currency, code string) string {
	if name, ok := Lookup(options, code); ok {
		return name
	}
	return code
}

// Lookup returns the display name of code and whether options list it
func Lookup(options []model.Currency, code string) (string, bool) {
	for _, o := range options {
		if o.Code == code {
			return o.Name, true
		}
	}
	return "", false
}
