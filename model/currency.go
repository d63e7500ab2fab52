package model

import (
	"strings"
)

// Anchor tells which amount field holds
// the text typed by the user
type Anchor string

const (
	Source Anchor = Anchor("SOURCE") // Source amount is authoritative
	Target Anchor = Anchor("TARGET") // Target amount is authoritative
)

// Currency holds information
// on the operating currency
type Currency struct {
	Code string `json:"code"` // ISO code, e.g. USD
	Name string `json:"name"` // Human readable name
}

// RateTable maps currency code to the multiplier
// relative to a single implicit base currency
type RateTable map[string]float64

// Rate returns the multiplier for code, ok is false
// when the table has no data for the code
func (t RateTable) Rate(code string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t[code]
	return r, ok
}

// Quote is the result of a latest rates lookup
type Quote struct {
	Base    string    // Base currency of the table
	Updated string    // Provider reported timestamp
	Rates   RateTable // Rates relative to Base
}

// Pair holds the selected source and target currencies
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Swap returns the pair with source and target exchanged
func (p Pair) Swap() Pair {
	return Pair{From: p.To, To: p.From}
}

func (p Pair) String() string {
	return p.From + "/" + p.To
}

// NormalizeCode upper-cases and trims a currency code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code looks like a three letter ISO code
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
