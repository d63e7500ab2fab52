// Package converter keeps the two amount fields of the widget consistent.
// The side the user typed into is the anchor and is never touched, the other
// side is always derived from the anchor text and the current rate.
package converter

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kylycht/flux/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// displayPlaces is the number of fractional digits of a derived amount
const displayPlaces = 2

// leading decimal number, the rest of the text is ignored
var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

var printer = message.NewPrinter(language.English)

// Result holds both amount fields
type Result struct {
	From string `json:"fromAmount"`
	To   string `json:"toAmount"`
}

// Convert derives the non anchored side. known is false
// when there is no rate for the target currency.
// Invalid input never fails, the derived side is left empty.
func Convert(amountText string, anchor model.Anchor, rate float64, known bool) Result {
	if anchor == model.Target {
		return Result{From: fromTarget(amountText, rate, known), To: amountText}
	}

	return Result{From: amountText, To: fromSource(amountText, rate, known)}
}

func fromSource(amountText string, rate float64, known bool) string {
	if amountText == "" || !known || !finite(rate) {
		return ""
	}

	amount, ok := ParseAmount(amountText)
	if !ok {
		return ""
	}

	return amount.Mul(decimal.NewFromFloat(rate)).StringFixed(displayPlaces)
}

func fromTarget(amountText string, rate float64, known bool) string {
	if amountText == "" || !known || !finite(rate) || rate == 0 {
		return ""
	}

	amount, ok := ParseAmount(amountText)
	if !ok {
		return ""
	}

	return amount.Div(decimal.NewFromFloat(rate)).StringFixed(displayPlaces)
}

// ParseAmount parses the longest leading decimal number of text,
// "12.5abc" gives 12.5 while "-" or "abc" fail. Numbers beyond the
// float64 range, such as "1e400", fail as well.
func ParseAmount(text string) (decimal.Decimal, bool) {
	match := strings.TrimSuffix(numberPrefix.FindString(strings.TrimSpace(text)), ".")
	if match == "" {
		return decimal.Zero, false
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return decimal.Zero, false
	}
	if !finite(f) {
		return decimal.Zero, false
	}
	if f == 0 {
		// underflow such as "1e-400" keeps the exponent bounded
		return decimal.Zero, true
	}

	amount, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, false
	}

	return amount, true
}

// FormatGrouped renders an amount with grouping separators and
// at most three fractional digits, "50000.00" gives "50,000".
// Unparsable text gives an empty string.
func FormatGrouped(text string) string {
	amount, ok := ParseAmount(text)
	if !ok {
		return ""
	}

	f, _ := amount.Float64()
	return printer.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(3)))
}

// StripGrouping removes grouping separators added by FormatGrouped
func StripGrouping(text string) string {
	return strings.ReplaceAll(text, ",", "")
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
