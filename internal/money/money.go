// Package money holds the monetary value type shared by the costing engine
// and the persistence layer. Values are carried as float64 and rounded to
// two decimal places at every display or storage boundary; all divisions go
// through guarded helpers.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is a currency amount in major units.
type Money float64

var printer = message.NewPrinter(language.English)

// Round returns m rounded to two decimal places.
func (m Money) Round() Money {
	return Money(math.Round(float64(m)*100) / 100)
}

// Float64 returns the raw amount.
func (m Money) Float64() float64 {
	return float64(m)
}

// String formats the amount for display, e.g. "$1,234.50".
func (m Money) String() string {
	return printer.Sprintf("$%.2f", float64(m.Round()))
}

// Mul scales the amount by an integer quantity.
func (m Money) Mul(qty int64) Money {
	return m * Money(qty)
}

// DivUnits divides a cumulative spend by a unit count. A zero or negative
// denominator yields zero rather than an undefined cost.
func DivUnits(total Money, units int64) Money {
	if units <= 0 {
		return 0
	}
	return total / Money(units)
}

// Percent applies an integer percentage in the 0-100 range.
func Percent(m Money, pct int64) Money {
	return m * Money(pct) / 100
}
