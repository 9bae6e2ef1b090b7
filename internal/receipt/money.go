package receipt

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// amountPattern accepts plain non-negative amounts with at most two decimal places.
// Integer digits are capped at twelve.
var amountPattern = regexp.MustCompile(`^\d{1,12}(\.\d{1,2})?$`)

var (
	quarterCents  = decimal.NewFromInt(25)
	itemPriceRate = decimal.RequireFromString("0.2")
)

// ParseAmount parses a currency amount such as "35.35" into an exact decimal
func ParseAmount(field, value string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(value) {
		return decimal.Zero, &ValidationError{
			Field:  field,
			Value:  value,
			Reason: "must be a non-negative amount with at most 2 decimal places",
		}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Value: value, Reason: err.Error()}
	}
	return d, nil
}

// cents converts an amount to whole cents
func cents(amount decimal.Decimal) decimal.Decimal {
	return amount.Shift(2)
}

// isRoundDollar reports whether the amount has no cents
func isRoundDollar(amount decimal.Decimal) bool {
	return cents(amount).Mod(decimal.NewFromInt(100)).IsZero()
}

// isQuarterMultiple reports whether the amount is an exact multiple of 0.25
func isQuarterMultiple(amount decimal.Decimal) bool {
	return cents(amount).Mod(quarterCents).IsZero()
}
