package store

import (
	"github.com/shopspring/decimal"
)

// totalTolerance absorbs rounding in totals computed by the client
var totalTolerance = decimal.RequireFromString("0.5")

var hundred = decimal.NewFromInt(100)

// ComputeTotal applies the percentage discount to subTotal and adds the
// delivery charge: subTotal - discount/100*subTotal + delivery.
func ComputeTotal(subTotal, deliveryCharge decimal.Decimal, discountPct int) decimal.Decimal {
	discount := subTotal.Mul(decimal.NewFromInt(int64(discountPct))).Div(hundred)
	return subTotal.Sub(discount).Add(deliveryCharge).Round(2)
}

// totalMatches reports whether a caller supplied total agrees with the
// server computed one.
func totalMatches(claimed, computed decimal.Decimal) bool {
	return claimed.Sub(computed).Abs().LessThanOrEqual(totalTolerance)
}
