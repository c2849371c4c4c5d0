// Package pricing holds the one computation of cart and order totals shared
// by the cart store, the checkout flow and the backend order creation.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is used when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.05")

type Line struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Taxes    decimal.Decimal `json:"taxes"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Compute returns subtotal = sum(price * qty), taxes = subtotal * taxRate
// rounded to cents and total = max(0, subtotal + shipping + taxes - discount).
func Compute(lines []Line, shipping decimal.Decimal, discount decimal.Decimal, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	taxes := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(shipping).Add(taxes).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Taxes:    taxes,
		Discount: discount,
		Total:    total,
	}
}

// PreDiscount is the amount a coupon is applied against.
func (t Totals) PreDiscount() decimal.Decimal {
	return t.Subtotal.Add(t.Shipping).Add(t.Taxes)
}

// ClampDiscount bounds a discount returned by a coupon into [0, orderTotal].
func ClampDiscount(discount decimal.Decimal, orderTotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() || orderTotal.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, orderTotal)
}

// ParseTaxRate reads a configured rate such as "0.05". An empty value yields
// DefaultTaxRate.
func ParseTaxRate(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return DefaultTaxRate, nil
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed parsing tax rate=%s with error=%w", raw, err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("tax rate=%s must be within [0, 1)", raw)
	}
	return rate, nil
}
