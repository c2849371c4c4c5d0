package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		shipping decimal.Decimal
		discount decimal.Decimal
		taxRate  decimal.Decimal
		expected Totals
	}{
		{
			name: "given two lines and shipping at five percent should return 282.5",
			lines: []Line{
				{Price: d("100"), Quantity: 2},
				{Price: d("50"), Quantity: 1},
			},
			shipping: d("20"),
			discount: decimal.Zero,
			taxRate:  d("0.05"),
			expected: Totals{
				Subtotal: d("250"),
				Shipping: d("20"),
				Taxes:    d("12.5"),
				Discount: decimal.Zero,
				Total:    d("282.5"),
			},
		},
		{
			name:     "given discount larger than order should floor total at zero",
			lines:    []Line{{Price: d("10"), Quantity: 1}},
			shipping: d("5"),
			discount: d("1000"),
			taxRate:  d("0.05"),
			expected: Totals{
				Subtotal: d("10"),
				Shipping: d("5"),
				Taxes:    d("0.5"),
				Discount: d("1000"),
				Total:    decimal.Zero,
			},
		},
		{
			name:     "given empty cart should return zero totals plus shipping",
			lines:    nil,
			shipping: d("7.25"),
			discount: decimal.Zero,
			taxRate:  d("0.05"),
			expected: Totals{
				Subtotal: decimal.Zero,
				Shipping: d("7.25"),
				Taxes:    decimal.Zero,
				Discount: decimal.Zero,
				Total:    d("7.25"),
			},
		},
		{
			name:     "given fractional tax should round taxes to cents",
			lines:    []Line{{Price: d("19.99"), Quantity: 3}},
			shipping: decimal.Zero,
			discount: d("5"),
			taxRate:  d("0.09"),
			expected: Totals{
				Subtotal: d("59.97"),
				Shipping: decimal.Zero,
				Taxes:    d("5.40"),
				Discount: d("5"),
				Total:    d("60.37"),
			},
		},
		{
			name:     "given non positive quantity line should ignore it",
			lines:    []Line{{Price: d("10"), Quantity: 0}, {Price: d("10"), Quantity: -1}},
			shipping: decimal.Zero,
			discount: decimal.Zero,
			taxRate:  d("0.05"),
			expected: Totals{
				Subtotal: decimal.Zero,
				Shipping: decimal.Zero,
				Taxes:    decimal.Zero,
				Discount: decimal.Zero,
				Total:    decimal.Zero,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Compute(tt.lines, tt.shipping, tt.discount, tt.taxRate)
			assert.True(t, tt.expected.Subtotal.Equal(actual.Subtotal), "subtotal expected=%s actual=%s", tt.expected.Subtotal, actual.Subtotal)
			assert.True(t, tt.expected.Shipping.Equal(actual.Shipping), "shipping expected=%s actual=%s", tt.expected.Shipping, actual.Shipping)
			assert.True(t, tt.expected.Taxes.Equal(actual.Taxes), "taxes expected=%s actual=%s", tt.expected.Taxes, actual.Taxes)
			assert.True(t, tt.expected.Discount.Equal(actual.Discount), "discount expected=%s actual=%s", tt.expected.Discount, actual.Discount)
			assert.True(t, tt.expected.Total.Equal(actual.Total), "total expected=%s actual=%s", tt.expected.Total, actual.Total)
			assert.False(t, actual.Total.IsNegative(), "total should never be negative")
		})
	}
}

func TestClampDiscount(t *testing.T) {
	tests := []struct {
		name       string
		discount   decimal.Decimal
		orderTotal decimal.Decimal
		expected   decimal.Decimal
	}{
		{name: "within bounds", discount: d("10"), orderTotal: d("100"), expected: d("10")},
		{name: "above order total", discount: d("150"), orderTotal: d("100"), expected: d("100")},
		{name: "negative discount", discount: d("-5"), orderTotal: d("100"), expected: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := ClampDiscount(tt.discount, tt.orderTotal)
			assert.True(t, tt.expected.Equal(actual), "expected=%s actual=%s", tt.expected, actual)
		})
	}
}

func TestParseTaxRate(t *testing.T) {
	rate, err := ParseTaxRate("")
	require.NoError(t, err)
	assert.True(t, DefaultTaxRate.Equal(rate))

	rate, err = ParseTaxRate("0.09")
	require.NoError(t, err)
	assert.True(t, d("0.09").Equal(rate))

	_, err = ParseTaxRate("nine percent")
	assert.Error(t, err)

	_, err = ParseTaxRate("1.5")
	assert.Error(t, err)
}
