package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutFormBilling(t *testing.T) {
	shipping := Address{Line1: "Jl. Sudirman 1", City: "Jakarta", PostalCode: "10110", Country: "ID"}
	billing := Address{Line1: "Jl. Thamrin 2", City: "Jakarta", PostalCode: "10230", Country: "ID"}

	tests := []struct {
		name            string
		billing         *Address
		expectedBilling Address
		expectedNil     bool
	}{
		{
			name:            "given no billing address should bill the shipping address",
			billing:         nil,
			expectedBilling: shipping,
			expectedNil:     true,
		},
		{
			name:            "given blank billing address should drop it and bill the shipping address",
			billing:         &Address{},
			expectedBilling: shipping,
			expectedNil:     true,
		},
		{
			name:            "given billing address should keep it",
			billing:         &billing,
			expectedBilling: billing,
			expectedNil:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := CheckoutForm{ShippingAddress: shipping, BillingAddress: tt.billing}.Normalized()
			assert.Equal(t, tt.expectedNil, form.BillingAddress == nil)
			assert.Equal(t, tt.expectedBilling, form.Billing())
		})
	}
}
