package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/cart/pkg/request"
	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
)

func TestShippingMethodsAreCachedPerDestination(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()

	methods, err := f.service.ShippingMethods(c, request.ShippingMethods{Country: "ID", PostalCode: "10110"})
	require.NoError(t, err)
	assert.Len(t, methods, 2)

	_, err = f.service.ShippingMethods(c, request.ShippingMethods{Country: "id", PostalCode: "10110"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.shippingCalls, "same destination should be served from cache")

	_, err = f.service.ShippingMethods(c, request.ShippingMethods{Country: "ID", PostalCode: "40111"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.backend.shippingCalls, "a new destination should be fetched")
}

func TestSelectShipping(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()
	session := uuid.NewString()

	cart, err := f.service.SelectShipping(c, session, request.SelectShipping{
		Country:    "ID",
		PostalCode: "10110",
		MethodID:   expressID,
	})
	require.NoError(t, err)
	assert.True(t, cart.ShippingCost.Equal(decimal.NewFromInt(25)))

	_, err = f.service.SelectShipping(c, session, request.SelectShipping{
		Country:    "ID",
		PostalCode: "10110",
		MethodID:   uuid.New(),
	})
	assert.ErrorIs(t, err, ErrShippingMethodNotFound)

	cart, err = f.service.Cart(c, session)
	require.NoError(t, err)
	assert.True(t, cart.ShippingCost.Equal(decimal.NewFromInt(25)), "unknown method should keep the selected cost")
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name     string
		fill     bool
		form     func() orderRequest.CheckoutForm
		method   uuid.UUID
		expected []string
	}{
		{
			name:   "given empty cart and valid form should report the empty cart",
			fill:   false,
			form:   validForm,
			method: standardID,
			expected: []string{
				"cart is empty",
			},
		},
		{
			name:   "given missing fields should list every missing field",
			fill:   true,
			form:   func() orderRequest.CheckoutForm { return orderRequest.CheckoutForm{} },
			method: uuid.Nil,
			expected: []string{
				"form.email is required",
				"form.firstName is required",
				"form.lastName is required",
				"form.phone is required",
				"form.shippingAddress.line1 is required",
				"form.shippingAddress.city is required",
				"form.shippingAddress.postalCode is required",
				"form.shippingAddress.country is required",
				"form.paymentMethod is required",
				"shippingMethodId is required",
			},
		},
		{
			name: "given blank billing address should treat billing as shipping",
			fill: false,
			form: func() orderRequest.CheckoutForm {
				form := validForm()
				form.BillingAddress = &orderRequest.Address{}
				return form
			},
			method: standardID,
			expected: []string{
				"cart is empty",
			},
		},
		{
			name:   "given unknown shipping method should reject it",
			fill:   true,
			form:   validForm,
			method: uuid.New(),
			expected: []string{
				"shippingMethodId " + ErrShippingMethodNotFound.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, teardown := setup(t)
			defer teardown()
			c := testContext()
			session := uuid.NewString()

			if tt.fill {
				_, err := f.service.AddItem(c, session, request.AddItem{ProductID: toteID, Quantity: 1})
				require.NoError(t, err)
			}

			_, err := f.service.Checkout(c, session, request.Checkout{Form: tt.form(), ShippingMethodID: tt.method})
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected validation error got %v", err)
			assert.Equal(t, tt.expected, validationErr.Errors)
			assert.Empty(t, f.backend.placed, "invalid checkout should never reach the backend")
		})
	}
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()
	session := uuid.NewString()

	_, err := f.service.AddItem(c, session, request.AddItem{ProductID: toteID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.service.ApplyCoupon(c, session, request.ApplyCoupon{Code: "TEN"})
	require.NoError(t, err)
	_, err = f.service.SelectShipping(c, session, request.SelectShipping{Country: "ID", PostalCode: "10110", MethodID: standardID})
	require.NoError(t, err)

	order, err := f.service.Checkout(c, session, request.Checkout{Form: validForm(), ShippingMethodID: standardID})
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)

	require.Len(t, f.backend.placed, 1)
	placed := f.backend.placed[0]
	assert.Equal(t, []orderRequest.CheckoutItem{{ProductID: toteID, Quantity: 2}}, placed.Items)
	assert.Equal(t, "TEN", placed.CouponCode)
	assert.Equal(t, standardID, placed.Shipping.MethodID)
	assert.True(t, placed.Shipping.Cost.Equal(decimal.NewFromInt(20)))

	cart, err := f.service.Cart(c, session)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.AppliedCoupon)
	assert.True(t, cart.ShippingCost.IsZero())
}

func TestCheckoutFailureLeavesCartUnchanged(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()
	session := uuid.NewString()

	_, err := f.service.AddItem(c, session, request.AddItem{ProductID: toteID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.service.ApplyCoupon(c, session, request.ApplyCoupon{Code: "TEN"})
	require.NoError(t, err)
	before, err := f.service.Cart(c, session)
	require.NoError(t, err)

	f.backend.placeStatus = http.StatusUnprocessableEntity
	_, err = f.service.Checkout(c, session, request.Checkout{Form: validForm(), ShippingMethodID: standardID})
	assert.ErrorIs(t, err, ErrPlaceOrder)
	assert.Equal(t, "failed placing order, please try again", err.Error())

	after, err := f.service.Cart(c, session)
	require.NoError(t, err)
	assert.Equal(t, before.TotalCount, after.TotalCount)
	require.NotNil(t, after.AppliedCoupon)
	assert.Equal(t, "TEN", after.AppliedCoupon.Code)
	assert.True(t, before.Totals.Total.Equal(after.Totals.Total))
}

func TestOrder(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()

	order, err := f.service.Order(c, orderID)
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)

	_, err = f.service.Order(c, uuid.New())
	assert.ErrorIs(t, err, ErrOrderUnavailable)
}
