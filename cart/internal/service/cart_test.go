package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/cart/internal/store"
	"github.com/Alturino/bagstore/cart/pkg/request"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/gateway"
)

func TestAddItemUsesCatalogPrice(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()
	session := uuid.NewString()

	cart, err := f.service.AddItem(c, session, request.AddItem{ProductID: toteID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Tote", cart.Items[0].Name)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, []string{"/uploads/tote.jpg"}, cart.Items[0].Images)

	cart, err = f.service.AddItem(c, session, request.AddItem{ProductID: toteID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalCount, "adding the same product should merge the line")

	_, err = f.service.AddItem(c, session, request.AddItem{ProductID: uuid.New(), Quantity: 1})
	var apiErr *gateway.APIError
	require.True(t, errors.As(err, &apiErr), "unknown product should surface the gateway error")
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	reloaded, err := f.service.Cart(c, session)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.TotalCount, "the cart should be read back from storage")
}

func TestQuantityRoutes(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()
	session := uuid.NewString()

	_, err := f.service.AddItem(c, session, request.AddItem{ProductID: toteID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.service.AddItem(c, session, request.AddItem{ProductID: pouchID, Quantity: 1})
	require.NoError(t, err)

	cart, err := f.service.IncreaseQuantity(c, session, toteID)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalCount)

	cart, err = f.service.DecreaseQuantity(c, session, pouchID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	cart, err = f.service.RemoveItem(c, session, toteID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = f.service.AddItem(c, session, request.AddItem{ProductID: pouchID, Quantity: 4})
	require.NoError(t, err)
	cart, err = f.service.Clear(c, session)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.TotalCount)
}

func TestSessionsAreIsolated(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()

	_, err := f.service.AddItem(c, "a", request.AddItem{ProductID: toteID, Quantity: 1})
	require.NoError(t, err)

	other, err := f.service.Cart(c, "b")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestApplyCoupon(t *testing.T) {
	tests := []struct {
		name             string
		items            []request.AddItem
		code             string
		expectedErr      error
		expectedAPIError bool
		expectedCoupon   string
		expectedTotal    string
	}{
		{
			name:           "given valid coupon should store the discount",
			items:          []request.AddItem{{ProductID: toteID, Quantity: 2}, {ProductID: pouchID, Quantity: 1}},
			code:           "TEN",
			expectedCoupon: "TEN",
			expectedTotal:  "252.5",
		},
		{
			name:             "given unknown coupon should propagate the backend rejection",
			items:            []request.AddItem{{ProductID: toteID, Quantity: 1}},
			code:             "NOPE",
			expectedAPIError: true,
			expectedTotal:    "105",
		},
		{
			name:          "given empty cart should return ErrEmptyCart",
			code:          "TEN",
			expectedErr:   inErrors.ErrEmptyCart,
			expectedTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, teardown := setup(t)
			defer teardown()
			c := testContext()
			session := uuid.NewString()

			for _, item := range tt.items {
				_, err := f.service.AddItem(c, session, item)
				require.NoError(t, err)
			}

			cart, err := f.service.ApplyCoupon(c, session, request.ApplyCoupon{Code: tt.code})
			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.expectedAPIError:
				var apiErr *gateway.APIError
				assert.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "coupon is invalid", gateway.Message(err))
			default:
				require.NoError(t, err)
			}

			if tt.expectedCoupon != "" {
				require.NotNil(t, cart.AppliedCoupon)
				assert.Equal(t, tt.expectedCoupon, cart.AppliedCoupon.Code)
			} else {
				assert.Nil(t, cart.AppliedCoupon)
			}
			assert.True(
				t,
				cart.Totals.Total.Equal(decimal.RequireFromString(tt.expectedTotal)),
				"total should be %s got %s", tt.expectedTotal, cart.Totals.Total,
			)

			cleared, err := f.service.ClearCoupon(c, session)
			require.NoError(t, err)
			assert.Nil(t, cleared.AppliedCoupon)
		})
	}
}

func TestCorruptCartIsReported(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	c := testContext()

	require.NoError(t, f.carts.Save(c, store.KeysFor("broken").Items, []byte(`{`)))
	_, err := f.service.AddItem(c, "broken", request.AddItem{ProductID: toteID, Quantity: 1})
	assert.Error(t, err)

	raw, err := f.carts.Load(c, store.KeysFor("broken").Items)
	require.NoError(t, err)
	assert.Equal(t, `{`, string(raw), "a corrupt cart should be left for inspection")
}
