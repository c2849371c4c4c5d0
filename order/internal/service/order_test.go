package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
	"github.com/Alturino/bagstore/order/pkg/request"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from     repository.OrderStatus
		to       repository.OrderStatus
		expected bool
	}{
		{from: repository.OrderStatusPending, to: repository.OrderStatusConfirmed, expected: true},
		{from: repository.OrderStatusConfirmed, to: repository.OrderStatusShipped, expected: true},
		{from: repository.OrderStatusShipped, to: repository.OrderStatusDelivered, expected: true},
		{from: repository.OrderStatusPending, to: repository.OrderStatusCancelled, expected: true},
		{from: repository.OrderStatusConfirmed, to: repository.OrderStatusCancelled, expected: true},
		{from: repository.OrderStatusPending, to: repository.OrderStatusShipped, expected: false},
		{from: repository.OrderStatusPending, to: repository.OrderStatusPending, expected: false},
		{from: repository.OrderStatusShipped, to: repository.OrderStatusCancelled, expected: false},
		{from: repository.OrderStatusDelivered, to: repository.OrderStatusCancelled, expected: false},
		{from: repository.OrderStatusCancelled, to: repository.OrderStatusConfirmed, expected: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, CanTransition(tt.from, tt.to))
		})
	}
}

func TestMergeItems(t *testing.T) {
	tote := uuid.New()
	clutch := uuid.New()
	black := "Black"
	blackLower := "black"

	items, demand := mergeItems([]request.CheckoutItem{
		{ProductID: tote, Quantity: 1},
		{ProductID: clutch, Quantity: 2, Color: &black},
		{ProductID: tote, Quantity: 2},
		{ProductID: clutch, Quantity: 1, Color: &blackLower},
		{ProductID: clutch, Quantity: 1},
	})

	require.Len(t, items, 3)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, 1, items[2].Quantity)
	assert.Equal(t, map[uuid.UUID]int{tote: 3, clutch: 4}, demand)
}

func TestCheckout(t *testing.T) {
	c, f, teardown := setup(t)
	defer teardown()

	_, err := f.queries.InsertCoupon(c, repository.InsertCouponParams{
		Code:         "TEN",
		DiscountType: repository.DiscountType("percent"),
		Value:        repository.Numeric(decimal.NewFromInt(10)),
		Active:       true,
	})
	require.NoError(t, err)
	limit := int32(1)
	_, err = f.queries.InsertCoupon(c, repository.InsertCouponParams{
		Code:         "ONCE",
		DiscountType: repository.DiscountType("fixed"),
		Value:        repository.Numeric(decimal.NewFromInt(5)),
		UsageLimit:   repository.Int4(&limit),
		Active:       true,
	})
	require.NoError(t, err)
	_, err = f.queries.IncrementCouponUsage(c, "ONCE")
	require.NoError(t, err)

	tests := []struct {
		name          string
		quantities    []int
		stock         int32
		coupon        string
		shipping      func() uuid.UUID
		productID     func(uuid.UUID) uuid.UUID
		expectedTotal string
		expectedStock int32
		expectedErr   error
	}{
		{
			name:          "given available stock should price from the catalog and decrement stock",
			quantities:    []int{1, 1},
			stock:         5,
			shipping:      func() uuid.UUID { return f.standard },
			expectedTotal: "272.5",
			expectedStock: 3,
		},
		{
			name:          "given percent coupon should discount the pre discount total",
			quantities:    []int{2},
			stock:         5,
			coupon:        " ten ",
			shipping:      func() uuid.UUID { return f.standard },
			expectedTotal: "245.25",
			expectedStock: 3,
		},
		{
			name:          "given express shipping should use the stored cost",
			quantities:    []int{2},
			stock:         2,
			shipping:      func() uuid.UUID { return f.express },
			expectedTotal: "287.5",
			expectedStock: 0,
		},
		{
			name:          "given more than the stock should reject and keep stock",
			quantities:    []int{3, 1},
			stock:         3,
			shipping:      func() uuid.UUID { return f.standard },
			expectedStock: 3,
			expectedErr:   inErrors.ErrOutOfStock,
		},
		{
			name:          "given exhausted coupon should reject and keep stock",
			quantities:    []int{1},
			stock:         3,
			coupon:        "ONCE",
			shipping:      func() uuid.UUID { return f.standard },
			expectedStock: 3,
			expectedErr:   inErrors.ErrCouponExhausted,
		},
		{
			name:          "given unknown coupon should reject as invalid",
			quantities:    []int{1},
			stock:         3,
			coupon:        "NOPE",
			shipping:      func() uuid.UUID { return f.standard },
			expectedStock: 3,
			expectedErr:   inErrors.ErrCouponInvalid,
		},
		{
			name:          "given unknown shipping method should reject",
			quantities:    []int{1},
			stock:         3,
			shipping:      uuid.New,
			expectedStock: 3,
			expectedErr:   inErrors.ErrNotFound,
		},
		{
			name:          "given unknown product should reject",
			quantities:    []int{1},
			stock:         3,
			shipping:      func() uuid.UUID { return f.standard },
			productID:     func(uuid.UUID) uuid.UUID { return uuid.New() },
			expectedStock: 3,
			expectedErr:   inErrors.ErrNotFound,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := f.product(t, c, "Leather Tote "+string(rune('A'+i)), "125.00", tt.stock)
			productID := product.ID
			if tt.productID != nil {
				productID = tt.productID(product.ID)
			}
			items := make([]request.CheckoutItem, 0, len(tt.quantities))
			for _, quantity := range tt.quantities {
				items = append(items, request.CheckoutItem{ProductID: productID, Quantity: quantity})
			}
			published := len(f.publisher.events)

			order, err := f.svc.Checkout(c, request.Checkout{
				Items:      items,
				Form:       form(),
				Shipping:   request.Shipping{MethodID: tt.shipping(), Cost: decimal.NewFromInt(999)},
				CouponCode: tt.coupon,
			}, nil)
			assert.Equal(t, tt.expectedStock, f.stock(t, c, product.ID))
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Len(t, f.publisher.events, published, "failed checkouts publish nothing")
				return
			}
			require.NoError(t, err)

			assert.Equal(t, string(repository.OrderStatusPending), order.Status)
			assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal=%s", order.Subtotal)
			assert.True(t, order.Taxes.Equal(decimal.RequireFromString("12.5")), "taxes=%s", order.Taxes)
			assert.True(t, order.Total.Equal(decimal.RequireFromString(tt.expectedTotal)), "total=%s", order.Total)
			assert.Equal(t, form().ShippingAddress, order.BillingAddress, "billing defaults to shipping")
			require.Len(t, order.OrderItems, 1)
			assert.Equal(t, int32(2), order.OrderItems[0].Quantity)
			assert.True(t, order.OrderItems[0].Price.Equal(decimal.NewFromInt(125)))

			require.Len(t, f.publisher.events, published+1)
			placed := f.publisher.events[published]
			assert.Equal(t, event.TypeOrderPlaced, placed.Type)
			assert.Equal(t, "jane@example.com", placed.Recipient)
			assert.Equal(t, order.ID.String(), placed.Payload["orderId"])
		})
	}

	coupon, err := f.queries.FindCouponByCode(c, "TEN")
	require.NoError(t, err)
	assert.Equal(t, int32(1), coupon.UsedCount)
}

func TestUpdateOrderStatus(t *testing.T) {
	c, f, teardown := setup(t)
	defer teardown()

	product := f.product(t, c, "Weekender", "80.00", 10)
	order, err := f.svc.Checkout(c, request.Checkout{
		Items:    []request.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		Form:     form(),
		Shipping: request.Shipping{MethodID: f.standard},
	}, nil)
	require.NoError(t, err)

	steps := []struct {
		status      string
		expectedErr error
	}{
		{status: "shipped", expectedErr: inErrors.ErrInvalidStatusTransition},
		{status: "confirmed"},
		{status: "cancelled"},
		{status: "confirmed", expectedErr: inErrors.ErrInvalidStatusTransition},
	}
	for _, step := range steps {
		updated, err := f.svc.UpdateOrderStatus(c, request.UpdateOrderStatus{ID: order.ID, Status: step.status})
		if step.expectedErr != nil {
			assert.ErrorIs(t, err, step.expectedErr, "moving to %s", step.status)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, step.status, updated.Status)
	}

	_, err = f.svc.UpdateOrderStatus(c, request.UpdateOrderStatus{ID: uuid.New(), Status: "confirmed"})
	assert.ErrorIs(t, err, inErrors.ErrNotFound)

	page, err := f.svc.FindOrders(c, request.FindOrders{Query: listing.Query{Status: "cancelled"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, order.ID, page.Items[0].ID)

	page, err = f.svc.FindOrders(c, request.FindOrders{Query: listing.Query{Search: "JANE@"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestShippingMethods(t *testing.T) {
	c, f, teardown := setup(t)
	defer teardown()

	methods, err := f.svc.ShippingMethods(c, request.FindShippingMethods{Country: "id", PostalCode: "10110"})
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "Standard", methods[0].Name)
	assert.True(t, methods[0].Cost.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Express", methods[1].Name)
}
