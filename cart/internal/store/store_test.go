package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/cart/internal/storage"
	"github.com/Alturino/bagstore/pricing"
)

var errStorageDown = errors.New("storage down")

// failingStorage fails every Save once broken is set.
type failingStorage struct {
	*storage.Memory
	broken bool
}

func (f *failingStorage) Save(c context.Context, key string, value []byte) error {
	if f.broken {
		return errStorageDown
	}
	return f.Memory.Save(c, key, value)
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func hydrated(t *testing.T, c context.Context, st storage.Storage) *Store {
	s := New("session", st, pricing.DefaultTaxRate)
	require.NoError(t, s.Hydrate(c))
	return s
}

func TestKeysFor(t *testing.T) {
	keys := KeysFor("abc")
	assert.Equal(t, "cart:abc:cartItems", keys.Items)
	assert.Equal(t, "cart:abc:appliedCoupon", keys.Coupon)
	assert.Equal(t, "cart:abc:shippingCost", keys.Shipping)
	assert.Equal(t, []string{keys.Items, keys.Coupon, keys.Shipping}, keys.All())
}

func TestAddItem(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name          string
		items         []Item
		expectedErr   error
		expectedLines int
		expectedQty   int
		expectedPrice string
	}{
		{
			name:          "given new item should append a line",
			items:         []Item{{ID: id, Name: "Tote", Price: price("100"), Quantity: 2}},
			expectedLines: 1,
			expectedQty:   2,
			expectedPrice: "100",
		},
		{
			name: "given existing item should merge quantity and keep the first price",
			items: []Item{
				{ID: id, Name: "Tote", Price: price("100"), Quantity: 1},
				{ID: id, Name: "Tote", Price: price("80"), Quantity: 3},
			},
			expectedLines: 1,
			expectedQty:   4,
			expectedPrice: "100",
		},
		{
			name:          "given zero quantity should add one unit",
			items:         []Item{{ID: id, Name: "Tote", Price: price("10"), Quantity: 0}},
			expectedLines: 1,
			expectedQty:   1,
			expectedPrice: "10",
		},
		{
			name:          "given negative price should return ErrNegativePrice",
			items:         []Item{{ID: id, Name: "Tote", Price: price("-1"), Quantity: 1}},
			expectedErr:   ErrNegativePrice,
			expectedLines: 0,
		},
		{
			name:          "given nil id should return ErrMissingItemID",
			items:         []Item{{Name: "Tote", Price: price("1"), Quantity: 1}},
			expectedErr:   ErrMissingItemID,
			expectedLines: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext()
			s := hydrated(t, c, storage.NewMemory())

			var err error
			for _, item := range tt.items {
				err = s.AddItem(c, item)
			}
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			items := s.Items()
			assert.Len(t, items, tt.expectedLines)
			if tt.expectedLines > 0 {
				assert.Equal(t, tt.expectedQty, items[0].Quantity)
				assert.True(t, items[0].Price.Equal(price(tt.expectedPrice)), "price should be %s got %s", tt.expectedPrice, items[0].Price)
			}
		})
	}
}

func TestQuantityOperations(t *testing.T) {
	c := testContext()
	s := hydrated(t, c, storage.NewMemory())
	a, b := uuid.New(), uuid.New()

	require.NoError(t, s.AddItem(c, Item{ID: a, Name: "a", Price: price("5"), Quantity: 1}))
	require.NoError(t, s.AddItem(c, Item{ID: b, Name: "b", Price: price("7"), Quantity: 2}))

	require.NoError(t, s.IncreaseQuantity(c, a))
	assert.Equal(t, 4, s.TotalCount())

	require.NoError(t, s.DecreaseQuantity(c, b))
	require.NoError(t, s.DecreaseQuantity(c, b))
	assert.Len(t, s.Items(), 1, "decreasing to zero should remove the line")

	require.NoError(t, s.IncreaseQuantity(c, uuid.New()), "unknown id should be a no-op")
	require.NoError(t, s.DecreaseQuantity(c, uuid.New()), "unknown id should be a no-op")
	require.NoError(t, s.RemoveItem(c, uuid.New()), "unknown id should be a no-op")

	require.NoError(t, s.RemoveItem(c, a))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalCount())
}

func TestSetShipping(t *testing.T) {
	c := testContext()
	s := hydrated(t, c, storage.NewMemory())

	require.NoError(t, s.SetShipping(c, price("20")))
	assert.ErrorIs(t, s.SetShipping(c, price("-0.01")), ErrNegativeShipping)
	assert.True(t, s.ShippingCost().Equal(price("20")), "rejected shipping should keep the previous cost")
}

func TestApplyCouponWithoutApplier(t *testing.T) {
	c := testContext()
	s := hydrated(t, c, storage.NewMemory())
	assert.ErrorIs(t, s.ApplyCoupon(c, "TEN", price("100")), ErrNoCouponApplier)
	assert.Nil(t, s.AppliedCoupon())
}

func TestWritesAreSuppressedUntilHydrated(t *testing.T) {
	c := testContext()
	st := storage.NewMemory()
	keys := KeysFor("session")
	require.NoError(t, st.Save(c, keys.Items, []byte(`[{"id":"`+uuid.NewString()+`","name":"Tote","price":"100","quantity":2}]`)))

	s := New("session", st, pricing.DefaultTaxRate)
	require.NoError(t, s.Clear(c))

	raw, err := st.Load(c, keys.Items)
	require.NoError(t, err)
	stored := []Item{}
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Len(t, stored, 1, "an unhydrated store must not overwrite persisted items")

	require.NoError(t, s.Hydrate(c))
	assert.True(t, s.Hydrated())
	assert.Equal(t, 2, s.TotalCount(), "hydration should replace the in-memory state")

	require.NoError(t, s.Hydrate(c), "hydrating twice should be a no-op")
	assert.Equal(t, 2, s.TotalCount())
}

func TestHydrateCorruptDocument(t *testing.T) {
	c := testContext()
	st := storage.NewMemory()
	keys := KeysFor("session")
	require.NoError(t, st.Save(c, keys.Items, []byte(`{not json`)))

	s := New("session", st, pricing.DefaultTaxRate)
	assert.Error(t, s.Hydrate(c), "corrupt items should be reported")
	assert.False(t, s.Hydrated())

	require.NoError(t, s.AddItem(c, Item{ID: uuid.New(), Name: "Tote", Price: price("1"), Quantity: 1}))
	raw, err := st.Load(c, keys.Items)
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(raw), "a corrupt document should never be silently replaced")
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	c := testContext()
	st := &failingStorage{Memory: storage.NewMemory()}
	s := hydrated(t, c, st)
	id := uuid.New()

	require.NoError(t, s.AddItem(c, Item{ID: id, Name: "Tote", Price: price("100"), Quantity: 1}))

	st.broken = true
	err := s.AddItem(c, Item{ID: id, Name: "Tote", Price: price("100"), Quantity: 5})
	assert.ErrorIs(t, err, errStorageDown)
	assert.Equal(t, 1, s.TotalCount(), "failed persistence should roll back the mutation")

	assert.ErrorIs(t, s.SetShipping(c, price("30")), errStorageDown)
	assert.True(t, s.ShippingCost().IsZero())
}

func TestPersistenceRoundTrip(t *testing.T) {
	c := testContext()
	st := storage.NewMemory()
	color := "black"

	s := New("session", st, pricing.DefaultTaxRate, WithCouponApplier(&fakeApplier{
		discounts: map[string]decimal.Decimal{"TEN": price("10")},
	}))
	require.NoError(t, s.Hydrate(c))
	require.NoError(t, s.AddItem(c, Item{
		ID:       uuid.New(),
		Name:     "Tote",
		Price:    price("100"),
		Quantity: 2,
		Images:   []string{"/uploads/tote.jpg"},
		Color:    &color,
	}))
	require.NoError(t, s.AddItem(c, Item{ID: uuid.New(), Name: "Pouch", Price: price("50"), Quantity: 1}))
	require.NoError(t, s.SetShipping(c, price("20")))
	require.NoError(t, s.ApplyCoupon(c, "TEN", s.Totals().PreDiscount()))
	before := s.Snapshot()

	reloaded := hydrated(t, c, st)
	after := reloaded.Snapshot()

	beforeJSON, err := json.Marshal(before)
	require.NoError(t, err)
	afterJSON, err := json.Marshal(after)
	require.NoError(t, err)
	assert.JSONEq(t, string(beforeJSON), string(afterJSON), "reload should reproduce the cart")
	assert.True(t, after.Totals.Total.Equal(price("272.5")))
}

func TestReset(t *testing.T) {
	c := testContext()
	st := storage.NewMemory()
	s := hydrated(t, c, st)

	require.NoError(t, s.AddItem(c, Item{ID: uuid.New(), Name: "Tote", Price: price("100"), Quantity: 1}))
	require.NoError(t, s.SetShipping(c, price("20")))
	require.NoError(t, s.Reset(c))

	assert.Empty(t, s.Items())
	assert.True(t, s.ShippingCost().IsZero())
	assert.Nil(t, s.AppliedCoupon())
	assert.Empty(t, st.Keys(), "reset should delete every cart key")
}

func TestSnapshotIsACopy(t *testing.T) {
	c := testContext()
	s := hydrated(t, c, storage.NewMemory())
	color := "tan"
	require.NoError(t, s.AddItem(c, Item{
		ID:       uuid.New(),
		Name:     "Tote",
		Price:    price("100"),
		Quantity: 1,
		Images:   []string{"a.jpg"},
		Color:    &color,
	}))

	snapshot := s.Snapshot()
	snapshot.Items[0].Quantity = 99
	snapshot.Items[0].Images[0] = "changed.jpg"
	*snapshot.Items[0].Color = "red"

	items := s.Items()
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "a.jpg", items[0].Images[0])
	assert.Equal(t, "tan", *items[0].Color)
	assert.Equal(t, 1, snapshot.TotalCount)
}
