package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/coupon/pkg/request"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/infra/infratest"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/repository"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (context.Context, *CouponService, *testclock.Clock, func()) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	c := logger.WithContext(context.Background())

	pool, teardown := infratest.Postgres(t, c)
	clk := testclock.NewClock(now)
	return c, NewCouponService(repository.New(pool), clk, 10), clk, teardown
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeCode("  summer10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestApply(t *testing.T) {
	c, svc, clk, teardown := setup(t)
	defer teardown()

	expiresAt := now.Add(time.Hour)
	minimum := decimal.NewFromInt(50)
	limit := int32(1)
	inactive := false
	for _, coupon := range []request.Coupon{
		{Code: "ten", DiscountType: "percent", Value: decimal.NewFromInt(10), ExpiresAt: &expiresAt},
		{Code: "FIVER", DiscountType: "fixed", Value: decimal.NewFromInt(5), MinOrderTotal: &minimum},
		{Code: "ONCE", DiscountType: "fixed", Value: decimal.NewFromInt(1), UsageLimit: &limit},
		{Code: "OFF", DiscountType: "fixed", Value: decimal.NewFromInt(1), Active: &inactive},
	} {
		_, err := svc.InsertCoupon(c, coupon)
		require.NoError(t, err)
	}
	_, err := svc.queries.IncrementCouponUsage(c, "ONCE")
	require.NoError(t, err)

	tests := []struct {
		name             string
		param            request.ApplyCoupon
		advance          time.Duration
		expectedDiscount string
		expectedTotal    string
		expectedErr      error
	}{
		{
			name:             "given lower case code should find the upper cased coupon",
			param:            request.ApplyCoupon{Code: "ten", OrderTotal: decimal.RequireFromString("282.5")},
			expectedDiscount: "28.25",
			expectedTotal:    "254.25",
		},
		{
			name:             "given fixed coupon above minimum should apply",
			param:            request.ApplyCoupon{Code: "FIVER", OrderTotal: decimal.NewFromInt(50)},
			expectedDiscount: "5",
			expectedTotal:    "45",
		},
		{
			name:        "given order below minimum should reject",
			param:       request.ApplyCoupon{Code: "FIVER", OrderTotal: decimal.NewFromInt(49)},
			expectedErr: inErrors.ErrCouponMinimumNotMet,
		},
		{
			name:        "given exhausted coupon should reject",
			param:       request.ApplyCoupon{Code: "ONCE", OrderTotal: decimal.NewFromInt(10)},
			expectedErr: inErrors.ErrCouponExhausted,
		},
		{
			name:        "given inactive coupon should reject",
			param:       request.ApplyCoupon{Code: "OFF", OrderTotal: decimal.NewFromInt(10)},
			expectedErr: inErrors.ErrCouponInvalid,
		},
		{
			name:        "given unknown coupon should reject as invalid",
			param:       request.ApplyCoupon{Code: "NOPE", OrderTotal: decimal.NewFromInt(10)},
			expectedErr: inErrors.ErrCouponInvalid,
		},
		{
			name:        "given coupon past its expiry should reject",
			param:       request.ApplyCoupon{Code: "TEN", OrderTotal: decimal.NewFromInt(10)},
			advance:     2 * time.Hour,
			expectedErr: inErrors.ErrCouponExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk.Advance(tt.advance)

			applied, err := svc.Apply(c, tt.param)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NormalizeCode(tt.param.Code), applied.Code)
			assert.True(t, applied.Discount.Equal(decimal.RequireFromString(tt.expectedDiscount)), "discount=%s", applied.Discount)
			assert.True(t, applied.Total.Equal(decimal.RequireFromString(tt.expectedTotal)), "total=%s", applied.Total)
		})
	}
}

func TestCouponAdministration(t *testing.T) {
	c, svc, _, teardown := setup(t)
	defer teardown()

	_, err := svc.InsertCoupon(c, request.Coupon{Code: "HALF", DiscountType: "percent", Value: decimal.NewFromInt(150)})
	var requestErr *inHttp.RequestError
	require.ErrorAs(t, err, &requestErr, "percent coupons above 100 should be rejected")

	created, err := svc.InsertCoupon(c, request.Coupon{Code: "half", DiscountType: "percent", Value: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Equal(t, "HALF", created.Code)
	assert.True(t, created.Active)

	_, err = svc.InsertCoupon(c, request.Coupon{Code: "HALF", DiscountType: "fixed", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, inErrors.ErrAlreadyExist)

	inactive := false
	updated, err := svc.UpdateCoupon(c, "half", request.Coupon{
		DiscountType: "fixed",
		Value:        decimal.NewFromInt(20),
		Active:       &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.DiscountType)
	assert.False(t, updated.Active)

	page, err := svc.FindCoupons(c, request.FindCoupons{Query: listing.Query{Status: "inactive"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "HALF", page.Items[0].Code)

	page, err = svc.FindCoupons(c, request.FindCoupons{Query: listing.Query{Status: "active"}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.DeleteCoupon(c, "HALF")
	require.NoError(t, err)
	_, err = svc.UpdateCoupon(c, "HALF", request.Coupon{DiscountType: "fixed", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, inErrors.ErrNotFound)
}
