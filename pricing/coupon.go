package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/bagstore/internal/errors"
)

const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

var hundred = decimal.NewFromInt(100)

// CouponRule is everything needed to price a coupon against an order total.
type CouponRule struct {
	DiscountType  string
	Value         decimal.Decimal
	MinOrderTotal *decimal.Decimal
	ExpiresAt     *time.Time
	UsageLimit    *int32
	UsedCount     int32
	Active        bool
}

// Discount returns the amount the coupon takes off orderTotal at now, already
// clamped to [0, orderTotal].
func (r CouponRule) Discount(orderTotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !r.Active {
		return decimal.Zero, inErrors.ErrCouponInvalid
	}
	if r.ExpiresAt != nil && !now.Before(*r.ExpiresAt) {
		return decimal.Zero, inErrors.ErrCouponExpired
	}
	if r.UsageLimit != nil && r.UsedCount >= *r.UsageLimit {
		return decimal.Zero, inErrors.ErrCouponExhausted
	}
	if r.MinOrderTotal != nil && orderTotal.LessThan(*r.MinOrderTotal) {
		return decimal.Zero, inErrors.ErrCouponMinimumNotMet
	}

	var discount decimal.Decimal
	switch r.DiscountType {
	case DiscountPercent:
		discount = orderTotal.Mul(r.Value).Div(hundred).Round(2)
	case DiscountFixed:
		discount = r.Value
	default:
		return decimal.Zero, inErrors.ErrCouponInvalid
	}
	return ClampDiscount(discount, orderTotal), nil
}
