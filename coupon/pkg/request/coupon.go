package request

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/internal/listing"
)

type ApplyCoupon struct {
	Code       string          `json:"code"       validate:"required"`
	OrderTotal decimal.Decimal `json:"orderTotal" validate:"price"`
}

// Coupon is the body of /coupons/create and /coupons/{code}/update. On update
// the code comes from the path.
type Coupon struct {
	Code          string           `json:"code"          validate:"required,max=64"`
	DiscountType  string           `json:"discountType"  validate:"required,oneof=percent fixed"`
	Value         decimal.Decimal  `json:"value"         validate:"price"`
	MinOrderTotal *decimal.Decimal `json:"minOrderTotal"`
	ExpiresAt     *time.Time       `json:"expiresAt"`
	UsageLimit    *int32           `json:"usageLimit"    validate:"omitempty,gte=1"`
	Active        *bool            `json:"active"`
}

func (c Coupon) IsActive() bool {
	return c.Active == nil || *c.Active
}

type FindCoupons struct {
	listing.Query
}
