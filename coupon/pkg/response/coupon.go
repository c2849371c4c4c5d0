package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppliedCoupon struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type Coupon struct {
	Code          string           `json:"code"`
	DiscountType  string           `json:"discountType"`
	Value         decimal.Decimal  `json:"value"`
	MinOrderTotal *decimal.Decimal `json:"minOrderTotal,omitempty"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
	UsageLimit    *int32           `json:"usageLimit,omitempty"`
	UsedCount     int32            `json:"usedCount"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
