package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/order/pkg/request"
)

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
	Color     *string         `json:"color,omitempty"`
}

type Order struct {
	ID               uuid.UUID       `json:"id"`
	CustomerID       *uuid.UUID      `json:"customerId,omitempty"`
	Email            string          `json:"email"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	Phone            string          `json:"phone"`
	ShippingAddress  request.Address `json:"shippingAddress"`
	BillingAddress   request.Address `json:"billingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	ShippingMethodID *uuid.UUID      `json:"shippingMethodId,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Taxes            decimal.Decimal `json:"taxes"`
	ShippingCost     decimal.Decimal `json:"shippingCost"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	CouponCode       *string         `json:"couponCode,omitempty"`
	Status           string          `json:"status"`
	OrderItems       []OrderItem     `json:"orderItems,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type ShippingMethod struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Cost          decimal.Decimal `json:"cost"`
	EstimatedDays int32           `json:"estimatedDays"`
}
