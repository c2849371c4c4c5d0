package request

import (
	"github.com/google/uuid"

	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
)

// AddItem only names the product. Name, price and images are looked up from
// the catalog when the line is added.
type AddItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"`
	Color     *string   `json:"color,omitempty"`
}

type ApplyCoupon struct {
	Code string `json:"code" validate:"required"`
}

type ShippingMethods struct {
	Country    string `json:"country"    validate:"required"`
	PostalCode string `json:"postalCode"`
}

type SelectShipping struct {
	Country    string    `json:"country"    validate:"required"`
	PostalCode string    `json:"postalCode"`
	MethodID   uuid.UUID `json:"methodId"   validate:"required"`
}

type Checkout struct {
	Form             orderRequest.CheckoutForm `json:"form"`
	ShippingMethodID uuid.UUID                 `json:"shippingMethodId" validate:"required"`
}
