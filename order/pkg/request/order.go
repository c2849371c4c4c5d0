package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/internal/listing"
)

type Address struct {
	Line1      string `json:"line1"      validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city"       validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"    validate:"required"`
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// CheckoutForm is what the customer types on the checkout page. A missing
// billing address means billing equals shipping.
type CheckoutForm struct {
	Email           string   `json:"email"           validate:"required"`
	FirstName       string   `json:"firstName"       validate:"required"`
	LastName        string   `json:"lastName"        validate:"required"`
	Phone           string   `json:"phone"           validate:"required"`
	ShippingAddress Address  `json:"shippingAddress"`
	BillingAddress  *Address `json:"billingAddress"  validate:"omitempty"`
	PaymentMethod   string   `json:"paymentMethod"   validate:"required"`
}

// Normalized drops a blank billing address so it validates as absent instead
// of as four missing fields.
func (f CheckoutForm) Normalized() CheckoutForm {
	if f.BillingAddress != nil && f.BillingAddress.IsZero() {
		f.BillingAddress = nil
	}
	return f
}

func (f CheckoutForm) Billing() Address {
	if f.BillingAddress == nil || f.BillingAddress.IsZero() {
		return f.ShippingAddress
	}
	return *f.BillingAddress
}

type CheckoutItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"gte=1"`
	Color     *string   `json:"color,omitempty"`
}

type Shipping struct {
	MethodID uuid.UUID       `json:"methodId" validate:"required"`
	Cost     decimal.Decimal `json:"cost"`
}

// Checkout is the body of POST /checkout. Only product ids and quantities are
// sent, prices are looked up from the catalog.
type Checkout struct {
	Items      []CheckoutItem `json:"items"      validate:"required,min=1,dive"`
	Form       CheckoutForm   `json:"form"`
	Shipping   Shipping       `json:"shipping"   validate:"required"`
	CouponCode string         `json:"couponCode"`
}

type GetOrderById struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type UpdateOrderStatus struct {
	ID     uuid.UUID `json:"id"     validate:"required"`
	Status string    `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

type FindOrders struct {
	listing.Query
}

type FindShippingMethods struct {
	Country    string `json:"country"    validate:"required"`
	PostalCode string `json:"postalCode"`
}
