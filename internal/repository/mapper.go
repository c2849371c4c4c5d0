package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	contactResponse "github.com/Alturino/bagstore/contact/pkg/response"
	contentResponse "github.com/Alturino/bagstore/content/pkg/response"
	couponResponse "github.com/Alturino/bagstore/coupon/pkg/response"
	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
	orderResponse "github.com/Alturino/bagstore/order/pkg/response"
	"github.com/Alturino/bagstore/pricing"
	productResponse "github.com/Alturino/bagstore/product/pkg/response"
	userResponse "github.com/Alturino/bagstore/user/pkg/response"
)

func Numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func NullableNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return Numeric(*d)
}

func Decimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func nullableDecimal(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return nil
	}
	d := decimal.NewFromBigInt(n.Int, n.Exp)
	return &d
}

func NullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	return &id.UUID
}

func Text(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func Timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true, InfinityModifier: pgtype.Finite}
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func Int4(i *int32) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *i, Valid: true}
}

func int4Ptr(i pgtype.Int4) *int32 {
	if !i.Valid {
		return nil
	}
	return &i.Int32
}

// Bool maps the listing status filter "active"/"inactive" (or
// "subscribed"/"unsubscribed") onto a nullable boolean.
func Bool(status string) pgtype.Bool {
	switch status {
	case "active", "subscribed", "true":
		return pgtype.Bool{Bool: true, Valid: true}
	case "inactive", "unsubscribed", "false":
		return pgtype.Bool{Bool: false, Valid: true}
	default:
		return pgtype.Bool{}
	}
}

func (p Product) Response() productResponse.Product {
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productResponse.Product{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        Decimal(p.Price),
		Quantity:     p.Quantity,
		CollectionID: uuidPtr(p.CollectionID),
		Colors:       colors,
		Images:       images,
		CreatedAt:    p.CreatedAt.Time,
		UpdatedAt:    p.UpdatedAt.Time,
	}
}

func (o Order) Response() (orderResponse.Order, error) {
	shipping := orderRequest.Address{}
	if err := json.Unmarshal(o.ShippingAddress, &shipping); err != nil {
		return orderResponse.Order{}, err
	}
	billing := orderRequest.Address{}
	if err := json.Unmarshal(o.BillingAddress, &billing); err != nil {
		return orderResponse.Order{}, err
	}
	return orderResponse.Order{
		ID:               o.ID,
		CustomerID:       uuidPtr(o.CustomerID),
		Email:            o.Email,
		FirstName:        o.FirstName,
		LastName:         o.LastName,
		Phone:            o.Phone,
		ShippingAddress:  shipping,
		BillingAddress:   billing,
		PaymentMethod:    o.PaymentMethod,
		ShippingMethodID: uuidPtr(o.ShippingMethodID),
		Subtotal:         Decimal(o.Subtotal),
		Taxes:            Decimal(o.Taxes),
		ShippingCost:     Decimal(o.ShippingCost),
		Discount:         Decimal(o.Discount),
		Total:            Decimal(o.Total),
		CouponCode:       textPtr(o.CouponCode),
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt.Time,
		UpdatedAt:        o.UpdatedAt.Time,
	}, nil
}

func (f FindOrderByIdRow) Response() (orderResponse.Order, error) {
	order, err := f.Order.Response()
	if err != nil {
		return orderResponse.Order{}, err
	}
	orderItems := []orderResponse.OrderItem{}
	if err = json.Unmarshal(f.OrderItems, &orderItems); err != nil {
		return orderResponse.Order{}, err
	}
	order.OrderItems = orderItems
	return order, nil
}

func (o OrderItem) Response() orderResponse.OrderItem {
	return orderResponse.OrderItem{
		ID:        o.ID,
		ProductID: o.ProductID,
		Name:      o.Name,
		Price:     Decimal(o.Price),
		Quantity:  o.Quantity,
		Color:     textPtr(o.Color),
	}
}

func (s ShippingMethod) Response() orderResponse.ShippingMethod {
	return orderResponse.ShippingMethod{
		ID:            s.ID,
		Name:          s.Name,
		Cost:          Decimal(s.Cost),
		EstimatedDays: s.EstimatedDays,
	}
}

func (c Coupon) Response() couponResponse.Coupon {
	return couponResponse.Coupon{
		Code:          c.Code,
		DiscountType:  string(c.DiscountType),
		Value:         Decimal(c.Value),
		MinOrderTotal: nullableDecimal(c.MinOrderTotal),
		ExpiresAt:     timePtr(c.ExpiresAt),
		UsageLimit:    int4Ptr(c.UsageLimit),
		UsedCount:     c.UsedCount,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt.Time,
		UpdatedAt:     c.UpdatedAt.Time,
	}
}

func (c Coupon) Rule() pricing.CouponRule {
	return pricing.CouponRule{
		DiscountType:  string(c.DiscountType),
		Value:         Decimal(c.Value),
		MinOrderTotal: nullableDecimal(c.MinOrderTotal),
		ExpiresAt:     timePtr(c.ExpiresAt),
		UsageLimit:    int4Ptr(c.UsageLimit),
		UsedCount:     c.UsedCount,
		Active:        c.Active,
	}
}

func (s Slide) Response() contentResponse.Slide {
	return contentResponse.Slide{
		ID:        s.ID,
		Title:     s.Title,
		Subtitle:  s.Subtitle,
		Image:     s.Image,
		Link:      s.Link,
		Position:  s.Position,
		Active:    s.Active,
		CreatedAt: s.CreatedAt.Time,
		UpdatedAt: s.UpdatedAt.Time,
	}
}

func (c Collection) Response() contentResponse.Collection {
	return contentResponse.Collection{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Position:    c.Position,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt.Time,
		UpdatedAt:   c.UpdatedAt.Time,
	}
}

func (t Testimonial) Response() contentResponse.Testimonial {
	return contentResponse.Testimonial{
		ID:        t.ID,
		Name:      t.Name,
		Quote:     t.Quote,
		Rating:    t.Rating,
		Image:     t.Image,
		Position:  t.Position,
		Active:    t.Active,
		CreatedAt: t.CreatedAt.Time,
		UpdatedAt: t.UpdatedAt.Time,
	}
}

func (c Contact) Response() contactResponse.Contact {
	return contactResponse.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt.Time,
	}
}

func (n NewsletterSubscriber) Response() contactResponse.Subscriber {
	return contactResponse.Subscriber{
		ID:         n.ID,
		Email:      n.Email,
		Subscribed: n.Subscribed,
		CreatedAt:  n.CreatedAt.Time,
		UpdatedAt:  n.UpdatedAt.Time,
	}
}

func (a Admin) Response() userResponse.Admin {
	return userResponse.Admin{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt.Time,
	}
}
