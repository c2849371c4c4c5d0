package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/cart/internal/otel"
	"github.com/Alturino/bagstore/cart/internal/storage"
	couponResponse "github.com/Alturino/bagstore/coupon/pkg/response"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/pricing"
)

var (
	ErrNegativePrice    = errors.New("item price must not be negative")
	ErrNegativeShipping = errors.New("shipping cost must not be negative")
	ErrMissingItemID    = errors.New("item id is required")
	ErrNoCouponApplier  = errors.New("coupons are not available")
)

type Item struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Images   []string        `json:"images,omitempty"`
	Color    *string         `json:"color,omitempty"`
}

type AppliedCoupon struct {
	Code       string          `json:"code"`
	Discount   decimal.Decimal `json:"discount"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

type Snapshot struct {
	Items         []Item          `json:"items"`
	AppliedCoupon *AppliedCoupon  `json:"appliedCoupon,omitempty"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	Totals        pricing.Totals  `json:"totals"`
	TotalCount    int             `json:"totalCount"`
}

// CouponApplier asks the backend what a coupon code is worth against orderTotal.
type CouponApplier interface {
	ApplyCoupon(
		c context.Context,
		code string,
		orderTotal decimal.Decimal,
	) (couponResponse.AppliedCoupon, error)
}

// Keys are the storage keys one cart session persists under.
type Keys struct {
	Items    string
	Coupon   string
	Shipping string
}

func KeysFor(session string) Keys {
	return Keys{
		Items:    fmt.Sprintf("cart:%s:cartItems", session),
		Coupon:   fmt.Sprintf("cart:%s:appliedCoupon", session),
		Shipping: fmt.Sprintf("cart:%s:shippingCost", session),
	}
}

func (k Keys) All() []string {
	return []string{k.Items, k.Coupon, k.Shipping}
}

type Option func(*Store)

func WithCouponApplier(applier CouponApplier) Option {
	return func(s *Store) {
		s.applier = applier
	}
}

// Store is one cart session. Mutations write through to storage once the
// store has been hydrated; before that only the in-memory state changes.
type Store struct {
	mu       sync.Mutex
	keys     Keys
	storage  storage.Storage
	applier  CouponApplier
	taxRate  decimal.Decimal
	hydrated bool

	items    []Item
	coupon   *AppliedCoupon
	shipping decimal.Decimal
}

func New(session string, s storage.Storage, taxRate decimal.Decimal, opts ...Option) *Store {
	store := &Store{
		keys:     KeysFor(session),
		storage:  s,
		taxRate:  taxRate,
		items:    []Item{},
		shipping: decimal.Zero,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) Keys() Keys {
	return s.keys
}

func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func load[T any](c context.Context, st storage.Storage, key string, out *T) (bool, error) {
	raw, err := st.Load(c, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed loading key=%s with error=%w", key, err)
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed decoding key=%s with error=%w", key, err)
	}
	return true, nil
}

// Hydrate reads the persisted cart once. A corrupt document is returned as an
// error and the store stays unhydrated so nothing overwrites it.
func (s *Store) Hydrate(c context.Context) error {
	c, span := otel.Tracer.Start(c, "Store Hydrate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Hydrate").
		Str(log.KeyCacheKey, s.keys.Items).
		Logger()

	if s.hydrated {
		logger.Trace().Msg("store already hydrated")
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "loading cart items").Logger()
	logger.Trace().Msg("loading cart items")
	items := []Item{}
	if _, err := load(c, s.storage, s.keys.Items, &items); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if items == nil {
		items = []Item{}
	}
	logger.Trace().Int(log.KeyCartItems, len(items)).Msg("loaded cart items")

	logger = logger.With().Str(log.KeyProcess, "loading applied coupon").Logger()
	logger.Trace().Msg("loading applied coupon")
	var coupon *AppliedCoupon
	if _, err := load(c, s.storage, s.keys.Coupon, &coupon); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("loaded applied coupon")

	logger = logger.With().Str(log.KeyProcess, "loading shipping cost").Logger()
	logger.Trace().Msg("loading shipping cost")
	shipping := decimal.Zero
	if _, err := load(c, s.storage, s.keys.Shipping, &shipping); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("loaded shipping cost")

	s.items = items
	s.coupon = coupon
	s.shipping = shipping
	s.hydrated = true
	return nil
}

type state struct {
	items    []Item
	coupon   *AppliedCoupon
	shipping decimal.Decimal
}

func (s *Store) state() state {
	return state{items: cloneItems(s.items), coupon: cloneCoupon(s.coupon), shipping: s.shipping}
}

func (s *Store) restore(st state) {
	s.items = st.items
	s.coupon = st.coupon
	s.shipping = st.shipping
}

func (s *Store) value(key string) interface{} {
	switch key {
	case s.keys.Items:
		return s.items
	case s.keys.Coupon:
		return s.coupon
	default:
		return s.shipping
	}
}

// mutate applies fn and persists the touched keys. When persisting fails the
// in-memory state is rolled back so it never drifts from storage.
func (s *Store) mutate(c context.Context, name string, fn func() error, touched ...string) error {
	c, span := otel.Tracer.Start(c, "Store "+name)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store "+name).
		Logger()

	before := s.state()
	logger = logger.With().Str(log.KeyProcess, "applying mutation").Logger()
	logger.Trace().Msg("applying mutation")
	if err := fn(); err != nil {
		s.restore(before)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("applied mutation")

	if !s.hydrated {
		logger.Trace().Msg("store not hydrated yet skipping persistence")
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "persisting cart").Logger()
	for _, key := range touched {
		lg := logger.With().Str(log.KeyCacheKey, key).Logger()
		lg.Trace().Msg("persisting key")
		raw, err := json.Marshal(s.value(key))
		if err == nil {
			err = s.storage.Save(c, key, raw)
		}
		if err != nil {
			s.restore(before)
			err = fmt.Errorf("failed persisting key=%s with error=%w", key, err)
			inOtel.RecordError(err, span)
			lg.Error().Err(err).Msg(err.Error())
			return err
		}
		lg.Trace().Msg("persisted key")
	}
	return nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// AddItem merges item into the cart. Adding an id that is already present
// increases its quantity and keeps the price it was first added with.
func (s *Store) AddItem(c context.Context, item Item) error {
	return s.mutate(c, "AddItem", func() error {
		if item.ID == uuid.Nil {
			return ErrMissingItemID
		}
		if item.Price.IsNegative() {
			return ErrNegativePrice
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i := s.indexOf(item.ID); i >= 0 {
			s.items[i].Quantity += item.Quantity
			return nil
		}
		item.Images = append([]string(nil), item.Images...)
		s.items = append(s.items, item)
		return nil
	}, s.keys.Items)
}

func (s *Store) RemoveItem(c context.Context, id uuid.UUID) error {
	return s.mutate(c, "RemoveItem", func() error {
		if i := s.indexOf(id); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		return nil
	}, s.keys.Items)
}

func (s *Store) IncreaseQuantity(c context.Context, id uuid.UUID) error {
	return s.mutate(c, "IncreaseQuantity", func() error {
		if i := s.indexOf(id); i >= 0 {
			s.items[i].Quantity++
		}
		return nil
	}, s.keys.Items)
}

// DecreaseQuantity removes the line once its quantity would reach zero.
func (s *Store) DecreaseQuantity(c context.Context, id uuid.UUID) error {
	return s.mutate(c, "DecreaseQuantity", func() error {
		i := s.indexOf(id)
		if i < 0 {
			return nil
		}
		if s.items[i].Quantity <= 1 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
		s.items[i].Quantity--
		return nil
	}, s.keys.Items)
}

func (s *Store) Clear(c context.Context) error {
	return s.mutate(c, "Clear", func() error {
		s.items = []Item{}
		return nil
	}, s.keys.Items)
}

func (s *Store) SetShipping(c context.Context, cost decimal.Decimal) error {
	return s.mutate(c, "SetShipping", func() error {
		if cost.IsNegative() {
			return ErrNegativeShipping
		}
		s.shipping = cost
		return nil
	}, s.keys.Shipping)
}

// ApplyCoupon asks the applier for the discount of code and stores it clamped
// to orderTotal. On failure the previous coupon stays applied.
func (s *Store) ApplyCoupon(c context.Context, code string, orderTotal decimal.Decimal) error {
	c, span := otel.Tracer.Start(c, "Store ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store ApplyCoupon").
		Str(log.KeyCouponCode, code).
		Logger()

	if s.applier == nil {
		inOtel.RecordError(ErrNoCouponApplier, span)
		logger.Error().Err(ErrNoCouponApplier).Msg(ErrNoCouponApplier.Error())
		return ErrNoCouponApplier
	}

	logger = logger.With().Str(log.KeyProcess, "applying coupon").Logger()
	logger.Trace().Msg("applying coupon")
	applied, err := s.applier.ApplyCoupon(c, code, orderTotal)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("applied coupon")

	discount := pricing.ClampDiscount(applied.Discount, orderTotal)
	if applied.Code != "" {
		code = applied.Code
	}
	c = logger.WithContext(c)
	return s.mutate(c, "StoreCoupon", func() error {
		s.coupon = &AppliedCoupon{
			Code:       code,
			Discount:   discount,
			OrderTotal: orderTotal.Sub(discount),
		}
		return nil
	}, s.keys.Coupon)
}

func (s *Store) ClearCoupon(c context.Context) error {
	return s.mutate(c, "ClearCoupon", func() error {
		s.coupon = nil
		return nil
	}, s.keys.Coupon)
}

// Reset drops the whole session: items, coupon and shipping.
func (s *Store) Reset(c context.Context) error {
	c, span := otel.Tracer.Start(c, "Store Reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Reset").
		Str(log.KeyProcess, "deleting cart keys").
		Logger()

	if s.hydrated {
		logger.Trace().Msg("deleting cart keys")
		if err := s.storage.Delete(c, s.keys.All()...); err != nil {
			err = fmt.Errorf("failed deleting cart keys with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Trace().Msg("deleted cart keys")
	}

	s.items = []Item{}
	s.coupon = nil
	s.shipping = decimal.Zero
	return nil
}

func (s *Store) lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, pricing.Line{Price: item.Price, Quantity: item.Quantity})
	}
	return lines
}

func (s *Store) totals() pricing.Totals {
	discount := decimal.Zero
	if s.coupon != nil {
		discount = s.coupon.Discount
	}
	return pricing.Compute(s.lines(), s.shipping, discount, s.taxRate)
}

func (s *Store) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals()
}

func (s *Store) Subtotal() decimal.Decimal {
	return s.Totals().Subtotal
}

func (s *Store) Taxes() decimal.Decimal {
	return s.Totals().Taxes
}

func (s *Store) Total() decimal.Decimal {
	return s.Totals().Total
}

// TotalCount is the number of units in the cart, not the number of lines.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *Store) AppliedCoupon() *AppliedCoupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCoupon(s.coupon)
}

func (s *Store) ShippingCost() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return Snapshot{
		Items:         cloneItems(s.items),
		AppliedCoupon: cloneCoupon(s.coupon),
		ShippingCost:  s.shipping,
		Totals:        s.totals(),
		TotalCount:    count,
	}
}

func cloneItems(items []Item) []Item {
	cloned := make([]Item, len(items))
	for i, item := range items {
		item.Images = append([]string(nil), item.Images...)
		if item.Color != nil {
			color := *item.Color
			item.Color = &color
		}
		cloned[i] = item
	}
	return cloned
}

func cloneCoupon(coupon *AppliedCoupon) *AppliedCoupon {
	if coupon == nil {
		return nil
	}
	cloned := *coupon
	return &cloned
}
