package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/cart/internal/otel"
	"github.com/Alturino/bagstore/cart/internal/storage"
	"github.com/Alturino/bagstore/cart/internal/store"
	"github.com/Alturino/bagstore/cart/pkg/request"
	couponResponse "github.com/Alturino/bagstore/coupon/pkg/response"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/metrics"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
	orderResponse "github.com/Alturino/bagstore/order/pkg/response"
	productResponse "github.com/Alturino/bagstore/product/pkg/response"
)

// Gateway is the part of the backend API the cart service talks to.
type Gateway interface {
	Product(c context.Context, id uuid.UUID) (productResponse.Product, error)
	ApplyCoupon(c context.Context, code string, orderTotal decimal.Decimal) (couponResponse.AppliedCoupon, error)
	ShippingMethods(c context.Context, country string, postalCode string) ([]orderResponse.ShippingMethod, error)
	PlaceOrder(c context.Context, param orderRequest.Checkout) (orderResponse.Order, error)
	Order(c context.Context, id uuid.UUID) (orderResponse.Order, error)
}

type CartService struct {
	carts    storage.Storage
	shipping storage.Storage
	gateway  Gateway
	locks    *kmutex.Kmutex
	taxRate  decimal.Decimal
	metrics  *metrics.Collector
}

// NewCartService keeps carts in carts and caches shipping options per
// destination in shippingCache.
func NewCartService(
	carts storage.Storage,
	shippingCache storage.Storage,
	gateway Gateway,
	taxRate decimal.Decimal,
) *CartService {
	return &CartService{
		carts:    carts,
		shipping: shippingCache,
		gateway:  gateway,
		locks:    kmutex.New(),
		taxRate:  taxRate,
		metrics:  metrics.Default(),
	}
}

// withStore runs fn against the hydrated cart of session while holding the
// session lock and returns the resulting snapshot.
func (svc *CartService) withStore(
	c context.Context,
	session string,
	operation string,
	fn func(context.Context, *store.Store) error,
) (store.Snapshot, error) {
	c, span := otel.Tracer.Start(c, "CartService "+operation)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService "+operation).
		Str(log.KeySession, session).
		Logger()

	svc.locks.Lock(session)
	defer svc.locks.Unlock(session)

	logger = logger.With().Str(log.KeyProcess, "hydrating cart").Logger()
	logger.Trace().Msg("hydrating cart")
	c = logger.WithContext(c)
	cart := store.New(session, svc.carts, svc.taxRate, store.WithCouponApplier(svc.gateway))
	if err := cart.Hydrate(c); err != nil {
		err = fmt.Errorf("failed hydrating cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Snapshot{}, err
	}
	logger.Trace().Msg("hydrated cart")

	if fn == nil {
		return cart.Snapshot(), nil
	}

	logger = logger.With().Str(log.KeyProcess, operation).Logger()
	logger.Info().Msgf("running %s", operation)
	if err := fn(c, cart); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Snapshot(), err
	}
	svc.metrics.CartMutated(operation)
	logger.Info().Msgf("finished %s", operation)

	return cart.Snapshot(), nil
}

func (svc *CartService) Cart(c context.Context, session string) (store.Snapshot, error) {
	return svc.withStore(c, session, "Cart", nil)
}

// AddItem looks the product up in the catalog and adds it with the price
// the catalog has right now.
func (svc *CartService) AddItem(
	c context.Context,
	session string,
	param request.AddItem,
) (store.Snapshot, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyProductID, param.ProductID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := svc.gateway.Product(c, param.ProductID)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", param.ProductID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Snapshot{}, err
	}
	logger.Info().Msg("found product")

	c = logger.WithContext(c)
	return svc.withStore(c, session, "AddItem", func(c context.Context, cart *store.Store) error {
		return cart.AddItem(c, store.Item{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: param.Quantity,
			Images:   product.Images,
			Color:    param.Color,
		})
	})
}

func (svc *CartService) RemoveItem(c context.Context, session string, id uuid.UUID) (store.Snapshot, error) {
	return svc.withStore(c, session, "RemoveItem", func(c context.Context, cart *store.Store) error {
		return cart.RemoveItem(c, id)
	})
}

func (svc *CartService) IncreaseQuantity(c context.Context, session string, id uuid.UUID) (store.Snapshot, error) {
	return svc.withStore(c, session, "IncreaseQuantity", func(c context.Context, cart *store.Store) error {
		return cart.IncreaseQuantity(c, id)
	})
}

func (svc *CartService) DecreaseQuantity(c context.Context, session string, id uuid.UUID) (store.Snapshot, error) {
	return svc.withStore(c, session, "DecreaseQuantity", func(c context.Context, cart *store.Store) error {
		return cart.DecreaseQuantity(c, id)
	})
}

func (svc *CartService) Clear(c context.Context, session string) (store.Snapshot, error) {
	return svc.withStore(c, session, "Clear", func(c context.Context, cart *store.Store) error {
		return cart.Clear(c)
	})
}

// ApplyCoupon prices code against the current pre discount total of the cart.
func (svc *CartService) ApplyCoupon(
	c context.Context,
	session string,
	param request.ApplyCoupon,
) (store.Snapshot, error) {
	snapshot, err := svc.withStore(c, session, "ApplyCoupon", func(c context.Context, cart *store.Store) error {
		if cart.TotalCount() == 0 {
			return inErrors.ErrEmptyCart
		}
		return cart.ApplyCoupon(c, param.Code, cart.Totals().PreDiscount())
	})
	if !errors.Is(err, inErrors.ErrEmptyCart) {
		svc.metrics.CouponApplied(err)
	}
	return snapshot, err
}

func (svc *CartService) ClearCoupon(c context.Context, session string) (store.Snapshot, error) {
	return svc.withStore(c, session, "ClearCoupon", func(c context.Context, cart *store.Store) error {
		return cart.ClearCoupon(c)
	})
}
