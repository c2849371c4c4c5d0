package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/cart/internal/otel"
	"github.com/Alturino/bagstore/cart/internal/storage"
	"github.com/Alturino/bagstore/cart/internal/store"
	"github.com/Alturino/bagstore/cart/pkg/request"
	"github.com/Alturino/bagstore/internal/common/validate"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
	orderResponse "github.com/Alturino/bagstore/order/pkg/response"
)

var (
	ErrPlaceOrder             = errors.New("failed placing order, please try again")
	ErrOrderUnavailable       = errors.New("we could not find this order, please try again")
	ErrShippingMethodNotFound = errors.New("shipping method is not available for this destination")
)

// ValidationError lists every problem found in a checkout submission.
type ValidationError struct {
	Errors []string `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid checkout form"
	}
	return strings.Join(e.Errors, ", ")
}

func shippingCacheKey(country string, postalCode string) string {
	return fmt.Sprintf(
		"shipping:%s:%s",
		strings.ToLower(strings.TrimSpace(country)),
		strings.ToLower(strings.TrimSpace(postalCode)),
	)
}

// ShippingMethods returns the options for a destination, asking the backend
// only when the destination has not been seen recently.
func (svc *CartService) ShippingMethods(
	c context.Context,
	param request.ShippingMethods,
) ([]orderResponse.ShippingMethod, error) {
	c, span := otel.Tracer.Start(c, "CartService ShippingMethods")
	defer span.End()

	cacheKey := shippingCacheKey(param.Country, param.PostalCode)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ShippingMethods").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding shipping methods in cache").Logger()
	logger.Trace().Msg("finding shipping methods in cache")
	cached, err := svc.shipping.Load(c, cacheKey)
	if err == nil {
		methods := []orderResponse.ShippingMethod{}
		if err = json.Unmarshal(cached, &methods); err == nil {
			logger.Trace().Msg("found shipping methods in cache")
			return methods, nil
		}
		logger.Warn().Err(err).Msg("ignoring corrupt shipping methods in cache")
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Msg("failed reading shipping methods from cache")
	}

	logger = logger.With().Str(log.KeyProcess, "fetching shipping methods").Logger()
	logger.Info().Msg("fetching shipping methods")
	methods, err := svc.gateway.ShippingMethods(c, param.Country, param.PostalCode)
	if err != nil {
		err = fmt.Errorf("failed fetching shipping methods with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Any(log.KeyShippingMethods, methods).Logger()
	logger.Info().Msg("fetched shipping methods")

	logger = logger.With().Str(log.KeyProcess, "caching shipping methods").Logger()
	raw, err := json.Marshal(methods)
	if err == nil {
		err = svc.shipping.Save(c, cacheKey, raw)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed caching shipping methods")
	}

	return methods, nil
}

func (svc *CartService) findShippingMethod(
	c context.Context,
	country string,
	postalCode string,
	id uuid.UUID,
) (orderResponse.ShippingMethod, error) {
	methods, err := svc.ShippingMethods(c, request.ShippingMethods{Country: country, PostalCode: postalCode})
	if err != nil {
		return orderResponse.ShippingMethod{}, err
	}
	for _, method := range methods {
		if method.ID == id {
			return method, nil
		}
	}
	return orderResponse.ShippingMethod{}, ErrShippingMethodNotFound
}

// SelectShipping sets the cart shipping cost to the cost of one of the
// destination's methods.
func (svc *CartService) SelectShipping(
	c context.Context,
	session string,
	param request.SelectShipping,
) (store.Snapshot, error) {
	c, span := otel.Tracer.Start(c, "CartService SelectShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService SelectShipping").
		Str(log.KeyDestination, param.Country+" "+param.PostalCode).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding shipping method").Logger()
	logger.Info().Msg("finding shipping method")
	c = logger.WithContext(c)
	method, err := svc.findShippingMethod(c, param.Country, param.PostalCode, param.MethodID)
	if err != nil {
		err = fmt.Errorf("failed finding shipping method with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Snapshot{}, err
	}
	logger.Info().Msg("found shipping method")

	return svc.withStore(c, session, "SelectShipping", func(c context.Context, cart *store.Store) error {
		return cart.SetShipping(c, method.Cost)
	})
}

func checkoutItems(items []store.Item) []orderRequest.CheckoutItem {
	checkoutItems := make([]orderRequest.CheckoutItem, 0, len(items))
	for _, item := range items {
		checkoutItems = append(checkoutItems, orderRequest.CheckoutItem{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Color:     item.Color,
		})
	}
	return checkoutItems
}

// Checkout validates the form, submits the cart as an order and clears the
// cart. A failed submission leaves the cart as it was.
func (svc *CartService) Checkout(
	c context.Context,
	session string,
	param request.Checkout,
) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "CartService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Checkout").
		Str(log.KeySession, session).
		Logger()

	svc.locks.Lock(session)
	defer svc.locks.Unlock(session)

	logger = logger.With().Str(log.KeyProcess, "hydrating cart").Logger()
	logger.Trace().Msg("hydrating cart")
	c = logger.WithContext(c)
	cart := store.New(session, svc.carts, svc.taxRate)
	if err := cart.Hydrate(c); err != nil {
		err = fmt.Errorf("failed hydrating cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	logger.Trace().Msg("hydrated cart")

	logger = logger.With().Str(log.KeyProcess, "validating checkout form").Logger()
	logger.Info().Msg("validating checkout form")
	messages := []string{}
	param.Form = param.Form.Normalized()
	if err := validate.New().StructCtx(c, param); err != nil {
		messages = append(messages, validate.Messages(err)...)
	}
	if cart.TotalCount() == 0 {
		messages = append(messages, inErrors.ErrEmptyCart.Error())
	}
	if len(messages) > 0 {
		err := &ValidationError{Errors: messages}
		inOtel.RecordError(err, span)
		logger.Error().Strs(log.KeyValidationErrors, messages).Msg("checkout form is invalid")
		return orderResponse.Order{}, err
	}
	logger.Info().Msg("validated checkout form")

	logger = logger.With().Str(log.KeyProcess, "finding shipping method").Logger()
	logger.Info().Msg("finding shipping method")
	address := param.Form.ShippingAddress
	method, err := svc.findShippingMethod(c, address.Country, address.PostalCode, param.ShippingMethodID)
	if errors.Is(err, ErrShippingMethodNotFound) {
		err := &ValidationError{Errors: []string{"shippingMethodId " + ErrShippingMethodNotFound.Error()}}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.metrics.OrderPlaced(err)
		return orderResponse.Order{}, ErrPlaceOrder
	}
	logger.Info().Msg("found shipping method")

	checkout := orderRequest.Checkout{
		Items:    checkoutItems(cart.Items()),
		Form:     param.Form,
		Shipping: orderRequest.Shipping{MethodID: method.ID, Cost: method.Cost},
	}
	if coupon := cart.AppliedCoupon(); coupon != nil {
		checkout.CouponCode = coupon.Code
	}

	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Info().Msg("placing order")
	order, err := svc.gateway.PlaceOrder(c, checkout)
	svc.metrics.OrderPlaced(err)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, ErrPlaceOrder
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("placed order")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	if err = cart.Reset(c); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg("order placed but clearing the cart failed")
		return order, nil
	}
	logger.Info().Msg("cleared cart")

	return order, nil
}

// Order fetches an order for the confirmation page.
func (svc *CartService) Order(c context.Context, id uuid.UUID) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "CartService Order")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Order").
		Str(log.KeyOrderID, id.String()).
		Str(log.KeyProcess, "finding order").
		Logger()

	logger.Info().Msg("finding order")
	order, err := svc.gateway.Order(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, ErrOrderUnavailable
	}
	logger.Info().Msg("found order")

	return order, nil
}
