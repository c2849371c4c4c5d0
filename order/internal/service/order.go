package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/clock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/internal/cache"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/metrics"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
	"github.com/Alturino/bagstore/order/internal/otel"
	"github.com/Alturino/bagstore/order/pkg/request"
	"github.com/Alturino/bagstore/order/pkg/response"
	"github.com/Alturino/bagstore/pricing"
)

type OrderService struct {
	pool         *pgxpool.Pool
	queries      *repository.Queries
	cache        *redis.Client
	publisher    event.Publisher
	metrics      *metrics.Collector
	clock        clock.Clock
	taxRate      decimal.Decimal
	defaultLimit int
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cacheClient *redis.Client,
	publisher event.Publisher,
	collector *metrics.Collector,
	clk clock.Clock,
	taxRate decimal.Decimal,
	defaultLimit int,
) *OrderService {
	if clk == nil {
		clk = clock.WallClock
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &OrderService{
		pool:         pool,
		queries:      queries,
		cache:        cacheClient,
		publisher:    publisher,
		metrics:      collector,
		clock:        clk,
		taxRate:      taxRate,
		defaultLimit: defaultLimit,
	}
}

var transitions = map[repository.OrderStatus][]repository.OrderStatus{
	repository.OrderStatusPending:   {repository.OrderStatusConfirmed, repository.OrderStatusCancelled},
	repository.OrderStatusConfirmed: {repository.OrderStatusShipped, repository.OrderStatusCancelled},
	repository.OrderStatusShipped:   {repository.OrderStatusDelivered},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from repository.OrderStatus, to repository.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type line struct {
	product  repository.Product
	color    *string
	quantity int
}

func lineKey(productID uuid.UUID, color *string) string {
	if color == nil {
		return productID.String()
	}
	return productID.String() + ":" + strings.ToLower(*color)
}

// mergeItems folds repeated product and color pairs into one line and sums the
// demanded quantity per product.
func mergeItems(items []request.CheckoutItem) ([]request.CheckoutItem, map[uuid.UUID]int) {
	merged := []request.CheckoutItem{}
	index := map[string]int{}
	demand := map[uuid.UUID]int{}
	for _, item := range items {
		demand[item.ProductID] += item.Quantity
		key := lineKey(item.ProductID, item.Color)
		if i, ok := index[key]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}
	return merged, demand
}

func shipsTo(method repository.ShippingMethod, address request.Address) bool {
	if !method.Active {
		return false
	}
	if method.Country != "*" && !strings.EqualFold(method.Country, strings.TrimSpace(address.Country)) {
		return false
	}
	return method.PostalPrefix == "" || strings.HasPrefix(strings.TrimSpace(address.PostalCode), method.PostalPrefix)
}

// Checkout places an order from catalog prices, redeeming the coupon and
// decrementing stock in one transaction. The shipping cost sent by the client
// is ignored in favour of the stored method.
func (svc *OrderService) Checkout(
	c context.Context,
	param request.Checkout,
	customerID *uuid.UUID,
) (response.Order, error) {
	order, err := svc.checkout(c, param, customerID)
	svc.metrics.OrderPlaced(err)
	return order, err
}

func (svc *OrderService) checkout(
	c context.Context,
	param request.Checkout,
	customerID *uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	orderID := uuid.New()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeyOrderID, orderID.String()).
		Str(log.KeyEmail, param.Form.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer func() {
		if err := tx.Rollback(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	queries := svc.queries.WithTx(tx)
	logger.Trace().Msg("initialized transaction")

	items, demand := mergeItems(param.Items)
	ids := make([]uuid.UUID, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}

	logger = logger.With().Str(log.KeyProcess, "locking products").Logger()
	logger.Trace().Msg("locking products")
	products, err := queries.FindProductsByIdsForUpdate(c, ids)
	if err != nil {
		err = fmt.Errorf("failed locking products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	catalog := make(map[uuid.UUID]repository.Product, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}
	for id, quantity := range demand {
		product, ok := catalog[id]
		if !ok {
			err = fmt.Errorf("product=%s %w", id, inErrors.ErrNotFound)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		if int(product.Quantity) < quantity {
			err = fmt.Errorf("product=%s has %d left, %d requested: %w", id, product.Quantity, quantity, inErrors.ErrOutOfStock)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
	}
	logger.Trace().Msg("locked products")

	lines := make([]line, 0, len(items))
	priced := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		product := catalog[item.ProductID]
		lines = append(lines, line{product: product, color: item.Color, quantity: item.Quantity})
		priced = append(priced, pricing.Line{Price: repository.Decimal(product.Price), Quantity: item.Quantity})
	}

	logger = logger.With().Str(log.KeyProcess, "finding shipping method").Logger()
	logger.Trace().Msg("finding shipping method")
	method, err := queries.FindShippingMethodById(c, param.Shipping.MethodID)
	if err == nil && !shipsTo(method, param.Form.ShippingAddress) {
		err = pgx.ErrNoRows
	}
	if err != nil {
		err = fmt.Errorf("failed finding shipping method=%s with error=%w", param.Shipping.MethodID, repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	shipping := repository.Decimal(method.Cost)
	logger.Trace().Str("shippingMethod", method.Name).Msg("found shipping method")

	discount := decimal.Zero
	couponCode := strings.ToUpper(strings.TrimSpace(param.CouponCode))
	if couponCode != "" {
		logger = logger.With().Str(log.KeyCouponCode, couponCode).Str(log.KeyProcess, "redeeming coupon").Logger()
		logger.Trace().Msg("redeeming coupon")
		discount, err = svc.redeem(c, queries, couponCode, pricing.Compute(priced, shipping, decimal.Zero, svc.taxRate))
		svc.metrics.CouponApplied(err)
		if err != nil {
			err = fmt.Errorf("failed redeeming coupon with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		logger.Trace().Str("discount", discount.String()).Msg("redeemed coupon")
	}

	totals := pricing.Compute(priced, shipping, discount, svc.taxRate)
	logger = logger.With().Any(log.KeyTotals, totals).Logger()

	shippingAddress, err := json.Marshal(param.Form.ShippingAddress)
	if err != nil {
		err = fmt.Errorf("failed marshalling shipping address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	billingAddress, err := json.Marshal(param.Form.Billing())
	if err != nil {
		err = fmt.Errorf("failed marshalling billing address with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	var coupon *string
	if couponCode != "" {
		coupon = &couponCode
	}
	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Trace().Msg("inserting order")
	_, err = queries.InsertOrder(c, repository.InsertOrderParams{
		ID:               orderID,
		CustomerID:       repository.NullUUID(customerID),
		Email:            strings.TrimSpace(param.Form.Email),
		FirstName:        strings.TrimSpace(param.Form.FirstName),
		LastName:         strings.TrimSpace(param.Form.LastName),
		Phone:            strings.TrimSpace(param.Form.Phone),
		ShippingAddress:  shippingAddress,
		BillingAddress:   billingAddress,
		PaymentMethod:    param.Form.PaymentMethod,
		ShippingMethodID: repository.NullUUID(&method.ID),
		Subtotal:         repository.Numeric(totals.Subtotal),
		Taxes:            repository.Numeric(totals.Taxes),
		ShippingCost:     repository.Numeric(totals.Shipping),
		Discount:         repository.Numeric(totals.Discount),
		Total:            repository.Numeric(totals.Total),
		CouponCode:       repository.Text(coupon),
		Status:           repository.OrderStatusPending,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "decrementing product quantity").Logger()
	logger.Trace().Msg("decrementing product quantity")
	for id, quantity := range demand {
		affected, err := queries.DecrementProductQuantity(c, repository.DecrementProductQuantityParams{
			ID:       id,
			Quantity: int32(quantity),
		})
		if err == nil && affected == 0 {
			err = inErrors.ErrOutOfStock
		}
		if err != nil {
			err = fmt.Errorf("failed decrementing product=%s quantity with error=%w", id, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
	}
	logger.Trace().Msg("decremented product quantity")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Trace().Msg("inserting order items")
	args := make([]repository.InsertOrderItemsParams, 0, len(lines))
	for _, l := range lines {
		args = append(args, repository.InsertOrderItemsParams{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: l.product.ID,
			Name:      l.product.Name,
			Price:     l.product.Price,
			Quantity:  int32(l.quantity),
			Color:     repository.Text(l.color),
		})
	}
	inserted, err := queries.InsertOrderItems(c, args)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Int64("count", inserted).Msg("inserted order items")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("placed order")

	c = logger.WithContext(c)
	svc.evictProducts(c, ids)

	order, err := svc.FindOrderById(c, orderID)
	if err != nil {
		return response.Order{}, err
	}

	if svc.publisher != nil {
		err = svc.publisher.Publish(c, event.New(event.TypeOrderPlaced, order.Email, map[string]interface{}{
			"orderId": order.ID.String(),
			"total":   order.Total.StringFixed(2),
			"status":  order.Status,
		}))
		if err != nil {
			logger.Warn().Err(err).Msg("failed publishing order placed notification")
		}
	}
	return order, nil
}

// redeem prices couponCode against the pre discount total and consumes one use.
// Unknown codes are ErrCouponInvalid.
func (svc *OrderService) redeem(
	c context.Context,
	queries *repository.Queries,
	couponCode string,
	totals pricing.Totals,
) (decimal.Decimal, error) {
	coupon, err := queries.FindCouponByCode(c, couponCode)
	if err != nil {
		err = repository.Translate(err)
		if errors.Is(err, inErrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("coupon=%s not found: %w", couponCode, inErrors.ErrCouponInvalid)
		}
		return decimal.Zero, err
	}
	discount, err := coupon.Rule().Discount(totals.PreDiscount(), svc.clock.Now())
	if err != nil {
		return decimal.Zero, err
	}
	affected, err := queries.IncrementCouponUsage(c, couponCode)
	if err != nil {
		return decimal.Zero, err
	}
	if affected == 0 {
		return decimal.Zero, inErrors.ErrCouponExhausted
	}
	return discount, nil
}

// evictProducts drops cached products whose stock changed. Failures only cost
// a stale read until the entry expires.
func (svc *OrderService) evictProducts(c context.Context, ids []uuid.UUID) {
	if svc.cache == nil || len(ids) == 0 {
		return
	}
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "evicting cached products").Logger()
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.ProductKey(id))
	}
	if err := svc.cache.Del(c, keys...).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed evicting cached products")
		return
	}
	logger.Trace().Msg("evicted cached products")
}

func (svc *OrderService) FindOrderById(c context.Context, id uuid.UUID) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderById").
		Str(log.KeyOrderID, id.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Trace().Msg("finding order")
	row, err := svc.queries.FindOrderById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("found order")

	logger = logger.With().Str(log.KeyProcess, "mapping order").Logger()
	logger.Trace().Msg("mapping order")
	order, err := row.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("mapped order")
	return order, nil
}

// FindOrders lists orders newest first. Search matches the email, the names
// or the exact order id. Status filters on the order status.
func (svc *OrderService) FindOrders(c context.Context, param request.FindOrders) (listing.Page[response.Order], error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	query := param.Query.Normalize(svc.defaultLimit)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Trace().Msg("finding orders")
	rows, err := svc.queries.FindOrders(c, repository.FindOrdersParams{
		Search: query.Search,
		Status: query.Status,
		Limit:  int32(query.Limit),
		Offset: query.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return listing.Page[response.Order]{}, err
	}

	total := int64(0)
	orders := make([]response.Order, 0, len(rows))
	for _, row := range rows {
		total = row.TotalCount
		order, err := row.Order.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping order=%s with error=%w", row.Order.ID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return listing.Page[response.Order]{}, err
		}
		orders = append(orders, order)
	}
	logger.Info().Int64("total", total).Msg("found orders")
	return listing.NewPage(orders, total, query), nil
}

func (svc *OrderService) UpdateOrderStatus(c context.Context, param request.UpdateOrderStatus) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrderStatus")
	defer span.End()

	target := repository.OrderStatus(param.Status)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpdateOrderStatus").
		Str(log.KeyOrderID, param.ID.String()).
		Str(log.KeyOrderStatus, param.Status).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer func() {
		if err := tx.Rollback(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	queries := svc.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "locking order").Logger()
	logger.Trace().Msg("locking order")
	current, err := queries.FindOrderStatusForUpdate(c, param.ID)
	if err != nil {
		err = fmt.Errorf("failed locking order with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if !CanTransition(current, target) {
		err = fmt.Errorf("order can not move from %s to %s: %w", current, target, inErrors.ErrInvalidStatusTransition)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "updating order status").Logger()
	logger.Trace().Msg("updating order status")
	_, err = queries.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{ID: param.ID, Status: target})
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Str("from", string(current)).Msg("updated order status")

	return svc.FindOrderById(logger.WithContext(c), param.ID)
}

func (svc *OrderService) ShippingMethods(
	c context.Context,
	param request.FindShippingMethods,
) ([]response.ShippingMethod, error) {
	c, span := otel.Tracer.Start(c, "OrderService ShippingMethods")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ShippingMethods").
		Str(log.KeyDestination, param.Country+" "+param.PostalCode).
		Str(log.KeyProcess, "finding shipping methods").
		Logger()

	logger.Trace().Msg("finding shipping methods")
	methods, err := svc.queries.FindShippingMethods(c, repository.FindShippingMethodsParams{
		Country:    strings.TrimSpace(param.Country),
		PostalCode: strings.TrimSpace(param.PostalCode),
	})
	if err != nil {
		err = fmt.Errorf("failed finding shipping methods with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	res := make([]response.ShippingMethod, 0, len(methods))
	for _, method := range methods {
		res = append(res, method.Response())
	}
	logger.Info().Int("count", len(res)).Msg("found shipping methods")
	return res, nil
}
