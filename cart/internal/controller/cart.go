package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/cart/internal/otel"
	"github.com/Alturino/bagstore/cart/internal/service"
	"github.com/Alturino/bagstore/cart/internal/store"
	"github.com/Alturino/bagstore/cart/pkg/request"
	"github.com/Alturino/bagstore/cart/pkg/response"
	"github.com/Alturino/bagstore/internal/common/validate"
	"github.com/Alturino/bagstore/internal/gateway"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
)

var ErrInvalidSession = errors.New("invalid cart session")

type CartController struct {
	service *service.CartService
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	cart := mux.PathPrefix("/cart").Subrouter()
	cart.HandleFunc("", controller.Cart).Methods(http.MethodGet)
	cart.HandleFunc("", controller.Clear).Methods(http.MethodDelete)
	cart.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	cart.HandleFunc("/items/{id}", controller.RemoveItem).Methods(http.MethodDelete)
	cart.HandleFunc("/items/{id}/increase", controller.IncreaseQuantity).Methods(http.MethodPost)
	cart.HandleFunc("/items/{id}/decrease", controller.DecreaseQuantity).Methods(http.MethodPost)
	cart.HandleFunc("/coupon", controller.ApplyCoupon).Methods(http.MethodPost)
	cart.HandleFunc("/coupon", controller.ClearCoupon).Methods(http.MethodDelete)

	checkout := mux.PathPrefix("/checkout").Subrouter()
	checkout.HandleFunc("", controller.Checkout).Methods(http.MethodPost)
	checkout.HandleFunc("/shipping-methods", controller.ShippingMethods).Methods(http.MethodGet)
	checkout.HandleFunc("/shipping", controller.SelectShipping).Methods(http.MethodPut)
	checkout.HandleFunc("/orders/{id}", controller.Order).Methods(http.MethodGet)
}

// ForwardToken passes the caller's bearer token on to backend calls made
// while serving the request.
func ForwardToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
		if len(authorization) > len("bearer ") && strings.EqualFold(authorization[:len("bearer ")], "bearer ") {
			token := strings.TrimSpace(authorization[len("bearer "):])
			r = r.WithContext(gateway.AttachToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// sessionOf reads the cart session header, starting a new session when the
// caller has none. The session is always echoed back.
func sessionOf(w http.ResponseWriter, r *http.Request) (string, error) {
	session := r.Header.Get(inHttp.KEY_HEADER_CART_SESSION)
	if session == "" {
		session = uuid.NewString()
	} else if _, err := uuid.Parse(session); err != nil {
		return "", ErrInvalidSession
	}
	w.Header().Set(inHttp.KEY_HEADER_CART_SESSION, session)
	return session, nil
}

func writeError(c context.Context, w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var apiErr *gateway.APIError
	switch {
	case errors.As(err, &validationErr):
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"success":    false,
			"statusCode": http.StatusBadRequest,
			"message":    "checkout form is invalid",
			"data":       validationErr,
		})
	case errors.Is(err, ErrInvalidSession),
		errors.Is(err, store.ErrNegativePrice),
		errors.Is(err, store.ErrNegativeShipping),
		errors.Is(err, store.ErrMissingItemID):
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrPlaceOrder):
		inHttp.WriteFailure(c, w, http.StatusBadGateway, service.ErrPlaceOrder)
	case errors.Is(err, service.ErrOrderUnavailable):
		inHttp.WriteFailure(c, w, http.StatusNotFound, service.ErrOrderUnavailable)
	case errors.Is(err, service.ErrShippingMethodNotFound):
		inHttp.WriteFailure(c, w, http.StatusUnprocessableEntity, service.ErrShippingMethodNotFound)
	case errors.As(err, &apiErr):
		inHttp.WriteFailure(
			c,
			w,
			gateway.StatusCode(err, http.StatusBadGateway),
			errors.New(gateway.Message(err)),
		)
	default:
		statusCode := inHttp.StatusCode(err)
		if statusCode == http.StatusInternalServerError {
			inHttp.WriteFailure(c, w, statusCode, nil)
			return
		}
		inHttp.WriteFailure(c, w, statusCode, err)
	}
}

func decode[T any](r *http.Request) (T, error) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, fmt.Errorf("failed decoding request body with error=%w", err)
	}
	return body, nil
}

func (t CartController) Cart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Cart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Cart").
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeySession, session).Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := t.service.Cart(c, session)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "cart found", cart)
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeySession, session).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	body, err := decode[request.AddItem](r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err = validate.New().StructCtx(c, body); err != nil {
		err = errors.New(strings.Join(validate.Messages(err), ", "))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeyProductID, body.ProductID.String()).
		Str(log.KeyProcess, "adding item").
		Logger()
	logger.Info().Msg("adding item")
	c = logger.WithContext(c)
	cart, err := t.service.AddItem(c, session, body)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "item added to cart", cart)
}

// itemOperation serves the routes that act on one cart line by product id.
func (t CartController) itemOperation(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	message string,
	fn func(context.Context, string, uuid.UUID) (store.Snapshot, error),
) {
	c, span := otel.Tracer.Start(r.Context(), "CartController "+name)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController "+name).
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeySession, session).Str(log.KeyProcess, "validating id").Logger()
	logger.Info().Msg("validating id")
	pathValues := mux.Vars(r)
	id, err := uuid.Parse(pathValues["id"])
	if err != nil {
		err = fmt.Errorf("failed validating id=%s with error=%w", pathValues["id"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(log.KeyProductID, id.String()).Logger()
	logger.Info().Msg("validated id")

	logger = logger.With().Str(log.KeyProcess, name).Logger()
	logger.Info().Msg(name)
	c = logger.WithContext(c)
	cart, err := fn(c, session, id)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg(message)

	inHttp.WriteSuccess(c, w, http.StatusOK, message, cart)
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	t.itemOperation(w, r, "RemoveItem", "item removed from cart", t.service.RemoveItem)
}

func (t CartController) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	t.itemOperation(w, r, "IncreaseQuantity", "item quantity increased", t.service.IncreaseQuantity)
}

func (t CartController) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	t.itemOperation(w, r, "DecreaseQuantity", "item quantity decreased", t.service.DecreaseQuantity)
}

// sessionOperation serves the routes that act on the whole cart.
func (t CartController) sessionOperation(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	message string,
	fn func(context.Context, string) (store.Snapshot, error),
) {
	c, span := otel.Tracer.Start(r.Context(), "CartController "+name)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController "+name).
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeySession, session).Str(log.KeyProcess, name).Logger()
	logger.Info().Msg(name)
	c = logger.WithContext(c)
	cart, err := fn(c, session)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg(message)

	inHttp.WriteSuccess(c, w, http.StatusOK, message, cart)
}

func (t CartController) Clear(w http.ResponseWriter, r *http.Request) {
	t.sessionOperation(w, r, "Clear", "cart cleared", t.service.Clear)
}

func (t CartController) ClearCoupon(w http.ResponseWriter, r *http.Request) {
	t.sessionOperation(w, r, "ClearCoupon", "coupon removed", t.service.ClearCoupon)
}

func (t CartController) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ApplyCoupon").
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeySession, session).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	body, err := decode[request.ApplyCoupon](r)
	if err == nil {
		err = validate.New().StructCtx(c, body)
	}
	if err != nil {
		err = errors.New(strings.Join(validate.Messages(err), ", "))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyCouponCode, body.Code).Str(log.KeyProcess, "applying coupon").Logger()
	logger.Info().Msg("applying coupon")
	c = logger.WithContext(c)
	cart, err := t.service.ApplyCoupon(c, session, body)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("applied coupon")

	inHttp.WriteSuccess(c, w, http.StatusOK, "coupon applied", cart)
}

func (t CartController) ShippingMethods(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ShippingMethods")
	defer span.End()

	query := r.URL.Query()
	param := request.ShippingMethods{Country: query.Get("country"), PostalCode: query.Get("postalCode")}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ShippingMethods").
		Str(log.KeyDestination, param.Country+" "+param.PostalCode).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating query").Logger()
	logger.Info().Msg("validating query")
	if err := validate.New().StructCtx(c, param); err != nil {
		err = errors.New(strings.Join(validate.Messages(err), ", "))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("validated query")

	logger = logger.With().Str(log.KeyProcess, "finding shipping methods").Logger()
	logger.Info().Msg("finding shipping methods")
	c = logger.WithContext(c)
	methods, err := t.service.ShippingMethods(c, param)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found shipping methods")

	inHttp.WriteSuccess(c, w, http.StatusOK, "shipping methods found", methods)
}

func (t CartController) SelectShipping(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SelectShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController SelectShipping").
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeySession, session).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	body, err := decode[request.SelectShipping](r)
	if err == nil {
		err = validate.New().StructCtx(c, body)
	}
	if err != nil {
		err = errors.New(strings.Join(validate.Messages(err), ", "))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "selecting shipping").Logger()
	logger.Info().Msg("selecting shipping")
	c = logger.WithContext(c)
	cart, err := t.service.SelectShipping(c, session, body)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("selected shipping")

	inHttp.WriteSuccess(c, w, http.StatusOK, "shipping selected", cart)
}

func (t CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Checkout").
		Logger()

	session, err := sessionOf(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeySession, session).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	body, err := decode[request.Checkout](r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "checking out").Logger()
	logger.Info().Msg("checking out")
	c = logger.WithContext(c)
	order, err := t.service.Checkout(c, session, body)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("checked out")

	inHttp.WriteSuccess(
		c,
		w,
		http.StatusCreated,
		"order placed",
		response.Placed{OrderID: order.ID, Status: order.Status},
	)
}

func (t CartController) Order(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Order")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Order").
		Str(log.KeyProcess, "validating id").
		Logger()

	logger.Info().Msg("validating id")
	pathValues := mux.Vars(r)
	id, err := uuid.Parse(pathValues["id"])
	if err != nil {
		err = fmt.Errorf("failed validating id=%s with error=%w", pathValues["id"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailure(c, w, http.StatusBadRequest, err)
		return
	}
	logger = logger.With().Str(log.KeyOrderID, id.String()).Logger()
	logger.Info().Msg("validated id")

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := t.service.Order(c, id)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteSuccess(c, w, http.StatusOK, "order found", order)
}
