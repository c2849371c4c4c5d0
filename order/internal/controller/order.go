package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/common"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/order/internal/otel"
	"github.com/Alturino/bagstore/order/internal/service"
	"github.com/Alturino/bagstore/order/pkg/request"
)

type OrderController struct {
	service *service.OrderService
}

// AttachOrderController mounts the shipping and checkout routes. customer
// attaches an optional customer token so orders can be linked to an account.
func AttachOrderController(
	router *mux.Router,
	service *service.OrderService,
	customer mux.MiddlewareFunc,
	admin mux.MiddlewareFunc,
) {
	controller := OrderController{service: service}

	router.HandleFunc("/shipping", controller.ShippingMethods).Methods(http.MethodGet)

	public := router.PathPrefix("/checkout").Subrouter()
	public.Use(customer)
	public.HandleFunc("", controller.Checkout).Methods(http.MethodPost)
	public.HandleFunc("/getbyId", controller.FindOrderById).Methods(http.MethodPost)

	private := router.PathPrefix("/checkout").Subrouter()
	private.Use(admin)
	private.HandleFunc("/getlist", controller.FindOrders).Methods(http.MethodPost)
	private.HandleFunc("/update-Status", controller.UpdateOrderStatus).Methods(http.MethodPost)
}

// customerID is the subject of a verified customer token, nil for guests.
func customerID(r *http.Request) *uuid.UUID {
	claims, err := common.ClaimsFromContext(r.Context())
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}
	return &id
}

func (ctrl OrderController) ShippingMethods(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController ShippingMethods")
	defer span.End()

	param := request.FindShippingMethods{
		Country:    r.URL.Query().Get("country"),
		PostalCode: r.URL.Query().Get("postalCode"),
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController ShippingMethods").
		Str(log.KeyDestination, param.Country+" "+param.PostalCode).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating query").Logger()
	logger.Trace().Msg("validating query")
	if err := inHttp.Validate(c, param); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("validated query")

	logger = logger.With().Str(log.KeyProcess, "finding shipping methods").Logger()
	logger.Info().Msg("finding shipping methods")
	c = logger.WithContext(c)
	methods, err := ctrl.service.ShippingMethods(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding shipping methods with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found shipping methods")

	inHttp.WriteSuccess(c, w, http.StatusOK, "shipping methods found", methods)
}

func (ctrl OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.Decode[request.Checkout](r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	param.Form = param.Form.Normalized()
	if err = inHttp.Validate(c, param); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("validated request body")

	customer := customerID(r)
	if customer != nil {
		logger = logger.With().Str(log.KeyUserID, customer.String()).Logger()
	}
	logger = logger.With().Str(log.KeyProcess, "placing order").Logger()
	logger.Info().Msg("placing order")
	c = logger.WithContext(c)
	order, err := ctrl.service.Checkout(c, param, customer)
	if err != nil {
		err = fmt.Errorf("failed placing order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("placed order")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "order placed", order)
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.GetOrderById](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyOrderID, param.ID.String()).Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, param.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteSuccess(c, w, http.StatusOK, "order found", order)
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.FindOrders](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindOrders(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found orders")

	inHttp.WriteSuccess(c, w, http.StatusOK, "orders found", page)
}

func (ctrl OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController UpdateOrderStatus").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.UpdateOrderStatus](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().
		Str(log.KeyOrderID, param.ID.String()).
		Str(log.KeyOrderStatus, param.Status).
		Str(log.KeyProcess, "updating order status").
		Logger()
	logger.Info().Msg("updating order status")
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateOrderStatus(c, param)
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("updated order status")

	inHttp.WriteSuccess(c, w, http.StatusOK, "order status updated", order)
}
