package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/coupon/internal/otel"
	"github.com/Alturino/bagstore/coupon/internal/service"
	"github.com/Alturino/bagstore/coupon/pkg/request"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
)

type CouponController struct {
	service *service.CouponService
}

func AttachCouponController(router *mux.Router, service *service.CouponService, admin mux.MiddlewareFunc) {
	controller := CouponController{service: service}

	public := router.PathPrefix("/coupons").Subrouter()
	public.HandleFunc("/apply", controller.Apply).Methods(http.MethodPost)

	private := router.PathPrefix("/coupons").Subrouter()
	private.Use(admin)
	private.HandleFunc("/create", controller.InsertCoupon).Methods(http.MethodPost)
	private.HandleFunc("/getlist", controller.FindCoupons).Methods(http.MethodPost)
	private.HandleFunc("/{code}/update", controller.UpdateCoupon).Methods(http.MethodPost)
	private.HandleFunc("/{code}/delete", controller.DeleteCoupon).Methods(http.MethodPost)
}

func (ctrl CouponController) Apply(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController Apply")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController Apply").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.ApplyCoupon](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyCouponCode, param.Code).Str(log.KeyProcess, "applying coupon").Logger()
	logger.Info().Msg("applying coupon")
	c = logger.WithContext(c)
	applied, err := ctrl.service.Apply(c, param)
	if err != nil {
		err = fmt.Errorf("failed applying coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("applied coupon")

	inHttp.WriteSuccess(c, w, http.StatusOK, "coupon applied", applied)
}

func (ctrl CouponController) InsertCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController InsertCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController InsertCoupon").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.Coupon](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyCouponCode, param.Code).Str(log.KeyProcess, "inserting coupon").Logger()
	logger.Info().Msg("inserting coupon")
	c = logger.WithContext(c)
	coupon, err := ctrl.service.InsertCoupon(c, param)
	if err != nil {
		err = fmt.Errorf("failed inserting coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("inserted coupon")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "coupon created", coupon)
}

func (ctrl CouponController) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController UpdateCoupon")
	defer span.End()

	code := mux.Vars(r)["code"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController UpdateCoupon").
		Str(log.KeyCouponCode, code).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.Decode[request.Coupon](r)
	if err == nil {
		param.Code = code
		err = inHttp.Validate(c, param)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "updating coupon").Logger()
	logger.Info().Msg("updating coupon")
	c = logger.WithContext(c)
	coupon, err := ctrl.service.UpdateCoupon(c, code, param)
	if err != nil {
		err = fmt.Errorf("failed updating coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("updated coupon")

	inHttp.WriteSuccess(c, w, http.StatusOK, "coupon updated", coupon)
}

func (ctrl CouponController) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController DeleteCoupon")
	defer span.End()

	code := mux.Vars(r)["code"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController DeleteCoupon").
		Str(log.KeyCouponCode, code).
		Str(log.KeyProcess, "deleting coupon").
		Logger()

	logger.Info().Msg("deleting coupon")
	c = logger.WithContext(c)
	coupon, err := ctrl.service.DeleteCoupon(c, code)
	if err != nil {
		err = fmt.Errorf("failed deleting coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("deleted coupon")

	inHttp.WriteSuccess(c, w, http.StatusOK, "coupon deleted", coupon)
}

func (ctrl CouponController) FindCoupons(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CouponController FindCoupons")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CouponController FindCoupons").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.FindCoupons](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "finding coupons").Logger()
	logger.Info().Msg("finding coupons")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindCoupons(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding coupons with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found coupons")

	inHttp.WriteSuccess(c, w, http.StatusOK, "coupons found", page)
}
