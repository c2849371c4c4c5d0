package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	userErrors "github.com/Alturino/bagstore/user/internal/errors"
	"github.com/Alturino/bagstore/user/internal/otel"
	"github.com/Alturino/bagstore/user/internal/service"
	"github.com/Alturino/bagstore/user/pkg/request"
)

type UserController struct {
	service *service.UserService
}

func AttachUserController(router *mux.Router, service *service.UserService, admin mux.MiddlewareFunc) {
	controller := UserController{service: service}

	router.HandleFunc("/admin/login", controller.AdminLogin).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", controller.RequestOtp).Methods(http.MethodPost)
	router.HandleFunc("/auth/verify-otp", controller.VerifyOtp).Methods(http.MethodPost)

	private := router.PathPrefix("/admin").Subrouter()
	private.Use(admin)
	private.HandleFunc("/logout", controller.AdminLogout).Methods(http.MethodPost)
}

// writeError answers the login failures with their own status, everything
// else goes through the shared mapping.
func writeError(c context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userErrors.ErrInvalidCredentials):
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, userErrors.ErrInvalidCredentials)
	case errors.Is(err, userErrors.ErrOtpInvalid):
		inHttp.WriteFailure(c, w, http.StatusUnauthorized, userErrors.ErrOtpInvalid)
	case errors.Is(err, userErrors.ErrOtpAttemptsExceeded):
		inHttp.WriteFailure(c, w, http.StatusTooManyRequests, userErrors.ErrOtpAttemptsExceeded)
	default:
		inHttp.WriteError(c, w, err)
	}
}

func (ctrl UserController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController AdminLogin")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController AdminLogin").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.LoginRequest](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, param).Logger()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "logging in admin").Logger()
	logger.Info().Msg("logging in admin")
	c = logger.WithContext(c)
	token, err := ctrl.service.AdminLogin(c, param)
	if err != nil {
		err = fmt.Errorf("failed logging in admin with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("logged in admin")

	inHttp.WriteSuccess(c, w, http.StatusOK, "login success", token)
}

func (ctrl UserController) AdminLogout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController AdminLogout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController AdminLogout").
		Str(log.KeyProcess, "logging out admin").
		Logger()

	logger.Info().Msg("logging out admin")
	c = logger.WithContext(c)
	if err := ctrl.service.AdminLogout(c); err != nil {
		err = fmt.Errorf("failed logging out admin with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("logged out admin")

	inHttp.WriteSuccess(c, w, http.StatusOK, "logout success", nil)
}

func (ctrl UserController) RequestOtp(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController RequestOtp")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController RequestOtp").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.OtpLogin](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyEmail, param.Email).Str(log.KeyProcess, "requesting otp").Logger()
	logger.Info().Msg("requesting otp")
	c = logger.WithContext(c)
	sent, err := ctrl.service.RequestOtp(c, param)
	if err != nil {
		err = fmt.Errorf("failed requesting otp with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("requested otp")

	inHttp.WriteSuccess(c, w, http.StatusOK, "otp sent", sent)
}

func (ctrl UserController) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController VerifyOtp")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController VerifyOtp").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.VerifyOtp](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger = logger.With().Object(log.KeyRequestBody, param).Logger()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "verifying otp").Logger()
	logger.Info().Msg("verifying otp")
	c = logger.WithContext(c)
	token, err := ctrl.service.VerifyOtp(c, param)
	if err != nil {
		err = fmt.Errorf("failed verifying otp with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("verified otp")

	inHttp.WriteSuccess(c, w, http.StatusOK, "login success", token)
}
