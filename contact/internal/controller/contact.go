package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/contact/internal/otel"
	"github.com/Alturino/bagstore/contact/internal/service"
	"github.com/Alturino/bagstore/contact/pkg/request"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
)

type ContactController struct {
	service *service.ContactService
}

func AttachContactController(router *mux.Router, service *service.ContactService, admin mux.MiddlewareFunc) {
	controller := ContactController{service: service}

	router.HandleFunc("/contact/submit", controller.Submit).Methods(http.MethodPost)
	router.HandleFunc("/newsletter/subscribe", controller.Subscribe).Methods(http.MethodPost)

	private := router.NewRoute().Subrouter()
	private.Use(admin)
	private.HandleFunc("/contact/list", controller.FindContacts).Methods(http.MethodPost)
	private.HandleFunc("/newsletter/getlist", controller.FindSubscribers).Methods(http.MethodGet)
	private.HandleFunc("/newsletter/unsubscribe", controller.Unsubscribe).Methods(http.MethodPost)
}

func (ctrl ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ContactController Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactController Submit").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.Contact](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "submitting contact").Logger()
	logger.Info().Msg("submitting contact")
	c = logger.WithContext(c)
	contact, err := ctrl.service.Submit(c, param)
	if err != nil {
		err = fmt.Errorf("failed submitting contact with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("submitted contact")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "thank you for contacting us", contact)
}

func (ctrl ContactController) FindContacts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ContactController FindContacts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactController FindContacts").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.FindContacts](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "finding contacts").Logger()
	logger.Info().Msg("finding contacts")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindContacts(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding contacts with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found contacts")

	inHttp.WriteSuccess(c, w, http.StatusOK, "contacts found", page)
}

func (ctrl ContactController) Subscribe(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ContactController Subscribe")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactController Subscribe").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.Newsletter](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "subscribing newsletter").Logger()
	logger.Info().Msg("subscribing newsletter")
	c = logger.WithContext(c)
	subscriber, err := ctrl.service.Subscribe(c, param)
	if err != nil {
		err = fmt.Errorf("failed subscribing newsletter with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("subscribed newsletter")

	inHttp.WriteSuccess(c, w, http.StatusOK, "subscribed to the newsletter", subscriber)
}

func (ctrl ContactController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ContactController Unsubscribe")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactController Unsubscribe").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.Newsletter](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "unsubscribing newsletter").Logger()
	logger.Info().Msg("unsubscribing newsletter")
	c = logger.WithContext(c)
	subscriber, err := ctrl.service.Unsubscribe(c, param)
	if err != nil {
		err = fmt.Errorf("failed unsubscribing newsletter with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("unsubscribed newsletter")

	inHttp.WriteSuccess(c, w, http.StatusOK, "unsubscribed from the newsletter", subscriber)
}

func (ctrl ContactController) FindSubscribers(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ContactController FindSubscribers")
	defer span.End()

	query := listing.QueryFromRequest(r)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactController FindSubscribers").
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding subscribers").
		Logger()

	logger.Info().Msg("finding subscribers")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindSubscribers(c, query)
	if err != nil {
		err = fmt.Errorf("failed finding subscribers with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found subscribers")

	inHttp.WriteSuccess(c, w, http.StatusOK, "subscribers found", page)
}
