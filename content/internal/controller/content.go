package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/content/internal/otel"
	"github.com/Alturino/bagstore/content/internal/service"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
)

type ContentController[Req any, Res any] struct {
	service *service.ContentService[Req, Res]
}

// AttachContentController mounts /<name>/getlist for the storefront and the
// admin list, create, update and delete routes under the same prefix.
func AttachContentController[Req any, Res any](
	router *mux.Router,
	service *service.ContentService[Req, Res],
	admin mux.MiddlewareFunc,
) {
	controller := ContentController[Req, Res]{service: service}
	prefix := "/" + service.Name()

	public := router.PathPrefix(prefix).Subrouter()
	public.HandleFunc("/getlist", controller.FindActive).Methods(http.MethodGet)

	private := router.PathPrefix(prefix).Subrouter()
	private.Use(admin)
	private.HandleFunc("/list", controller.Find).Methods(http.MethodPost)
	private.HandleFunc("/create", controller.Insert).Methods(http.MethodPost)
	private.HandleFunc("/{id}/update", controller.Update).Methods(http.MethodPost)
	private.HandleFunc("/{id}/delete", controller.Delete).Methods(http.MethodPost)
}

func (ctrl ContentController[Req, Res]) tag(operation string) string {
	return "ContentController " + operation + " " + ctrl.service.Name()
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, &inHttp.RequestError{Messages: []string{"id must be a valid id"}}
	}
	return id, nil
}

func (ctrl ContentController[Req, Res]) FindActive(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), ctrl.tag("FindActive"))
	defer span.End()

	query := listing.QueryFromRequest(r)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, ctrl.tag("FindActive")).
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding active content").
		Logger()

	logger.Info().Msg("finding active content")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindActive(c, query)
	if err != nil {
		err = fmt.Errorf("failed finding active content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found active content")

	inHttp.WriteSuccess(c, w, http.StatusOK, ctrl.service.Name()+" found", page)
}

func (ctrl ContentController[Req, Res]) Find(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), ctrl.tag("Find"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, ctrl.tag("Find")).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	query, err := inHttp.DecodeJson[listing.Query](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Any(log.KeyQuery, query).Str(log.KeyProcess, "finding content").Logger()
	logger.Info().Msg("finding content")
	c = logger.WithContext(c)
	page, err := ctrl.service.Find(c, query)
	if err != nil {
		err = fmt.Errorf("failed finding content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found content")

	inHttp.WriteSuccess(c, w, http.StatusOK, ctrl.service.Name()+" found", page)
}

func (ctrl ContentController[Req, Res]) Insert(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), ctrl.tag("Insert"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, ctrl.tag("Insert")).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[Req](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "inserting content").Logger()
	logger.Info().Msg("inserting content")
	c = logger.WithContext(c)
	res, err := ctrl.service.Insert(c, param)
	if err != nil {
		err = fmt.Errorf("failed inserting content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("inserted content")

	inHttp.WriteSuccess(c, w, http.StatusCreated, ctrl.service.Name()+" created", res)
}

func (ctrl ContentController[Req, Res]) Update(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), ctrl.tag("Update"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, ctrl.tag("Update")).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request").Logger()
	logger.Trace().Msg("decoding request")
	id, err := pathID(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	param, err := inHttp.DecodeJson[Req](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request")

	logger = logger.With().Str(log.KeyResourceID, id.String()).Str(log.KeyProcess, "updating content").Logger()
	logger.Info().Msg("updating content")
	c = logger.WithContext(c)
	res, err := ctrl.service.Update(c, id, param)
	if err != nil {
		err = fmt.Errorf("failed updating content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("updated content")

	inHttp.WriteSuccess(c, w, http.StatusOK, ctrl.service.Name()+" updated", res)
}

func (ctrl ContentController[Req, Res]) Delete(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), ctrl.tag("Delete"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, ctrl.tag("Delete")).
		Logger()

	id, err := pathID(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyResourceID, id.String()).Str(log.KeyProcess, "deleting content").Logger()
	logger.Info().Msg("deleting content")
	c = logger.WithContext(c)
	res, err := ctrl.service.Delete(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("deleted content")

	inHttp.WriteSuccess(c, w, http.StatusOK, ctrl.service.Name()+" deleted", res)
}
