package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/content/internal/otel"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
)

// ContentService manages one kind of storefront content. The public listing
// only ever shows active entries.
type ContentService[Req any, Res any] struct {
	kind         Kind[Req, Res]
	queries      *repository.Queries
	defaultLimit int
}

func NewContentService[Req any, Res any](
	kind Kind[Req, Res],
	queries *repository.Queries,
	defaultLimit int,
) *ContentService[Req, Res] {
	return &ContentService[Req, Res]{kind: kind, queries: queries, defaultLimit: defaultLimit}
}

func (svc *ContentService[Req, Res]) Name() string {
	return svc.kind.Name
}

func (svc *ContentService[Req, Res]) tag(operation string) string {
	return "ContentService " + operation + " " + svc.kind.Name
}

func (svc *ContentService[Req, Res]) Insert(c context.Context, param Req) (Res, error) {
	c, span := otel.Tracer.Start(c, svc.tag("Insert"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, svc.tag("Insert")).
		Str(log.KeyResource, svc.kind.Name).
		Str(log.KeyProcess, "inserting content").
		Logger()

	logger.Trace().Msg("inserting content")
	res, err := svc.kind.Insert(c, svc.queries, param)
	if err != nil {
		err = fmt.Errorf("failed inserting %s with error=%w", svc.kind.Name, repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		var zero Res
		return zero, err
	}
	logger.Info().Msg("inserted content")
	return res, nil
}

func (svc *ContentService[Req, Res]) Update(c context.Context, id uuid.UUID, param Req) (Res, error) {
	c, span := otel.Tracer.Start(c, svc.tag("Update"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, svc.tag("Update")).
		Str(log.KeyResource, svc.kind.Name).
		Str(log.KeyResourceID, id.String()).
		Str(log.KeyProcess, "updating content").
		Logger()

	logger.Trace().Msg("updating content")
	res, err := svc.kind.Update(c, svc.queries, id, param)
	if err != nil {
		err = fmt.Errorf("failed updating %s with error=%w", svc.kind.Name, repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		var zero Res
		return zero, err
	}
	logger.Info().Msg("updated content")
	return res, nil
}

func (svc *ContentService[Req, Res]) Delete(c context.Context, id uuid.UUID) (Res, error) {
	c, span := otel.Tracer.Start(c, svc.tag("Delete"))
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, svc.tag("Delete")).
		Str(log.KeyResource, svc.kind.Name).
		Str(log.KeyResourceID, id.String()).
		Str(log.KeyProcess, "deleting content").
		Logger()

	logger.Trace().Msg("deleting content")
	res, err := svc.kind.Delete(c, svc.queries, id)
	if err != nil {
		err = fmt.Errorf("failed deleting %s with error=%w", svc.kind.Name, repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		var zero Res
		return zero, err
	}
	logger.Info().Msg("deleted content")
	return res, nil
}

// Find lists entries for the admin screens. Status "active" or "inactive"
// filters on the active flag.
func (svc *ContentService[Req, Res]) Find(c context.Context, query listing.Query) (listing.Page[Res], error) {
	c, span := otel.Tracer.Start(c, svc.tag("Find"))
	defer span.End()

	query = query.Normalize(svc.defaultLimit)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, svc.tag("Find")).
		Str(log.KeyResource, svc.kind.Name).
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding content").
		Logger()

	logger.Trace().Msg("finding content")
	items, total, err := svc.kind.Find(c, svc.queries, query)
	if err != nil {
		err = fmt.Errorf("failed finding %s with error=%w", svc.kind.Name, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return listing.Page[Res]{}, err
	}
	logger.Info().Int64("total", total).Msg("found content")
	return listing.NewPage(items, total, query), nil
}

func (svc *ContentService[Req, Res]) FindActive(c context.Context, query listing.Query) (listing.Page[Res], error) {
	query.Status = "active"
	return svc.Find(c, query)
}
