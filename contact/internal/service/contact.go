package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/contact/internal/otel"
	"github.com/Alturino/bagstore/contact/pkg/request"
	"github.com/Alturino/bagstore/contact/pkg/response"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
)

type ContactService struct {
	queries      *repository.Queries
	publisher    event.Publisher
	defaultLimit int
}

func NewContactService(queries *repository.Queries, publisher event.Publisher, defaultLimit int) *ContactService {
	return &ContactService{queries: queries, publisher: publisher, defaultLimit: defaultLimit}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Submit stores a contact message and notifies the shop. A failed
// notification does not fail the submission.
func (svc *ContactService) Submit(c context.Context, param request.Contact) (response.Contact, error) {
	c, span := otel.Tracer.Start(c, "ContactService Submit")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactService Submit").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "inserting contact").Logger()
	logger.Trace().Msg("inserting contact")
	contact, err := svc.queries.InsertContact(c, repository.InsertContactParams{
		Name:    strings.TrimSpace(param.Name),
		Email:   email,
		Phone:   strings.TrimSpace(param.Phone),
		Subject: strings.TrimSpace(param.Subject),
		Message: strings.TrimSpace(param.Message),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting contact with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Contact{}, err
	}
	logger.Info().Msg("inserted contact")

	if svc.publisher != nil {
		logger = logger.With().Str(log.KeyProcess, "publishing contact notification").Logger()
		err = svc.publisher.Publish(c, event.New(event.TypeContactSubmitted, contact.Email, map[string]interface{}{
			"contactId": contact.ID.String(),
			"name":      contact.Name,
			"subject":   contact.Subject,
		}))
		if err != nil {
			logger.Warn().Err(err).Msg("failed publishing contact notification")
		}
	}
	return contact.Response(), nil
}

func (svc *ContactService) FindContacts(c context.Context, param request.FindContacts) (listing.Page[response.Contact], error) {
	c, span := otel.Tracer.Start(c, "ContactService FindContacts")
	defer span.End()

	query := param.Query.Normalize(svc.defaultLimit)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactService FindContacts").
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding contacts").
		Logger()

	logger.Trace().Msg("finding contacts")
	rows, err := svc.queries.FindContacts(c, repository.FindContactsParams{
		Search: query.Search,
		Limit:  int32(query.Limit),
		Offset: query.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding contacts with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return listing.Page[response.Contact]{}, err
	}

	total := int64(0)
	contacts := make([]response.Contact, 0, len(rows))
	for _, row := range rows {
		total = row.TotalCount
		contacts = append(contacts, row.Contact.Response())
	}
	logger.Info().Int64("total", total).Msg("found contacts")
	return listing.NewPage(contacts, total, query), nil
}

// Subscribe adds email to the newsletter, re-subscribing it when it had
// unsubscribed before.
func (svc *ContactService) Subscribe(c context.Context, param request.Newsletter) (response.Subscriber, error) {
	c, span := otel.Tracer.Start(c, "ContactService Subscribe")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactService Subscribe").
		Str(log.KeyEmail, email).
		Str(log.KeyProcess, "subscribing newsletter").
		Logger()

	logger.Trace().Msg("subscribing newsletter")
	subscriber, err := svc.queries.SubscribeNewsletter(c, email)
	if err != nil {
		err = fmt.Errorf("failed subscribing newsletter with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Subscriber{}, err
	}
	logger.Info().Msg("subscribed newsletter")
	return subscriber.Response(), nil
}

func (svc *ContactService) Unsubscribe(c context.Context, param request.Newsletter) (response.Subscriber, error) {
	c, span := otel.Tracer.Start(c, "ContactService Unsubscribe")
	defer span.End()

	email := normalizeEmail(param.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactService Unsubscribe").
		Str(log.KeyEmail, email).
		Str(log.KeyProcess, "unsubscribing newsletter").
		Logger()

	logger.Trace().Msg("unsubscribing newsletter")
	subscriber, err := svc.queries.UnsubscribeNewsletter(c, email)
	if err != nil {
		err = fmt.Errorf("failed unsubscribing newsletter with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Subscriber{}, err
	}
	logger.Info().Msg("unsubscribed newsletter")
	return subscriber.Response(), nil
}

// FindSubscribers lists newsletter subscribers. Status "subscribed" or
// "unsubscribed" filters on the subscription flag.
func (svc *ContactService) FindSubscribers(c context.Context, query listing.Query) (listing.Page[response.Subscriber], error) {
	c, span := otel.Tracer.Start(c, "ContactService FindSubscribers")
	defer span.End()

	query = query.Normalize(svc.defaultLimit)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactService FindSubscribers").
		Any(log.KeyQuery, query).
		Str(log.KeyProcess, "finding subscribers").
		Logger()

	logger.Trace().Msg("finding subscribers")
	rows, err := svc.queries.FindNewsletterSubscribers(c, repository.FindNewsletterSubscribersParams{
		Search:     query.Search,
		Subscribed: repository.Bool(query.Status),
		Limit:      int32(query.Limit),
		Offset:     query.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding subscribers with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return listing.Page[response.Subscriber]{}, err
	}

	total := int64(0)
	subscribers := make([]response.Subscriber, 0, len(rows))
	for _, row := range rows {
		total = row.TotalCount
		subscribers = append(subscribers, row.NewsletterSubscriber.Response())
	}
	logger.Info().Int64("total", total).Msg("found subscribers")
	return listing.NewPage(subscribers, total, query), nil
}
