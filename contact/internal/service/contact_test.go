package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/contact/pkg/request"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/infra/infratest"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
)

type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return nil
}

func setup(t *testing.T) (context.Context, *ContactService, *recordingPublisher, func()) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	c := logger.WithContext(context.Background())

	pool, teardown := infratest.Postgres(t, c)
	publisher := &recordingPublisher{}
	return c, NewContactService(repository.New(pool), publisher, 10), publisher, teardown
}

func TestSubmit(t *testing.T) {
	c, svc, publisher, teardown := setup(t)
	defer teardown()

	contact, err := svc.Submit(c, request.Contact{
		Name:    " Jane ",
		Email:   "Jane@Example.com",
		Phone:   "+62 812 3456 7890",
		Subject: "Wholesale",
		Message: "Do you ship to Jakarta?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", contact.Name)
	assert.Equal(t, "jane@example.com", contact.Email)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, event.TypeContactSubmitted, publisher.events[0].Type)
	assert.Equal(t, contact.ID.String(), publisher.events[0].Payload["contactId"])

	page, err := svc.FindContacts(c, request.FindContacts{Query: listing.Query{Search: "wholesale"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, contact.ID, page.Items[0].ID)
}

func TestNewsletter(t *testing.T) {
	c, svc, _, teardown := setup(t)
	defer teardown()

	first, err := svc.Subscribe(c, request.Newsletter{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.True(t, first.Subscribed)

	again, err := svc.Subscribe(c, request.Newsletter{Email: " ANN@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "subscribing twice keeps one subscriber")

	_, err = svc.Subscribe(c, request.Newsletter{Email: "bob@example.com"})
	require.NoError(t, err)

	unsubscribed, err := svc.Unsubscribe(c, request.Newsletter{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.False(t, unsubscribed.Subscribed)

	_, err = svc.Unsubscribe(c, request.Newsletter{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, inErrors.ErrNotFound)

	tests := []struct {
		status         string
		expectedEmails []string
	}{
		{status: "subscribed", expectedEmails: []string{"bob@example.com"}},
		{status: "unsubscribed", expectedEmails: []string{"ann@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			page, err := svc.FindSubscribers(c, listing.Query{Status: tt.status})
			require.NoError(t, err)
			emails := []string{}
			for _, subscriber := range page.Items {
				emails = append(emails, subscriber.Email)
			}
			assert.Equal(t, tt.expectedEmails, emails)
		})
	}

	page, err := svc.FindSubscribers(c, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}
