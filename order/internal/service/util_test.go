package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/internal/infra/infratest"
	"github.com/Alturino/bagstore/internal/metrics"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
	"github.com/Alturino/bagstore/order/pkg/request"
	"github.com/Alturino/bagstore/pricing"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	svc       *OrderService
	queries   *repository.Queries
	publisher *recordingPublisher
	standard  uuid.UUID
	express   uuid.UUID
}

func setup(t *testing.T) (context.Context, fixture, func()) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	c := logger.WithContext(context.Background())

	pool, teardownPostgres := infratest.Postgres(t, c)
	cacheClient, teardownRedis := infratest.Redis(t, c)

	queries := repository.New(pool)
	publisher := &recordingPublisher{}
	svc := NewOrderService(
		pool,
		queries,
		cacheClient,
		publisher,
		metrics.NewCollector(),
		testclock.NewClock(now),
		pricing.DefaultTaxRate,
		10,
	)

	methods, err := queries.FindShippingMethods(c, repository.FindShippingMethodsParams{Country: "US"})
	require.NoError(t, err)
	f := fixture{svc: svc, queries: queries, publisher: publisher}
	for _, method := range methods {
		switch method.Name {
		case "Standard":
			f.standard = method.ID
		case "Express":
			f.express = method.ID
		}
	}
	require.NotEqual(t, uuid.Nil, f.standard, "shipping methods are seeded by the migrations")

	return c, f, func() {
		teardownRedis()
		teardownPostgres()
	}
}

func (f fixture) product(t *testing.T, c context.Context, name string, price string, quantity int32) repository.Product {
	product, err := f.queries.InsertProduct(c, repository.InsertProductParams{
		Name:     name,
		Price:    repository.Numeric(decimal.RequireFromString(price)),
		Quantity: quantity,
		Colors:   []string{},
		Images:   []string{},
	})
	require.NoError(t, err)
	return product
}

func (f fixture) stock(t *testing.T, c context.Context, id uuid.UUID) int32 {
	product, err := f.queries.FindProductById(c, id)
	require.NoError(t, err)
	return product.Quantity
}

func form() request.CheckoutForm {
	return request.CheckoutForm{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+15550100",
		ShippingAddress: request.Address{
			Line1:      "1 Market St",
			City:       "San Francisco",
			PostalCode: "94105",
			Country:    "US",
		},
		PaymentMethod: "cod",
	}
}
