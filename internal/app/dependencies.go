// Package app holds what the shop process builds once and hands to every
// service it mounts.
package app

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/clock"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/internal/config"
	"github.com/Alturino/bagstore/internal/metrics"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
)

type Dependencies struct {
	Config    *config.Config
	Pool      *pgxpool.Pool
	Queries   *repository.Queries
	Cache     *redis.Client
	Publisher event.Publisher
	Metrics   *metrics.Collector
	Clock     clock.Clock
	TaxRate   decimal.Decimal

	// Admin guards back office routes, Customer attaches an optional customer
	// token. Both are set once the user service is attached.
	Admin    mux.MiddlewareFunc
	Customer mux.MiddlewareFunc
}

func (d Dependencies) Limit() int {
	return d.Config.Listing.DefaultLimit
}
