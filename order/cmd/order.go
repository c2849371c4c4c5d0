package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/order/internal/controller"
	"github.com/Alturino/bagstore/order/internal/service"
)

// AttachOrderService mounts the shipping and checkout routes.
func AttachOrderService(c context.Context, router *mux.Router, deps app.Dependencies) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachOrderService").
		Str(log.KeyProcess, "initializing order service").
		Str("taxRate", deps.TaxRate.String()).
		Logger()

	logger.Info().Msg("initializing order service")
	orders := service.NewOrderService(
		deps.Pool,
		deps.Queries,
		deps.Cache,
		deps.Publisher,
		deps.Metrics,
		deps.Clock,
		deps.TaxRate,
		deps.Limit(),
	)
	controller.AttachOrderController(router, orders, deps.Customer, deps.Admin)
	logger.Info().Msg("initialized order service")
}
