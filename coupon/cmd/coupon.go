package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/coupon/internal/controller"
	"github.com/Alturino/bagstore/coupon/internal/service"
	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/log"
)

func AttachCouponService(c context.Context, router *mux.Router, deps app.Dependencies) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachCouponService").
		Str(log.KeyProcess, "initializing coupon service").
		Logger()

	logger.Info().Msg("initializing coupon service")
	coupons := service.NewCouponService(deps.Queries, deps.Clock, deps.Limit())
	controller.AttachCouponController(router, coupons, deps.Admin)
	logger.Info().Msg("initialized coupon service")
}
