package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/clock"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	contactCmd "github.com/Alturino/bagstore/contact/cmd"
	contentCmd "github.com/Alturino/bagstore/content/cmd"
	couponCmd "github.com/Alturino/bagstore/coupon/cmd"
	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/config"
	"github.com/Alturino/bagstore/internal/infra"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/metrics"
	"github.com/Alturino/bagstore/internal/middleware"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/notification/pkg/event"
	orderCmd "github.com/Alturino/bagstore/order/cmd"
	"github.com/Alturino/bagstore/pricing"
	productCmd "github.com/Alturino/bagstore/product/cmd"
	userCmd "github.com/Alturino/bagstore/user/cmd"
)

func RunShopService(c context.Context) {
	c, span := inOtel.Tracer.Start(c, "RunShopService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_SHOP_SERVICE).
		Str(log.KeyTag, "main RunShopService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_SHOP_SERVICE)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := inOtel.InitOtelSdk(c, constants.APP_SHOP_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		err = inOtel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer pool.Close()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down cache").Logger()
		logger.Info().Msg("shutting down cache")
		err = cache.Close()
		if err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "parsing tax rate").Logger()
	logger.Info().Msg("parsing tax rate")
	taxRate, err := pricing.ParseTaxRate(cfg.Pricing.TaxRate)
	if err != nil {
		err = fmt.Errorf("failed parsing tax rate with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Str("taxRate", taxRate.String()).Msg("parsed tax rate")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	c = logger.WithContext(c)
	router := NewRouter(c, app.Dependencies{
		Config:    cfg,
		Pool:      pool,
		Queries:   repository.New(pool),
		Cache:     cache,
		Publisher: event.NewRedisPublisher(cache),
		Metrics:   metrics.Default(),
		Clock:     clock.WallClock,
		TaxRate:   taxRate,
	})
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 15*time.Second)
	defer cancel()
	logger.Info().Msg("shutting down http server")
	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}

// NewRouter mounts /metrics, the uploaded images and every backend service.
func NewRouter(c context.Context, deps app.Dependencies) *mux.Router {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewRouter").
		Logger()
	c = logger.WithContext(c)

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	publicPrefix := "/" + strings.Trim(deps.Config.Storage.PublicPrefix, "/") + "/"
	router.PathPrefix(publicPrefix).
		Handler(http.StripPrefix(publicPrefix, http.FileServer(http.Dir(deps.Config.Storage.UploadDir)))).
		Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(
		otelmux.Middleware(constants.APP_SHOP_SERVICE),
		middleware.Logging(logger),
		middleware.RecoverPanic,
	)
	deps = userCmd.AttachUserService(c, api, deps)
	productCmd.AttachProductService(c, api, deps)
	couponCmd.AttachCouponService(c, api, deps)
	orderCmd.AttachOrderService(c, api, deps)
	contentCmd.AttachContentService(c, api, deps)
	contactCmd.AttachContactService(c, api, deps)
	return router
}
