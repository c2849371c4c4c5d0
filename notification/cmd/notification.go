package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/config"
	"github.com/Alturino/bagstore/internal/infra"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/notification/pkg/event"
)

// Deliver stands in for the mail and sms providers: it only logs what would
// be sent.
func Deliver(c context.Context, e event.Event) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "notification Deliver").
		Object(log.KeyNotification, e).
		Logger()

	switch e.Type {
	case event.TypeOtp:
		logger.Info().Any("otp", e.Payload["otp"]).Any("expiresAt", e.Payload["expiresAt"]).Msg("sending otp")
	case event.TypeOrderPlaced:
		logger.Info().Any(log.KeyOrderID, e.Payload["orderId"]).Any("total", e.Payload["total"]).Msg("sending order confirmation")
	case event.TypeContactSubmitted:
		logger.Info().Any("subject", e.Payload["subject"]).Msg("forwarding contact message")
	default:
		return fmt.Errorf("unknown notification type=%s", e.Type)
	}
	return nil
}

func RunNotificationService(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_NOTIFICATION_SERVICE).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_NOTIFICATION_SERVICE)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := inOtel.InitOtelSdk(c, constants.APP_NOTIFICATION_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := inOtel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer cache.Close()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "consuming notifications").Logger()
	logger.Info().Msg("consuming notifications")
	c = logger.WithContext(c)
	if err = event.Subscribe(c, cache, Deliver); err != nil {
		err = fmt.Errorf("failed consuming notifications with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("stopped consuming notifications")
}
