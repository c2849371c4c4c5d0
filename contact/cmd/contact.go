package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/contact/internal/controller"
	"github.com/Alturino/bagstore/contact/internal/service"
	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/log"
)

// AttachContactService mounts the contact form and newsletter routes.
func AttachContactService(c context.Context, router *mux.Router, deps app.Dependencies) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachContactService").
		Str(log.KeyProcess, "initializing contact service").
		Logger()

	logger.Info().Msg("initializing contact service")
	contacts := service.NewContactService(deps.Queries, deps.Publisher, deps.Limit())
	controller.AttachContactController(router, contacts, deps.Admin)
	logger.Info().Msg("initialized contact service")
}
