package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/content/internal/controller"
	"github.com/Alturino/bagstore/content/internal/service"
	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/log"
)

// AttachContentService mounts slides, collections and testimonials, each
// under its own prefix.
func AttachContentService(c context.Context, router *mux.Router, deps app.Dependencies) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachContentService").
		Str(log.KeyProcess, "initializing content service").
		Logger()

	logger.Info().Msg("initializing content service")
	controller.AttachContentController(router, service.NewContentService(service.Slides, deps.Queries, deps.Limit()), deps.Admin)
	controller.AttachContentController(router, service.NewContentService(service.Collections, deps.Queries, deps.Limit()), deps.Admin)
	controller.AttachContentController(router, service.NewContentService(service.Testimonials, deps.Queries, deps.Limit()), deps.Admin)
	logger.Info().Msg("initialized content service")
}
