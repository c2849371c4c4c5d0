package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/product/internal/controller"
	"github.com/Alturino/bagstore/product/internal/service"
	"github.com/Alturino/bagstore/product/internal/upload"
)

// AttachProductService mounts the catalog routes and the image store.
func AttachProductService(c context.Context, router *mux.Router, deps app.Dependencies) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachProductService").
		Str(log.KeyProcess, "initializing product service").
		Logger()

	logger.Info().Msg("initializing product service")
	products := service.NewProductService(deps.Queries, deps.Cache, deps.Limit())
	uploads := upload.NewStore(
		deps.Config.Storage.UploadDir,
		deps.Config.Storage.PublicPrefix,
		deps.Config.Storage.MaxUploadMB,
	)
	controller.AttachProductController(router, products, uploads, deps.Admin)
	logger.Info().Msg("initialized product service")
}
