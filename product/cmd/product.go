package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/product/internal/controller"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
)

// AttachProductService mounts the /products routes on router, image urls are
// built from publicURL or, when empty, from the request host.
func AttachProductService(
	c context.Context,
	router *mux.Router,
	products repository.ProductStore,
	categories repository.CategoryStore,
	images storage.Storage,
	publicURL string,
) {
	c, span := otel.Tracer.Start(c, "AttachProductService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_PRODUCT_SERVICE).
		Str(constants.KEY_TAG, "cmd AttachProductService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing product service").Logger()
	logger.Info().Msg("initializing product service")
	productService := service.NewProductService(products, categories, images)
	logger.Info().Msg("initialized product service")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing product controller").Logger()
	logger.Info().Msg("initializing product controller")
	controller.AttachProductController(router, &productService, publicURL)
	logger.Info().Msg("initialized product controller")
}
