package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/category/internal/controller"
	"github.com/Alturino/storefront/category/internal/otel"
	"github.com/Alturino/storefront/category/internal/service"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/repository"
)

func AttachCategoryService(c context.Context, router *mux.Router, categories repository.CategoryStore) {
	c, span := otel.Tracer.Start(c, "AttachCategoryService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_CATEGORY_SERVICE).
		Str(constants.KEY_TAG, "cmd AttachCategoryService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing category service").Logger()
	logger.Info().Msg("initializing category service")
	categoryService := service.NewCategoryService(categories)
	logger.Info().Msg("initialized category service")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing category controller").Logger()
	logger.Info().Msg("initializing category controller")
	controller.AttachCategoryController(router, &categoryService)
	logger.Info().Msg("initialized category controller")
}
