package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/category/internal/otel"
	"github.com/Alturino/storefront/category/pkg/request"
	"github.com/Alturino/storefront/category/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
)

type CategoryService struct {
	categories repository.CategoryStore
}

func NewCategoryService(categories repository.CategoryStore) CategoryService {
	return CategoryService{categories: categories}
}

func (svc CategoryService) InsertCategory(
	c context.Context,
	param request.Category,
) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryService InsertCategory").
		Str(constants.KEY_PROCESS, "inserting category").
		Logger()

	logger.Info().Msg("inserting category")
	category, err := svc.categories.InsertCategory(c, repository.InsertCategoryParams{
		Name:        param.Name,
		Description: param.Description,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Str(constants.KEY_CATEGORY_ID, category.ID).Msg("inserted category")

	return category.Response(), nil
}

func (svc CategoryService) FindCategories(c context.Context) ([]response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryService FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()

	logger.Info().Msg("finding categories")
	categories, err := svc.categories.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_COUNT, len(categories)).Msg("found categories")

	return repository.Categories(categories), nil
}

func (svc CategoryService) FindCategoryById(c context.Context, id string) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService FindCategoryById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryService FindCategoryById").
		Str(constants.KEY_CATEGORY_ID, id).
		Str(constants.KEY_PROCESS, "finding category").
		Logger()

	logger.Info().Msgf("finding categoryId=%s", id)
	category, err := svc.categories.FindCategoryById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding categoryId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msgf("found categoryId=%s", id)

	return category.Response(), nil
}

func (svc CategoryService) UpdateCategory(
	c context.Context,
	id string,
	param request.UpdateCategory,
) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService UpdateCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryService UpdateCategory").
		Str(constants.KEY_CATEGORY_ID, id).
		Str(constants.KEY_PROCESS, "updating category").
		Logger()

	logger.Info().Msgf("updating categoryId=%s", id)
	category, err := svc.categories.UpdateCategory(c, repository.UpdateCategoryParams{
		ID:          id,
		Name:        param.Name,
		Description: param.Description,
	})
	if err != nil {
		err = fmt.Errorf("failed updating categoryId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msgf("updated categoryId=%s", id)

	return category.Response(), nil
}

func (svc CategoryService) DeleteCategory(c context.Context, id string) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CategoryService DeleteCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryService DeleteCategory").
		Str(constants.KEY_CATEGORY_ID, id).
		Str(constants.KEY_PROCESS, "deleting category").
		Logger()

	logger.Info().Msgf("deleting categoryId=%s", id)
	category, err := svc.categories.DeleteCategory(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting categoryId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Msgf("deleted categoryId=%s", id)

	return category.Response(), nil
}
