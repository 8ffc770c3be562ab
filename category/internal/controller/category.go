package controller

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/category/internal/otel"
	"github.com/Alturino/storefront/category/internal/service"
	"github.com/Alturino/storefront/category/pkg/request"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
)

type CategoryController struct {
	service *service.CategoryService
}

func AttachCategoryController(mux *mux.Router, service *service.CategoryService) {
	controller := CategoryController{service: service}

	router := mux.PathPrefix("/categories").Subrouter()
	router.HandleFunc("", controller.InsertCategory).Methods(http.MethodPost)
	router.HandleFunc("/", controller.InsertCategory).Methods(http.MethodPost)
	router.HandleFunc("", controller.FindCategories).Methods(http.MethodGet)
	router.HandleFunc("/", controller.FindCategories).Methods(http.MethodGet)
	router.HandleFunc("/{categoryId}", controller.FindCategoryById).Methods(http.MethodGet)
	router.HandleFunc("/{categoryId}", controller.UpdateCategory).Methods(http.MethodPut)
	router.HandleFunc("/{categoryId}", controller.DeleteCategory).Methods(http.MethodDelete)
}

func (ctrl CategoryController) InsertCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CategoryController InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryController InsertCategory").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Category{}
	if err := json.NewDecoder(r.Body).DecodeContext(c, &reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting category").Logger()
	logger.Info().Msg("inserting category")
	c = logger.WithContext(c)
	category, err := ctrl.service.InsertCategory(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_CATEGORY_ID, category.ID).Msg("inserted category")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully inserted category",
		"data": map[string]interface{}{
			"category": category,
		},
	})
}

func (ctrl CategoryController) FindCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CategoryController FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryController FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()

	logger.Info().Msg("finding categories")
	c = logger.WithContext(c)
	categories, err := ctrl.service.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found categories")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "categories found",
		"data": map[string]interface{}{
			"categories": categories,
		},
	})
}

func (ctrl CategoryController) FindCategoryById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CategoryController FindCategoryById")
	defer span.End()

	categoryID := mux.Vars(r)["categoryId"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryController FindCategoryById").
		Str(constants.KEY_CATEGORY_ID, categoryID).
		Str(constants.KEY_PROCESS, "finding category").
		Logger()

	logger.Info().Msgf("finding categoryId=%s", categoryID)
	c = logger.WithContext(c)
	category, err := ctrl.service.FindCategoryById(c, categoryID)
	if err != nil {
		err = fmt.Errorf("failed finding categoryId=%s with error=%w", categoryID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msgf("found categoryId=%s", categoryID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("categoryId=%s found", categoryID),
		"data": map[string]interface{}{
			"category": category,
		},
	})
}

func (ctrl CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CategoryController UpdateCategory")
	defer span.End()

	categoryID := mux.Vars(r)["categoryId"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryController UpdateCategory").
		Str(constants.KEY_CATEGORY_ID, categoryID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.UpdateCategory{}
	if err := json.NewDecoder(r.Body).DecodeContext(c, &reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating category").Logger()
	logger.Info().Msgf("updating categoryId=%s", categoryID)
	c = logger.WithContext(c)
	category, err := ctrl.service.UpdateCategory(c, categoryID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating categoryId=%s with error=%w", categoryID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msgf("updated categoryId=%s", categoryID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("categoryId=%s updated", categoryID),
		"data": map[string]interface{}{
			"category": category,
		},
	})
}

func (ctrl CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CategoryController DeleteCategory")
	defer span.End()

	categoryID := mux.Vars(r)["categoryId"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CategoryController DeleteCategory").
		Str(constants.KEY_CATEGORY_ID, categoryID).
		Str(constants.KEY_PROCESS, "deleting category").
		Logger()

	logger.Info().Msgf("deleting categoryId=%s", categoryID)
	c = logger.WithContext(c)
	if _, err := ctrl.service.DeleteCategory(c, categoryID); err != nil {
		err = fmt.Errorf("failed deleting categoryId=%s with error=%w", categoryID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msgf("deleted categoryId=%s", categoryID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "Category deleted successfully",
	})
}
