package controller

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
)

type ProductController struct {
	service   *service.ProductService
	publicURL string
}

func AttachProductController(
	mux *mux.Router,
	service *service.ProductService,
	publicURL string,
) {
	controller := ProductController{service: service, publicURL: publicURL}

	router := mux.PathPrefix("/products").Subrouter()
	router.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("", controller.InsertProduct).Methods(http.MethodPost)
	router.HandleFunc("/", controller.InsertProduct).Methods(http.MethodPost)
	router.HandleFunc("/count", controller.CountProducts).Methods(http.MethodGet)
	router.HandleFunc("/page", controller.FindProductsPage).Methods(http.MethodGet)
	router.HandleFunc("/getProductsByIds", controller.FindProductsByIds).Methods(http.MethodPost)
	router.HandleFunc("/category/{categoryId}", controller.FindProductsByCategoryId).
		Methods(http.MethodGet)
	router.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
	router.HandleFunc("/{productId}", controller.UpdateProduct).Methods(http.MethodPut)
	router.HandleFunc("/{productId}", controller.DeleteProduct).Methods(http.MethodDelete)
}

func (p ProductController) baseURL(r *http.Request) string {
	if p.publicURL != "" {
		return p.publicURL
	}
	return inHttp.BaseURL(r)
}

func (p ProductController) InsertProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController InsertProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing multipart form").Logger()
	logger.Info().Msg("parsing multipart form")
	form, err := parseProductForm(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	defer form.Close()
	reqBody := form.Product()
	logger.Info().Msg("parsed multipart form")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err = validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	c = logger.WithContext(c)
	product, err := p.service.InsertProduct(c, p.baseURL(r), reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_PRODUCT_ID, product.ID).Msg("inserted product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully inserted product",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (p ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	c = logger.WithContext(c)
	products, err := p.service.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (p ProductController) CountProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController CountProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController CountProducts").
		Str(constants.KEY_PROCESS, "counting products").
		Logger()

	logger.Info().Msg("counting products")
	c = logger.WithContext(c)
	count, err := p.service.CountProducts(c)
	if err != nil {
		err = fmt.Errorf("failed counting products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int64(constants.KEY_COUNT, count).Msg("counted products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products counted",
		"data": map[string]interface{}{
			"count": count,
		},
	})
}

func (p ProductController) FindProductsPage(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductsPage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductsPage").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing pagination").Logger()
	logger.Info().Msg("parsing pagination")
	page, limit, err := inHttp.Pagination(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Int(constants.KEY_PAGE, page).Int(constants.KEY_LIMIT, limit).Logger()
	logger.Info().Msg("parsed pagination")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products page").Logger()
	logger.Info().Msg("finding products page")
	c = logger.WithContext(c)
	products, err := p.service.FindProductsPage(c, page, limit)
	if err != nil {
		err = fmt.Errorf("failed finding products page with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found products page")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (p ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductById").
		Logger()

	pathValues := mux.Vars(r)
	productID := pathValues["productId"]
	logger = logger.With().
		Any(constants.KEY_PATH_VALUES, pathValues).
		Str(constants.KEY_PRODUCT_ID, productID).
		Str(constants.KEY_PROCESS, "finding product").
		Logger()

	logger.Info().Msgf("finding productId=%s", productID)
	c = logger.WithContext(c)
	product, err := p.service.FindProductById(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msgf("found productId=%s", productID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s found", productID),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (p ProductController) FindProductsByIds(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductsByIds")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductsByIds").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := struct {
		ProductIds json.RawMessage `json:"productIds"`
	}{}
	ids := []string{}
	err := json.NewDecoder(r.Body).DecodeContext(c, &reqBody)
	if err == nil {
		err = json.Unmarshal(reqBody.ProductIds, &ids)
	}
	if err != nil || ids == nil {
		err = fmt.Errorf("failed decoding productIds with error=%w", inErrors.ErrInvalidProductIds)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Strs(constants.KEY_PRODUCT_IDS, ids).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products by ids").Logger()
	logger.Info().Msg("finding products by ids")
	c = logger.WithContext(c)
	products, err := p.service.FindProductsByIds(c, ids)
	if err != nil {
		err = fmt.Errorf("failed finding products by ids with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found products by ids")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (p ProductController) FindProductsByCategoryId(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductsByCategoryId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductsByCategoryId").
		Logger()

	categoryID := mux.Vars(r)["categoryId"]
	logger = logger.With().
		Str(constants.KEY_CATEGORY_ID, categoryID).
		Str(constants.KEY_PROCESS, "finding products by category").
		Logger()

	logger.Info().Msg("finding products by category")
	c = logger.WithContext(c)
	products, err := p.service.FindProductsByCategoryId(c, categoryID)
	if err != nil {
		err = fmt.Errorf("failed finding products by categoryId=%s with error=%w", categoryID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found products by category")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (p ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController UpdateProduct")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController UpdateProduct").
		Str(constants.KEY_PRODUCT_ID, productID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing multipart form").Logger()
	logger.Info().Msg("parsing multipart form")
	form, err := parseProductForm(w, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	defer form.Close()
	reqBody := form.UpdateProduct()
	logger.Info().Msg("parsed multipart form")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err = validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteBadRequestResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Info().Msgf("updating productId=%s", productID)
	c = logger.WithContext(c)
	product, err := p.service.UpdateProduct(c, p.baseURL(r), productID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating productId=%s with error=%w", productID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msgf("updated productId=%s", productID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s updated", productID),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (p ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController DeleteProduct")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController DeleteProduct").
		Str(constants.KEY_PRODUCT_ID, productID).
		Str(constants.KEY_PROCESS, "deleting product").
		Logger()

	logger.Info().Msgf("deleting productId=%s", productID)
	c = logger.WithContext(c)
	if _, err := p.service.DeleteProduct(c, productID); err != nil {
		err = fmt.Errorf("failed deleting productId=%s with error=%w", productID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msgf("deleted productId=%s", productID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "Product deleted successfully",
	})
}
