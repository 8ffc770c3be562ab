package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
	"github.com/Alturino/storefront/internal/validate"
)

type CartController struct {
	service *service.CartService
	issuer  *session.Issuer
}

func AttachCartController(
	mux *mux.Router,
	service *service.CartService,
	issuer *session.Issuer,
) {
	controller := CartController{service: service, issuer: issuer}

	router := mux.PathPrefix("/cart").Subrouter()
	router.HandleFunc("/add", controller.AddCartItem).Methods(http.MethodPost)
	router.HandleFunc("/items", controller.ListCartItems).Methods(http.MethodGet)
	router.HandleFunc("/odata", controller.ListCartItemsPage).Methods(http.MethodGet)
	router.HandleFunc("/count", controller.CountCartItems).Methods(http.MethodGet)
	router.HandleFunc("/count/{sessionId}", controller.CountCartItems).Methods(http.MethodGet)
	router.HandleFunc("/clear", controller.ClearCart).Methods(http.MethodDelete)
}

func (t CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddCartItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.AddCartItem{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "ensuring session").Logger()
	sessionID := t.issuer.EnsureSessionID(w, r)
	logger = logger.With().Str(constants.KEY_SESSION_ID, sessionID).Logger()
	logger.Info().Msg("ensured session")

	logger = logger.With().Str(constants.KEY_PROCESS, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	c = logger.WithContext(c)
	added, err := t.service.AddCartItem(c, sessionID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "Product added to cart",
		"data": map[string]interface{}{
			"cartItem":  added.CartItem,
			"expiresAt": added.ExpiresAt,
			"notification": fmt.Sprintf(
				"Your cart will be available until %s.",
				added.ExpiresAt.UTC().Format(time.RFC1123),
			),
		},
	})
}

func (t CartController) ListCartItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ListCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ListCartItems").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading session").Logger()
	logger.Info().Msg("reading session")
	sessionID, ok := t.issuer.SessionID(r)
	if !ok {
		err := inErrors.ErrSessionRequired
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_SESSION_ID, sessionID).Logger()
	logger.Info().Msg("read session")

	logger = logger.With().Str(constants.KEY_PROCESS, "listing cart items").Logger()
	logger.Info().Msg("listing cart items")
	c = logger.WithContext(c)
	cartItems, err := t.service.ListCartItems(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed listing cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	if len(cartItems) == 0 {
		logger.Info().Msg("cart is empty")
		inHttp.WriteErrorResponse(c, w, inErrors.ErrCartEmpty)
		return
	}
	logger.Info().Int(constants.KEY_COUNT, len(cartItems)).Msg("listed cart items")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart items found",
		"data": map[string]interface{}{
			"cartItems": cartItems,
		},
	})
}

func (t CartController) ListCartItemsPage(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ListCartItemsPage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ListCartItemsPage").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading session").Logger()
	logger.Info().Msg("reading session")
	sessionID, ok := t.issuer.SessionID(r)
	if !ok {
		err := inErrors.ErrSessionRequired
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_SESSION_ID, sessionID).Logger()
	logger.Info().Msg("read session")

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

	logger = logger.With().Str(constants.KEY_PROCESS, "listing cart items page").Logger()
	logger.Info().Msg("listing cart items page")
	c = logger.WithContext(c)
	result, err := t.service.ListCartItemsPage(c, sessionID, page, limit)
	if err != nil {
		err = fmt.Errorf("failed listing cart items page with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int(constants.KEY_COUNT, len(result.CartItems)).Msg("listed cart items page")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart items found",
		"data": map[string]interface{}{
			"cartItems":  result.CartItems,
			"pagination": result.Pagination,
		},
	})
}

// CountCartItems takes the session from the path when given, otherwise from
// the cookie.
func (t CartController) CountCartItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CountCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController CountCartItems").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting path values").Logger()
	logger.Info().Msg("getting path values")
	pathValues := mux.Vars(r)
	logger = logger.With().Any(constants.KEY_PATH_VALUES, pathValues).Logger()
	logger.Info().Msg("got path values")

	sessionID, ok := pathValues["sessionId"]
	if !ok {
		sessionID, ok = t.issuer.SessionID(r)
	}
	if !ok {
		err := inErrors.ErrSessionRequired
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_SESSION_ID, sessionID).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "counting cart items").Logger()
	logger.Info().Msg("counting cart items")
	c = logger.WithContext(c)
	total, err := t.service.CountCartItems(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed counting cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int64(constants.KEY_COUNT, total).Msg("counted cart items")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "total cart items counted",
		"data": map[string]interface{}{
			"totalCount": total,
		},
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ClearCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading session").Logger()
	logger.Info().Msg("reading session")
	sessionID, ok := t.issuer.SessionID(r)
	if !ok {
		err := inErrors.ErrSessionRequired
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_SESSION_ID, sessionID).Logger()
	logger.Info().Msg("read session")

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	deleted, err := t.service.ClearCart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int64(constants.KEY_COUNT, deleted).Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart cleared",
		"data": map[string]interface{}{
			"deletedCount": deleted,
		},
	})
}
