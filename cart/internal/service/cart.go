package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
)

type CartService struct {
	carts    repository.CartStore
	products repository.ProductStore
	ttl      time.Duration
}

func NewCartService(
	carts repository.CartStore,
	products repository.ProductStore,
	ttl time.Duration,
) CartService {
	return CartService{carts: carts, products: products, ttl: ttl}
}

func (svc CartService) AddCartItem(
	c context.Context,
	sessionID string,
	param request.AddCartItem,
) (response.AddedCartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddCartItem")
	defer span.End()

	quantity := param.QuantityOrDefault()
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddCartItem").
		Str(constants.KEY_SESSION_ID, sessionID).
		Str(constants.KEY_PRODUCT_ID, param.ProductID).
		Int(constants.KEY_QUANTITY, quantity).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "checking product exists").Logger()
	logger.Info().Msgf("checking productId=%s exists", param.ProductID)
	exists, err := svc.products.ProductExists(c, param.ProductID)
	if err != nil {
		err = fmt.Errorf("failed checking productId=%s exists with error=%w", param.ProductID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.AddedCartItem{}, err
	}
	if !exists {
		err = inErrors.ErrProductNotFound
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.AddedCartItem{}, err
	}
	logger.Info().Msgf("productId=%s exists", param.ProductID)

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart item").Logger()
	logger.Info().Msg("upserting cart item")
	item, err := svc.carts.UpsertCartItem(c, repository.UpsertCartItemParams{
		SessionID: sessionID,
		ProductID: param.ProductID,
		Quantity:  quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.AddedCartItem{}, err
	}
	metrics.CartItemsAdded.Add(float64(quantity))
	logger.Info().Str(constants.KEY_CART_ITEM, item.ID).Int(constants.KEY_COUNT, item.Quantity).Msg("upserted cart item")

	return response.AddedCartItem{
		CartItem:  item.Response(),
		ExpiresAt: item.AddedAt.Add(svc.ttl),
	}, nil
}

// ListCartItems returns the live lines of the session whose product still
// exists.
func (svc CartService) ListCartItems(c context.Context, sessionID string) ([]response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService ListCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService ListCartItems").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	items, err := svc.carts.FindCartItems(c, repository.FindCartItemsParams{SessionID: sessionID})
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	cartItems := make([]response.CartItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			logger.Debug().Str(constants.KEY_PRODUCT_ID, item.ProductID).Msg("dropping cart item of deleted product")
			continue
		}
		cartItems = append(cartItems, item.Response())
	}
	logger.Info().Int(constants.KEY_COUNT, len(cartItems)).Msg("found cart items")

	return cartItems, nil
}

func (svc CartService) ListCartItemsPage(
	c context.Context,
	sessionID string,
	page int,
	limit int,
) (response.CartItemsPage, error) {
	c, span := otel.Tracer.Start(c, "CartService ListCartItemsPage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService ListCartItemsPage").
		Str(constants.KEY_SESSION_ID, sessionID).
		Int(constants.KEY_PAGE, page).
		Int(constants.KEY_LIMIT, limit).
		Logger()

	offset, err := repository.PageOffset(page, limit)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItemsPage{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items page").Logger()
	logger.Info().Msg("finding cart items page")
	items, err := svc.carts.FindCartItems(c, repository.FindCartItemsParams{
		SessionID: sessionID,
		Offset:    offset,
		Limit:     int64(limit),
	})
	if err != nil {
		err = fmt.Errorf("failed finding cart items page with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItemsPage{}, err
	}
	logger.Info().Int(constants.KEY_COUNT, len(items)).Msg("found cart items page")

	logger = logger.With().Str(constants.KEY_PROCESS, "counting cart items").Logger()
	logger.Info().Msg("counting cart items")
	total, err := svc.carts.CountCartItems(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed counting cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItemsPage{}, err
	}
	logger.Info().Int64(constants.KEY_COUNT, total).Msg("counted cart items")

	cartItems := make([]response.CartItem, 0, len(items))
	for _, item := range items {
		cartItems = append(cartItems, item.Response())
	}

	return response.CartItemsPage{
		CartItems: cartItems,
		Pagination: response.Pagination{
			TotalItems:  total,
			TotalPages:  (total + int64(limit) - 1) / int64(limit),
			CurrentPage: page,
		},
	}, nil
}

// CountCartItems is the total quantity over the live lines of the session.
func (svc CartService) CountCartItems(c context.Context, sessionID string) (int64, error) {
	c, span := otel.Tracer.Start(c, "CartService CountCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService CountCartItems").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "summing cart quantity").Logger()
	logger.Info().Msg("summing cart quantity")
	total, err := svc.carts.SumCartQuantity(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed summing cart quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	logger.Info().Int64(constants.KEY_COUNT, total).Msg("summed cart quantity")

	return total, nil
}

func (svc CartService) ClearCart(c context.Context, sessionID string) (int64, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService ClearCart").
		Str(constants.KEY_SESSION_ID, sessionID).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart items").Logger()
	logger.Info().Msg("deleting cart items")
	deleted, err := svc.carts.DeleteCartItems(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed deleting cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	metrics.CartClears.Inc()
	logger.Info().Int64(constants.KEY_COUNT, deleted).Msg("deleted cart items")

	return deleted, nil
}
