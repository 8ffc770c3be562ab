package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartCmd "github.com/Alturino/storefront/cart/cmd"
	categoryCmd "github.com/Alturino/storefront/category/cmd"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/cache"
	"github.com/Alturino/storefront/internal/session"
	"github.com/Alturino/storefront/internal/storage"
	productCmd "github.com/Alturino/storefront/product/cmd"
)

const SHUTDOWN_TIMEOUT = 15 * time.Second

func runServe(c context.Context, cfg *config.Config) {
	c, span := otel.Tracer.Start(c, "runServe")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cmd runServe").
		Logger()

	// shutdown work still has to run after c is cancelled by the signal
	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.WithoutCancel(c), SHUTDOWN_TIMEOUT)
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_NAME, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		sc, cancel := shutdownCtx()
		defer cancel()
		if err := otel.ShutdownOtel(sc, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	store, closeStore := openStore(c, cfg)
	defer func() {
		logger = logger.With().Str(constants.KEY_PROCESS, "shutting down database").Logger()
		logger.Info().Msg("shutting down database")
		sc, cancel := shutdownCtx()
		defer cancel()
		if err := closeStore(sc); err != nil {
			err = fmt.Errorf("failed shutting down database with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	var products repository.ProductStore = store
	if cfg.Cache.Enabled {
		logger = logger.With().Str(constants.KEY_PROCESS, "initializing cache").Logger()
		logger.Info().Msg("initializing cache")
		c = logger.WithContext(c)
		redisClient := infra.NewCacheClient(c, cfg.Cache)
		defer func() {
			logger = logger.With().Str(constants.KEY_PROCESS, "shutting down cache").Logger()
			logger.Info().Msg("shutting down cache")
			if err := redisClient.Close(); err != nil {
				err = fmt.Errorf("failed shutting down cache with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			logger.Info().Msg("shutdown cache")
		}()
		products = cache.NewProductStore(store, store, redisClient, cfg.Cache.TTL)
		logger.Info().Msg("initialized cache")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing storage").Logger()
	logger.Info().Msg("initializing storage")
	c = logger.WithContext(c)
	images, local := infra.NewStorage(c, cfg.Storage)
	logger.Info().Msg("initialized storage")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.APP_NAME))
	router.Use(middleware.Chain(cfg.RateLimit)...)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "ok",
		})
	}).Methods(http.MethodGet)
	if local != nil {
		router.PathPrefix(storage.PUBLIC_UPLOADS_PATH).Handler(otelhttp.NewHandler(
			http.StripPrefix(storage.PUBLIC_UPLOADS_PATH, http.FileServer(http.Dir(local.Dir()))),
			"public uploads",
		)).Methods(http.MethodGet, http.MethodHead)
	}
	logger.Info().Msg("initialized router")

	c = logger.WithContext(c)
	cartCmd.AttachCartService(c, router, store, products, session.NewIssuer(cfg.Session), cfg.Cart)
	productCmd.AttachProductService(c, router, products, store, images, cfg.Application.PublicURL)
	categoryCmd.AttachCategoryService(c, router, store)

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      middleware.Cors(cfg.Cors)(router),
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("error=%w occured while server is running", err)
		}
		close(serverErr)
	}()

	select {
	case <-c.Done():
		logger.Info().Msg("received interuption signal shutting down")
	case err := <-serverErr:
		if err != nil {
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	sc, cancel := shutdownCtx()
	defer cancel()
	if err = httpServer.Shutdown(sc); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
