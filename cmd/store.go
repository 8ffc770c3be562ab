package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/repository/memory"
	mongoStore "github.com/Alturino/storefront/internal/repository/mongo"
	postgresStore "github.com/Alturino/storefront/internal/repository/postgres"
)

type closeFunc func(context.Context) error

// openStore connects the configured backend and brings its schema up to
// date, exiting the process when either fails.
func openStore(c context.Context, cfg *config.Config) (repository.Store, closeFunc) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cmd openStore").
		Str(constants.KEY_DB_DRIVER, cfg.Database.Driver).
		Logger()
	c = logger.WithContext(c)

	switch cfg.Database.Driver {
	case "mongo":
		client := infra.NewMongoClient(c, cfg.Database.Mongo)
		store := mongoStore.NewStore(client.Database(cfg.Database.Mongo.Name), cfg.Cart.TTL, time.Now)

		logger = logger.With().Str(constants.KEY_PROCESS, "ensuring indexes").Logger()
		logger.Info().Msg("ensuring indexes")
		if err := store.EnsureIndexes(c); err != nil {
			err = fmt.Errorf("failed ensuring indexes with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("ensured indexes")
		return store, client.Disconnect
	case "postgres":
		pool := infra.NewPostgresPool(c, cfg.Database.Postgres)

		logger = logger.With().Str(constants.KEY_PROCESS, "migrating database").Logger()
		logger.Info().Msg("migrating database")
		if err := infra.MigratePostgres(c, pool, cfg.Database.Postgres); err != nil {
			err = fmt.Errorf("failed migrating database with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("migrated database")
		return postgresStore.NewStore(pool, cfg.Cart.TTL, time.Now), func(context.Context) error {
			pool.Close()
			return nil
		}
	case "memory":
		logger.Warn().Msg("using in memory store, data is lost on restart")
		return memory.NewStore(cfg.Cart.TTL, time.Now), func(context.Context) error { return nil }
	default:
		err := fmt.Errorf("unknown db driver=%s", cfg.Database.Driver)
		logger.Fatal().Err(err).Msg(err.Error())
		return nil, nil
	}
}
