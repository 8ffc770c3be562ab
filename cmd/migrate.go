package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
)

func runMigrate(c context.Context, cfg *config.Config) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cmd runMigrate").
		Str(constants.KEY_DB_DRIVER, cfg.Database.Driver).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "migrating").Logger()
	logger.Info().Msg("migrating")
	c = logger.WithContext(c)
	_, closeStore := openStore(c, cfg)
	logger.Info().Msg("migrated")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 10*time.Second)
	defer cancel()
	if err := closeStore(shutdownCtx); err != nil {
		err = fmt.Errorf("failed closing store with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
}
