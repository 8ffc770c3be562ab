package infra

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/storage"
)

// NewStorage builds the configured image storage, a nil local return means
// the s3 driver is in use.
func NewStorage(c context.Context, cfg config.Storage) (storage.Storage, *storage.LocalStorage) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra NewStorage").
		Str(constants.KEY_STORAGE_DRIVER, cfg.Driver).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing storage").Logger()
	logger.Info().Msg("initializing storage")
	switch cfg.Driver {
	case "s3":
		s3Storage, err := storage.NewS3Storage(c, cfg.S3)
		if err != nil {
			err = fmt.Errorf("failed initializing s3 storage with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("initialized s3 storage")
		return s3Storage, nil
	case "local", "":
		local, err := storage.NewLocalStorage(cfg.LocalDir)
		if err != nil {
			err = fmt.Errorf("failed initializing local storage with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("initialized local storage")
		return local, local
	default:
		err := fmt.Errorf("unknown storage driver=%s", cfg.Driver)
		logger.Fatal().Err(err).Msg(err.Error())
		return nil, nil
	}
}
