package infra

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
)

func NewMongoClient(c context.Context, cfg config.Mongo) *mongo.Client {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra NewMongoClient").
		Str(constants.KEY_DB_DRIVER, "mongo").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "connecting to mongo").Logger()
	logger.Info().Msg("connecting to mongo")
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMonitor(otelmongo.NewMonitor())
	client, err := mongo.Connect(c, opts)
	if err != nil {
		err = fmt.Errorf("failed connecting to mongo with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("connected to mongo")

	logger = logger.With().Str(constants.KEY_PROCESS, "ping mongo").Logger()
	logger.Info().Msg("ping mongo")
	if err = client.Ping(c, nil); err != nil {
		err = fmt.Errorf("failed ping mongo with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("successed ping mongo")

	return client
}
