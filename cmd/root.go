package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/log"
)

func Start() {
	bootstrap := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str(constants.KEY_APP_NAME, constants.APP_NAME).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	bootstrap.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	bootstrap.Info().Msg("added listener for SIGINT and SIGTERM")

	configName := constants.APP_NAME
	rootCmd := &cobra.Command{
		Use:   constants.APP_NAME,
		Short: "Storefront backend serving the session cart and the product catalog",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c := bootstrap.WithContext(cmd.Context())
			cfg := config.Get(c, configName)
			logger := log.Get(cfg.Application.LogPath, cfg.Application)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}
	rootCmd.PersistentFlags().
		StringVarP(&configName, "config", "c", constants.APP_NAME, "config file name under ./env without extension")

	commands := []*cobra.Command{
		{
			Use:   "serve",
			Short: "Run the http server",
			Run: func(cmd *cobra.Command, args []string) {
				runServe(cmd.Context(), config.Get(cmd.Context(), configName))
			},
		},
		{
			Use:   "migrate",
			Short: "Create mongo indexes or apply postgres migrations then exit",
			Run: func(cmd *cobra.Command, args []string) {
				runMigrate(cmd.Context(), config.Get(cmd.Context(), configName))
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		bootstrap.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
