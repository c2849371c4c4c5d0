package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	adminCmd "github.com/Alturino/bagstore/admin/cmd"
	cartCmd "github.com/Alturino/bagstore/cart/cmd"
	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/log"
	notificationCmd "github.com/Alturino/bagstore/notification/cmd"
	shopCmd "github.com/Alturino/bagstore/shop/cmd"
	userCmd "github.com/Alturino/bagstore/user/cmd"
)

func Start() {
	env := os.Getenv("APPLICATION_ENV")
	if env == "" {
		env = "development"
	}
	logger := log.InitLogger("/var/log/bagstore.log", env).
		With().
		Str(log.KeyAppName, constants.APP_MAIN_BAGSTORE).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "bagstore"}
	commands := []*cobra.Command{
		{
			Use:   "shop",
			Short: "Run shop backend service",
			Run: func(cmd *cobra.Command, args []string) {
				shopCmd.RunShopService(cmd.Context())
			},
		},
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run notification service",
			Run: func(cmd *cobra.Command, args []string) {
				notificationCmd.RunNotificationService(cmd.Context())
			},
		},
		adminCmd.NewAdminCommand(),
		userCmd.NewCreateAdminCommand(),
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
