package cmd

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/bagstore/internal/app"
	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/config"
	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/infra"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/middleware"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/user/internal/controller"
	"github.com/Alturino/bagstore/user/internal/service"
	"github.com/Alturino/bagstore/user/pkg/request"
)

// AttachUserService mounts the admin and customer auth routes and returns deps
// with the Admin and Customer middlewares every other service is guarded by.
func AttachUserService(c context.Context, router *mux.Router, deps app.Dependencies) app.Dependencies {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachUserService").
		Str(log.KeyProcess, "initializing user service").
		Logger()

	logger.Info().Msg("initializing user service")
	secret := deps.Config.Application.SecretKey
	users := service.NewUserService(deps.Queries, deps.Cache, deps.Publisher, deps.Clock, secret, deps.Config.Auth)
	deps.Admin = middleware.Auth(secret, constants.AUDIENCE_ADMIN, users)
	deps.Customer = middleware.OptionalAuth(secret, constants.AUDIENCE_USER)
	controller.AttachUserController(router, users, deps.Admin)
	logger.Info().Msg("initialized user service")

	return deps
}

// NewCreateAdminCommand seeds a back-office account directly in the database.
func NewCreateAdminCommand() *cobra.Command {
	param := request.CreateAdmin{}
	command := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCreateAdmin(cmd.Context(), param)
		},
	}
	command.Flags().StringVar(&param.Name, "name", "", "admin display name")
	command.Flags().StringVar(&param.Email, "email", "", "admin login email")
	command.Flags().StringVar(&param.Password, "password", "", "admin password, at least 8 characters")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	return command
}

func RunCreateAdmin(c context.Context, param request.CreateAdmin) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_SHOP_SERVICE).
		Str(log.KeyTag, "main RunCreateAdmin").
		Object(log.KeyRequest, param).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating admin").Logger()
	if param.Name == "" {
		param.Name = param.Email
	}
	if err := inHttp.Validate(c, param); err != nil {
		err = fmt.Errorf("failed validating admin with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.APP_SHOP_SERVICE)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer pool.Close()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "creating admin").Logger()
	logger.Info().Msg("creating admin")
	c = logger.WithContext(c)
	userService := service.NewUserService(repository.New(pool), nil, nil, nil, cfg.Application.SecretKey, cfg.Auth)
	admin, err := userService.CreateAdmin(c, param)
	if err != nil {
		err = fmt.Errorf("failed creating admin with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Str(log.KeyAdminID, admin.ID.String()).Msg("created admin")

	return nil
}
