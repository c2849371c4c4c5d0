package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Alturino/bagstore/admin/internal/console"
	"github.com/Alturino/bagstore/internal/common/constants"
	"github.com/Alturino/bagstore/internal/config"
	"github.com/Alturino/bagstore/internal/gateway"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	productRequest "github.com/Alturino/bagstore/product/pkg/request"
)

func tokenFile(cfg *config.Config) string {
	if cfg.Gateway.TokenFile != "" {
		return cfg.Gateway.TokenFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bagstore-admin-token"
	}
	return filepath.Join(home, ".bagstore", "admin-token")
}

// newConsole quiets the logger below warnings so log lines do not interleave
// with the rendered tables.
func newConsole(c context.Context, opts ...console.Option) (context.Context, *console.Console, error) {
	logger := zerolog.Ctx(c).
		Level(zerolog.WarnLevel).
		With().
		Str(log.KeyAppName, constants.APP_ADMIN_CONSOLE).
		Str(log.KeyTag, "main newConsole").
		Logger()
	c = logger.WithContext(c)

	cfg := config.InitConfig(c, constants.APP_ADMIN_CONSOLE)
	tokens := gateway.FileToken{Path: tokenFile(cfg)}
	client, err := gateway.NewClient(
		cfg.Gateway.BaseURL,
		gateway.WithTokenSource(tokens),
		gateway.WithTimeout(cfg.Gateway.Timeout),
	)
	if err != nil {
		err = fmt.Errorf("failed initializing gateway with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return c, nil, err
	}
	opts = append([]console.Option{
		console.WithDebounce(cfg.Listing.Debounce),
		console.WithLimit(cfg.Listing.DefaultLimit),
	}, opts...)
	return c, console.New(client, tokens, os.Stdout, opts...), nil
}

type productFilter struct {
	collection string
	minPrice   string
	maxPrice   string
}

func (f *productFilter) bind(command *cobra.Command) {
	command.Flags().StringVar(&f.collection, "collection", "", "products only, collection id")
	command.Flags().StringVar(&f.minPrice, "min-price", "", "products only, lowest price")
	command.Flags().StringVar(&f.maxPrice, "max-price", "", "products only, highest price")
}

func (f *productFilter) option() (console.Option, error) {
	filter := productRequest.FindProducts{}
	if f.collection != "" {
		id, err := uuid.Parse(f.collection)
		if err != nil {
			return nil, fmt.Errorf("collection=%s is not a valid id", f.collection)
		}
		filter.CollectionID = &id
	}
	var err error
	if filter.MinPrice, err = parsePrice(f.minPrice); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parsePrice(f.maxPrice); err != nil {
		return nil, err
	}
	return console.WithProductFilter(filter), nil
}

func NewAdminCommand() *cobra.Command {
	command := &cobra.Command{
		Use:          "admin",
		Short:        "Manage the store from the terminal",
		SilenceUsage: true,
	}
	command.AddCommand(
		loginCommand(),
		logoutCommand(),
		listCommand(),
		watchCommand(),
		createCommand(),
		updateCommand(),
		deleteCommand(),
		statusCommand(),
	)
	return command
}

func loginCommand() *cobra.Command {
	var email, password string
	command := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the admin token for the next commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, con, err := newConsole(cmd.Context())
			if err != nil {
				return err
			}
			return con.Login(c, email, password)
		},
	}
	command.Flags().StringVar(&email, "email", "", "admin email")
	command.Flags().StringVar(&password, "password", "", "admin password")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("password")
	return command
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, con, err := newConsole(cmd.Context())
			if err != nil {
				return err
			}
			return con.Logout(c)
		},
	}
}

func listCommand() *cobra.Command {
	q := listing.Query{}
	filter := productFilter{}
	command := &cobra.Command{
		Use:       "list <resource>",
		Short:     "Print one page of a resource",
		Args:      cobra.ExactArgs(1),
		ValidArgs: gateway.ResourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := filter.option()
			if err != nil {
				return err
			}
			c, con, err := newConsole(cmd.Context(), opt)
			if err != nil {
				return err
			}
			return con.List(c, args[0], q)
		},
	}
	filter.bind(command)
	command.Flags().StringVar(&q.Search, "search", "", "search text")
	command.Flags().StringVar(&q.Status, "status", "", "status filter")
	command.Flags().IntVar(&q.Page, "page", 1, "page number")
	command.Flags().IntVar(&q.Limit, "limit", 0, "page size")
	return command
}

func watchCommand() *cobra.Command {
	filter := productFilter{}
	command := &cobra.Command{
		Use:       "watch <resource>",
		Short:     "Browse a resource interactively, typing searches and commands",
		Args:      cobra.ExactArgs(1),
		ValidArgs: gateway.ResourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := filter.option()
			if err != nil {
				return err
			}
			c, con, err := newConsole(cmd.Context(), opt)
			if err != nil {
				return err
			}
			return con.Watch(c, args[0], cmd.InOrStdin())
		},
	}
	filter.bind(command)
	return command
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("price=%s is not a valid amount", raw)
	}
	return &price, nil
}

type recordFlags struct {
	file   string
	set    []string
	images []string
}

func (f *recordFlags) bind(command *cobra.Command) {
	command.Flags().StringVar(&f.file, "file", "", "json file holding the record fields")
	command.Flags().StringArrayVar(&f.set, "set", nil, "field=value, json values keep their type, repeatable")
	command.Flags().StringArrayVar(&f.images, "image", nil, "products only, image file to upload, repeatable")
}

func createCommand() *cobra.Command {
	flags := recordFlags{}
	command := &cobra.Command{
		Use:       "create <resource>",
		Short:     "Create one record of a resource",
		Example:   "  admin create slides --set title=Summer --set position=1\n  admin create products --file tote.json --image front.png",
		Args:      cobra.ExactArgs(1),
		ValidArgs: gateway.ResourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := console.ReadFields(flags.file, flags.set)
			if err != nil {
				return err
			}
			c, con, err := newConsole(cmd.Context())
			if err != nil {
				return err
			}
			return con.Create(c, args[0], fields, flags.images)
		},
	}
	flags.bind(command)
	return command
}

func updateCommand() *cobra.Command {
	flags := recordFlags{}
	command := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Replace one record of a resource with the given fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := console.ReadFields(flags.file, flags.set)
			if err != nil {
				return err
			}
			c, con, err := newConsole(cmd.Context())
			if err != nil {
				return err
			}
			return con.Update(c, args[0], args[1], fields, flags.images)
		},
	}
	flags.bind(command)
	return command
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one record of a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, con, err := newConsole(cmd.Context())
			if err != nil {
				return err
			}
			return con.Delete(c, args[0], args[1])
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <orderId> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, con, err := newConsole(cmd.Context())
			if err != nil {
				return err
			}
			return con.UpdateStatus(c, args[0], args[1])
		},
	}
}
