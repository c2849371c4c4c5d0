package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/bagstore/internal/config"
	"github.com/Alturino/bagstore/internal/log"
	"github.com/Alturino/bagstore/internal/otel"
)

var (
	dbOnce sync.Once
	pool   *pgxpool.Pool
)

func PostgresURL(dbConfig config.Database) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&timezone=%s",
		dbConfig.Username,
		dbConfig.Password,
		dbConfig.Host,
		int(dbConfig.Port),
		dbConfig.Name,
		dbConfig.TimeZone,
	)
}

// NewPool builds a traced pgx pool that understands google/uuid values.
func NewPool(c context.Context, postgresUrl string, maxConns int32, minConns int32) (*pgxpool.Pool, error) {
	pgxConfig, err := pgxpool.ParseConfig(postgresUrl)
	if err != nil {
		return nil, fmt.Errorf("failed creating pgx config with error=%w", err)
	}
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer(
		otelpgx.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	pgxConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}
	if maxConns > 0 {
		pgxConfig.MaxConns = maxConns
	}
	if minConns > 0 {
		pgxConfig.MinConns = minConns
	}
	pgxConfig.MaxConnLifetime = 15 * time.Minute
	pgxConfig.MaxConnIdleTime = 5 * time.Minute

	p, err := pgxpool.NewWithConfig(c, pgxConfig)
	if err != nil {
		return nil, fmt.Errorf("failed creating connection pool with error=%w", err)
	}
	if err = p.Ping(c); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed ping db with error=%w", err)
	}
	return p, nil
}

// Migrate applies every pending migration found at migrationPath.
func Migrate(c context.Context, p *pgxpool.Pool, migrationPath string, dbName string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "infra Migrate").
		Str("migrationPath", migrationPath).
		Logger()

	db := stdlib.OpenDBFromPool(p)
	defer db.Close()

	logger = logger.With().Str(log.KeyProcess, "initializing db driver").Logger()
	logger.Info().Msg("initializing db driver")
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed creating postgres driver to do migration with error=%w", err)
	}
	logger.Info().Msg("initialized db driver")

	logger = logger.With().Str(log.KeyProcess, "initializing migration").Logger()
	logger.Info().Msg("initializing migration")
	migration, err := migrate.NewWithDatabaseInstance(migrationPath, dbName, driver)
	if err != nil {
		return fmt.Errorf("failed initializing migration with error=%w", err)
	}
	logger.Info().Msg("initialized migration")

	logger = logger.With().Str(log.KeyProcess, "migration up").Logger()
	logger.Info().Msg("migration up")
	err = migration.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed migration up with error=%w", err)
	}
	logger.Info().Msg("successed migration up")

	return nil
}

func NewDatabaseClient(c context.Context, dbConfig config.Database) *pgxpool.Pool {
	c, span := otel.Tracer.Start(c, "main NewDatabaseClient")
	defer span.End()

	dbOnce.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main NewDatabaseClient").
			Str(log.KeyProcess, "connecting to database").
			Str(log.KeyDbURL, fmt.Sprintf("%s:%d/%s", dbConfig.Host, dbConfig.Port, dbConfig.Name)).
			Logger()

		logger.Info().Msg("connecting to database")
		p, err := NewPool(
			c,
			PostgresURL(dbConfig),
			int32(dbConfig.MaxConnections),
			int32(dbConfig.MinConnections),
		)
		if err != nil {
			otel.RecordError(err, span)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("connected to database")

		c = logger.WithContext(c)
		if err = Migrate(c, p, dbConfig.MigrationPath, dbConfig.Name); err != nil {
			otel.RecordError(err, span)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		pool = p
	})
	return pool
}
