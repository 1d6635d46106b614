package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"useraccounts/internal/app/collections"
	"useraccounts/internal/app/users"
	"useraccounts/internal/auth"
	"useraccounts/internal/httpapi"
	"useraccounts/internal/store"
	"useraccounts/internal/store/memory"
	mongostore "useraccounts/internal/store/mongo"
	"useraccounts/internal/store/postgres"
	"useraccounts/shared/go/config"
	"useraccounts/shared/go/logging"
	"useraccounts/shared/go/models"
)

func serveCmd() *cli.Command {
	var envFile string
	var seedDemo bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "Optional dotenv file loaded before reading the environment",
				Value:       ".env",
				Destination: &envFile,
			},
			&cli.BoolFlag{
				Name:        "seed-demo",
				Usage:       "Create the demo account on startup if it does not exist",
				EnvVars:     []string{"SEED_DEMO"},
				Destination: &seedDemo,
			},
		},
		Action: func(c *cli.Context) error {
			// a missing env file is fine, the environment may already be set
			_ = godotenv.Load(envFile)

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := logging.New(logging.Config{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				File:      cfg.Logging.File,
				MaxSizeMB: cfg.Logging.MaxSizeMB,
			})
			defer logger.Close()
			logging.SetGlobalLogger(logger)

			return run(c.Context, cfg, logger.Zerolog(), seedDemo)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, seedDemo bool) error {
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	if err != nil {
		return err
	}
	hasher := auth.NewPasswordHasher(cfg.Security.BcryptCost)

	userSvc := users.New(st, hasher, tokens, logger)
	favourites := collections.New(st, models.CollectionFavourites, models.CollectionLimit)
	history := collections.New(st, models.CollectionHistory, models.CollectionLimit)

	if seedDemo {
		if err := bootstrapDemoUser(ctx, userSvc, logger); err != nil {
			return err
		}
	}

	api := httpapi.New(userSvc, favourites, history, auth.NewAuthorizer(tokens, st), httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		StoreTimeout:   cfg.Store.Timeout,
	})

	return serveHTTP(ctx, cfg.Server, api.Handler(), logger)
}

// openStore builds the credential store selected by STORE_DRIVER. The
// returned func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	logger = logger.With().Str("driver", cfg.Store.Driver).Logger()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := openDatabase(ctx, logger, cfg.Store.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("Connected to store")
		return postgres.New(db), func() { _ = db.Close() }, nil

	case config.DriverMongo:
		client, err := openMongo(ctx, logger, cfg.Store.Mongo.URL)
		if err != nil {
			return nil, nil, err
		}
		st, err := mongostore.New(ctx, client.Database(cfg.Store.Mongo.Database))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		logger.Info().Str("database", cfg.Store.Mongo.Database).Msg("Connected to store")
		return st, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverMemory:
		logger.Warn().Msg("Using in-memory store, data is lost on exit")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
