package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shivanshkc/ghauth/internal/config"
	"github.com/shivanshkc/ghauth/internal/database"
	"github.com/shivanshkc/ghauth/internal/handler"
	"github.com/shivanshkc/ghauth/internal/http"
	"github.com/shivanshkc/ghauth/internal/identity"
	"github.com/shivanshkc/ghauth/internal/middleware"
	"github.com/shivanshkc/ghauth/internal/repository"
	"github.com/shivanshkc/ghauth/internal/session"
	"github.com/shivanshkc/ghauth/internal/state"
	"github.com/shivanshkc/ghauth/pkg/logger"
	"github.com/shivanshkc/ghauth/pkg/oauth"
)

func main() {
	ctx := context.Background()

	// Initialize basic dependencies.
	conf, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("failed to load configs: %w", err))
	}
	logger.Init(os.Stdout, conf.Logger.Level, conf.Logger.Pretty)

	// User store.
	users, err := newUserStore(ctx, conf)
	if err != nil {
		slog.Error("failed to set up the user store", "driver", conf.Database.Driver, "error", err)
		os.Exit(1)
	}

	// OAuth state store.
	states, err := newStateStore(ctx, conf)
	if err != nil {
		slog.Error("failed to set up the state store", "driver", conf.State.Driver, "error", err)
		os.Exit(1)
	}

	// Session tokens.
	sessions, err := session.NewManager(conf.Session.Secret, conf.Application.Name, conf.Session.TTL)
	if err != nil {
		slog.Error("failed to set up the session manager", "error", err)
		os.Exit(1)
	}

	// OAuth providers.
	github := oauth.NewGitHub(conf.GitHub.ClientID, conf.GitHub.ClientSecret, conf.CallbackURL("github"),
		conf.GitHub.Scopes)
	providers := oauth.NewRegistry(github)

	// Initialize the HTTP server.
	server := &http.Server{
		Config:     conf,
		Middleware: middleware.Middleware{AllowedOrigins: conf.AllowedOrigins},
		Handler: handler.NewHandler(conf, providers, identity.NewResolver(users), users, states,
			sessions),
	}

	// This internally calls ListenAndServe.
	// This is a blocking call and returns only when the server is shut down.
	if err := server.Start(); err != nil {
		slog.Error("error in server.Start call", "error", err)
		os.Exit(1)
	}
}

// newUserStore connects to the configured database and prepares it for use.
func newUserStore(ctx context.Context, conf config.Config) (repository.Store, error) {
	switch conf.Database.Driver {
	case "postgres":
		db, err := repository.Connect(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("error in repository.Connect call: %w", err)
		}
		if err := repository.Migrate(db); err != nil {
			return nil, fmt.Errorf("error in repository.Migrate call: %w", err)
		}
		return repository.NewRepository(db), nil

	case "mongo":
		client, err := database.Connect(ctx, conf)
		if err != nil {
			return nil, fmt.Errorf("error in database.Connect call: %w", err)
		}
		userDB := database.NewUserDB(conf, client)
		if err := userDB.CreateIndices(ctx); err != nil {
			return nil, fmt.Errorf("error in CreateIndices call: %w", err)
		}
		return userDB, nil

	default:
		return nil, fmt.Errorf("unknown database driver: %q", conf.Database.Driver)
	}
}

// newStateStore returns the configured OAuth state store.
func newStateStore(ctx context.Context, conf config.Config) (state.Store, error) {
	switch conf.State.Driver {
	case "memory":
		return state.NewMemory(), nil

	case "redis":
		client, err := state.ConnectRedis(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("error in state.ConnectRedis call: %w", err)
		}
		return state.NewRedis(client), nil

	default:
		return nil, fmt.Errorf("unknown state driver: %q", conf.State.Driver)
	}
}
