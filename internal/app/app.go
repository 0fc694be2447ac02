package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/khrees2412/jobdash/internal/api"
	"github.com/khrees2412/jobdash/internal/auth"
	"github.com/khrees2412/jobdash/internal/config"
	"github.com/khrees2412/jobdash/internal/dashboard"
	"github.com/khrees2412/jobdash/internal/storage"
	"github.com/khrees2412/jobdash/pkg/logger"
)

// App is the dependency container for the CLI application
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     *storage.SQLiteStore
	Session   *auth.Session
	API       *api.Client
	Dashboard *dashboard.Dashboard
	Tracker   *dashboard.Tracker
}

// NewApp loads the configuration and builds the App from it
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return New(ctx, config.AppConfig, os.Stderr)
}

// New wires every dependency for cfg. Logs go to logOut. The dashboard is
// restored from the cache before New returns.
func New(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	log := logger.Setup(logOut, cfg.LogLevel)

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	session, err := auth.Load(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, session, log)
	dash := dashboard.New(client, dashboard.NewCache(store, log), log)
	dash.Restore(ctx)

	return &App{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Session:   session,
		API:       client,
		Dashboard: dash,
		Tracker:   dashboard.NewTracker(client, log),
	}, nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}
	return a.API.Register(ctx, email, password)
}

// Login exchanges credentials for a token and stores the session
func (a *App) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	token, err := a.API.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.Session.Login(ctx, token, email)
}

// Logout clears the session and drops in-memory dashboard state. Calls still
// in flight are discarded when they return.
func (a *App) Logout(ctx context.Context) error {
	a.Dashboard.Reset()
	a.Tracker.Reset()
	return a.Session.Logout(ctx)
}

// RequireAuth runs view only for a logged-in session
func (a *App) RequireAuth(view func() error) error {
	return auth.Guard(a.Session, view, func() error {
		return ErrUnauthenticated
	})
}

// Close closes all resources
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
