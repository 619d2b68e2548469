package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/pkg/account"
	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/kv"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type appConfig struct {
	// AppSecret signs session identifiers. Set once at process start,
	// injected explicitly into the session manager, read-only after.
	AppSecret string `env:"APP_SECRET,required"`

	Environment string `env:"APP_ENV" envDefault:"development"`
}

func main() {
	var (
		appCfg    appConfig
		kvCfg     kv.Config
		sessCfg   session.Config
		dbCfg     account.Config
		serverCfg httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&kvCfg)
	config.MustLoad(&sessCfg)
	config.MustLoad(&dbCfg)
	config.MustLoad(&serverCfg)

	logFormat := logger.FormatJSON
	if appCfg.Environment == "development" {
		logFormat = logger.FormatText
	}
	log := logger.New(
		logger.WithFormat(logFormat),
		logger.WithAttr(slog.String("service", "sessiond")),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kv.New(ctx, kvCfg)
	if err != nil {
		log.Error("failed to initialize kv store", slog.Any("error", err))
		os.Exit(1)
	}

	directory, err := newDirectory(ctx, dbCfg)
	if err != nil {
		log.Error("failed to initialize account directory", slog.Any("error", err))
		os.Exit(1)
	}

	manager, err := session.New(appCfg.AppSecret, store, session.WithConfig(sessCfg))
	if err != nil {
		log.Error("failed to initialize session manager", slog.Any("error", err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(manager.Middleware(
		session.WithLogger(log),
		session.WithSkipPaths("/static/", "/favicon.ico", "/healthz"),
	))

	h := &handlers{manager: manager, directory: directory, log: log}
	h.register(r)

	if err := httpserver.New(serverCfg, log).Run(ctx, r); err != nil {
		log.Error("http server failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("sessiond stopped cleanly")
}

// newDirectory picks the account backend: postgres when DATABASE_URL is
// set, in-memory otherwise (local development).
func newDirectory(ctx context.Context, cfg account.Config) (account.Directory, error) {
	if cfg.DatabaseURL == "" {
		return account.NewMemoryDirectory(), nil
	}

	pool, err := account.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := account.Migrate(ctx, pool); err != nil {
		return nil, err
	}

	return account.NewPostgresDirectory(pool), nil
}
