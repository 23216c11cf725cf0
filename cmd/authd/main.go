package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/connectorhq/authkit/modules/auth"
	"github.com/connectorhq/authkit/pkg/authtoken"
	"github.com/connectorhq/authkit/pkg/config"
	"github.com/connectorhq/authkit/pkg/email"
	"github.com/connectorhq/authkit/pkg/httpserver"
	"github.com/connectorhq/authkit/pkg/logger"
	"github.com/connectorhq/authkit/pkg/pg"
	"github.com/connectorhq/authkit/pkg/redis"
	"github.com/connectorhq/authkit/pkg/sessionstore"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	HTTP httpserver.Config
	PG   pg.Config
	Rdb  redis.Config
	Mail email.Config
	Auth auth.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	logOpts := []logger.Option{logger.WithService("authd")}
	if cfg.Env == "development" {
		logOpts = append(logOpts, logger.WithDevelopment())
	}
	log := logger.New(logOpts...)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("authd exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, cfg.Rdb)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var mailer email.Sender
	if cfg.Mail.PostmarkServerToken != "" {
		if mailer, err = email.NewPostmarkSender(cfg.Mail); err != nil {
			return err
		}
	} else {
		log.Warn("no postmark token configured, writing emails to ./tmp/emails")
		mailer = email.NewDevSender("tmp/emails")
	}

	codec, err := authtoken.NewCodec([]byte(cfg.Auth.TokenSecret), authtoken.WithIssuer(cfg.Auth.TokenIssuer))
	if err != nil {
		return err
	}

	store := sessionstore.New(rdb)
	users := auth.NewPgUserDirectory(pool)
	sessions := auth.NewSessionManager(cfg.Auth, codec, store, users,
		auth.WithSessionLogger(log))
	svc := auth.NewService(cfg.Auth, codec, store, users, mailer, sessions,
		auth.WithLogger(log))
	guard := auth.NewGuard(codec, users)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool), store.Ping))
	r.Mount("/auth", auth.Router(svc, sessions, guard, log))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
