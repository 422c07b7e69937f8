package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/eduportal/academic-api/internal/api"
	"github.com/eduportal/academic-api/internal/api/handler"
	"github.com/eduportal/academic-api/internal/core/ports"
	"github.com/eduportal/academic-api/internal/core/service"
	"github.com/eduportal/academic-api/internal/infrastructure/config"
	"github.com/eduportal/academic-api/internal/infrastructure/db/mongo"
	"github.com/eduportal/academic-api/internal/infrastructure/db/redis"
	"github.com/eduportal/academic-api/internal/infrastructure/mail"
	"github.com/eduportal/academic-api/internal/infrastructure/queue"
	"github.com/eduportal/academic-api/internal/infrastructure/storage"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	hasher, err := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := service.NewTokenManager([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return err
	}

	backend, err := newMailer(cfg, log)
	if err != nil {
		return err
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, backend, log)
	dispatcher.Start(workerCtx)

	images, err := newImageStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongo")
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to redis")
		_ = st.Close(context.Background())
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	authService := service.NewAuthService(st.users, hasher, tokens, dispatcher, cfg.ClientURL, log)
	userService := service.NewUserService(st.users, images, hasher, log)
	requestService := service.NewRequestService(st.requests, log)

	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		UserService:    userService,
		RequestService: requestService,
		Limiter:        redis.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window),
		Readiness: map[string]handler.Pinger{
			"mongo": mongo.NewPinger(st.client),
			"redis": redis.NewPinger(rdb),
		},
		AllowedOrigins:     allowedOrigins(cfg),
		AllowAllOrigins:    cfg.IsDevelopment(),
		RevealUnknownEmail: cfg.Auth.RevealUnknownEmail,
		Log:                log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case serveErr = <-errCh:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	dispatcher.Close()
	if err := st.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}

	log.Info().Msg("server stopped")
	return serveErr
}

// newMailer returns the SMTP mailer, or a log-only mailer when no relay is
// configured.
func newMailer(cfg *config.Config, log zerolog.Logger) (ports.Mailer, error) {
	if cfg.Mail.Host == "" {
		log.Warn().Msg("SMTP_HOST not set, reset links will only be logged")
		return mail.NewLogMailer(log), nil
	}
	return mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
}

// newImageStore returns nil when no bucket is configured; profile image
// uploads then answer 503.
func newImageStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ImageStore, error) {
	if cfg.S3.Bucket == "" {
		log.Warn().Msg("S3_BUCKET not set, profile image uploads are disabled")
		return nil, nil
	}
	store, err := storage.NewS3ImageStore(ctx, storage.Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		PublicURL:       cfg.S3.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func allowedOrigins(cfg *config.Config) []string {
	origins := append([]string(nil), cfg.CORS.AllowedOrigins...)
	for _, o := range origins {
		if o == cfg.ClientURL {
			return origins
		}
	}
	return append(origins, cfg.ClientURL)
}
