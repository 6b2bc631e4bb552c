package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/repositories/memory"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/tokens"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/anonto42/nano-social/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 10 * time.Second

func serve(parent context.Context, cfg *config.Config) error {
	log := logger.WithComponent("server")
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := router.Dependencies{
		Tokens:           tokens.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		TokenHeader:      cfg.TokenHeader,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		PublicUploadPath: cfg.PublicUploadPath,
	}

	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn().Msg("STORAGE=memory: data is lost on restart")
		deps.Accounts = memory.NewAccountRepository()
		deps.Posts = memory.NewPostRepository()
		deps.Comments = memory.NewCommentRepository()
		deps.Messages = memory.NewMessageRepository()
		deps.Notifications = memory.NewNotificationRepository()
		deps.Media = memory.NewMediaRepository()
	case config.StorageMongo:
		db, err := config.InitDB(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize databases: %w", err)
		}
		defer db.CloseDB()

		if err := repositories.EnsureIndexes(ctx, db.Database); err != nil {
			return err
		}
		deps.Accounts = repositories.NewMongoAccountRepository(db.Database)
		deps.Posts = repositories.NewMongoPostRepository(db.Database)
		deps.Comments = repositories.NewMongoCommentRepository(db.Database)
		deps.Messages = repositories.NewMongoMessageRepository(db.Database)
		deps.Notifications = repositories.NewMongoNotificationRepository(db.Database)
		if db.Postgres != nil {
			if err := repositories.MigratePostgres(db.Postgres); err != nil {
				return err
			}
			deps.Media = repositories.NewPostgresMediaRepository(db.Postgres)
		} else {
			deps.Media = memory.NewMediaRepository()
		}
	default:
		return fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	deps.Store = media.NewDiskStore(cfg.UploadDir, cfg.PublicUploadPath)
	deps.UploadDir = cfg.UploadDir
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			return err
		}
		deps.FirebaseAuth = handlers.IDTokenVerifier(app.AuthClient)
		if app.Bucket != nil {
			deps.Store = media.NewBucketStore(app.Bucket, app.BucketName)
			deps.UploadDir = ""
		}
	} else {
		log.Info().Msg("FIREBASE_CREDENTIALS_PATH not set, firebase login disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, deps)

	if cfg.MetricsPort != "" {
		go serveMetrics(cfg.MetricsPort)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func serveMetrics(port string) {
	log := logger.WithComponent("metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info().Str("port", port).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

func ensureSchema(ctx context.Context, cfg *config.Config) error {
	log := logger.WithComponent("schema")
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	if err := repositories.EnsureIndexes(ctx, db.Database); err != nil {
		return err
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("mongodb indexes ensured")

	if db.Postgres != nil {
		if err := repositories.MigratePostgres(db.Postgres); err != nil {
			return err
		}
		log.Info().Msg("postgres schema migrated")
	}
	return nil
}
