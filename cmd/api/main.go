package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/folio-api/internal/application/service"
	"github.com/sangkips/folio-api/internal/config"
	"github.com/sangkips/folio-api/internal/domain/billing"
	domainRepo "github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/internal/infrastructure/database"
	"github.com/sangkips/folio-api/internal/infrastructure/lock"
	"github.com/sangkips/folio-api/internal/infrastructure/repository"
	"github.com/sangkips/folio-api/internal/presentation/http/handler"
	"github.com/sangkips/folio-api/internal/presentation/http/middleware"
	"github.com/sangkips/folio-api/internal/presentation/http/routes"
	"github.com/sangkips/folio-api/pkg/logger"
	"github.com/sangkips/folio-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	accountRepo := repository.NewAccountRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	locker := newLocker(ctx, cfg, log)

	engine := billing.NewEngine(billing.WithRestoreDueOnReopen(cfg.Billing.RestoreDueOnReopen))

	authService := service.NewAuthService(accountRepo, jwtManager, log)
	ledgerService := service.NewLedgerService(ledgerRepo, accountRepo, locker, engine, log)

	handlers := &routes.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Ledger: handler.NewLedgerHandler(ledgerService),
	}

	rateLimiter := middleware.NewAccountRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             log,
		AccountRepo:     accountRepo,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": port, "env": cfg.App.Env}).Infof("starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}

// newLocker picks the redis lock when REDIS_ADDRESS is set and falls back to
// an in-process lock otherwise
func newLocker(ctx context.Context, cfg *config.Config, log *logrus.Logger) domainRepo.LedgerLocker {
	if cfg.Redis.Address == "" {
		log.Info("REDIS_ADDRESS not set; using in-process ledger lock")
		return lock.NewMemoryLocker()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := lock.NewRedisClient(pingCtx, &cfg.Redis, log)
	if err != nil {
		log.WithError(err).Fatal("redis is configured but unreachable")
	}
	return lock.NewRedisLocker(client, &cfg.Lock, log)
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log logrus.FieldLogger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("failed to purge idempotency keys")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Info("purged expired idempotency keys")
			}
		}
	}
}
