package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/folio-api/internal/config"
	domainRepo "github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/internal/presentation/http/handler"
	"github.com/sangkips/folio-api/internal/presentation/http/middleware"
	"github.com/sangkips/folio-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth   *handler.AuthHandler
	Ledger *handler.LedgerHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Log             logrus.FieldLogger
	AccountRepo     domainRepo.AccountRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	// RateLimiter is built from Cfg.RateLimit when nil
	RateLimiter *middleware.AccountRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = middleware.NewAccountRateLimiter(
				middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.AccountMiddleware(deps.AccountRepo))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Profile)

	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		TTL:  deps.Cfg.Idempotency.TTL,
		Log:  deps.Log,
	})

	ledgers := protected.Group("/ledgers")
	{
		ledgers.GET("", h.Ledger.List)
		ledgers.POST("", idempotent, h.Ledger.Create)
		ledgers.GET("/:id", h.Ledger.Get)
		ledgers.DELETE("/:id", h.Ledger.Delete)
		ledgers.PUT("/:id/rooms/:index", h.Ledger.WriteRoomSlot)
		ledgers.POST("/:id/payments", idempotent, h.Ledger.ApplyPayment)
		ledgers.PUT("/:id/status", h.Ledger.SetStatus)
		ledgers.POST("/:id/remarks", h.Ledger.AppendRemarks)
		ledgers.POST("/:id/recompute", h.Ledger.Recompute)
		ledgers.GET("/:id/invoice", h.Ledger.Invoice)
		ledgers.GET("/:id/invoice.xlsx", h.Ledger.ExportInvoice)
	}
}
