package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/internal/presentation/http/dto/response"
	"github.com/sangkips/folio-api/pkg/apperror"
)

// Context keys set by the auth middleware
const (
	ContextAccountID    = "account_id"
	ContextAccountEmail = "account_email"
)

// GetAccountID returns the authenticated account, or uuid.Nil
func GetAccountID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(ContextAccountID)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// AccountMiddleware rejects tokens whose account no longer exists. It must
// run after AuthMiddleware.
func AccountMiddleware(accountRepo repository.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := GetAccountID(c)
		if accountID == uuid.Nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		account, err := accountRepo.GetByID(c.Request.Context(), accountID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if account == nil {
			response.Error(c, apperror.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Next()
	}
}
