package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// ContextIdentityKey: ключ проверенной личности в gin.Context.
const ContextIdentityKey = "identity"

// AccessTokenParser проверяет access токен.
type AccessTokenParser interface {
	ParseAccess(token string) (*models.Identity, error)
}

// AuthMiddleware проверяет JWT access токен.
func AuthMiddleware(tokens AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		identity, err := tokens.ParseAccess(raw)
		if err != nil || identity == nil {
			abortWith(c, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден"))
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из указанных ролей.
// Должен стоять после AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		abortWith(c, apperror.ErrForbidden)
	}
}

// IdentityFrom извлекает личность, сохранённую AuthMiddleware.
func IdentityFrom(c *gin.Context) (*models.Identity, bool) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := raw.(*models.Identity)
	return identity, ok && identity != nil
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, ErrorBody(err))
}
