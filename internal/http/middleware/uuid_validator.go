package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: admin.GET("/cashouts/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			abortWith(c, apperror.New(apperror.ErrCodeInvalidInput, "параметр "+paramName+" обязателен"))
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			abortWith(c, apperror.New(apperror.ErrCodeInvalidInput, "параметр "+paramName+" должен быть валидным UUID").
				WithDetail("param", paramName))
			return
		}

		c.Next()
	}
}
