package common

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/parcel-ledger/internal/http/middleware"
	"github.com/ignatzorin/parcel-ledger/internal/models"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// CurrentIdentity извлекает проверенную личность из Gin context.
func CurrentIdentity(c *gin.Context) (*models.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return identity, nil
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, "параметр "+paramName+" должен быть валидным UUID")
	}
	return parsed, nil
}

// BindJSON читает тело запроса. Пустое или битое тело даёт INVALID_INPUT.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.New(apperror.ErrCodeInvalidInput, "тело запроса пустое")
		}
		return apperror.ErrInvalidInput.WithDetail("reason", err.Error())
	}
	return nil
}

// RespondError передаёт ошибку в middleware.ErrorHandler и прерывает цепочку.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
