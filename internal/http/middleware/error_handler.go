package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/parcel-ledger/internal/logger"
	"github.com/ignatzorin/parcel-ledger/internal/pkg/apperror"
)

// ErrorResponse: тело ответа с ошибкой.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorBody строит тело ответа для AppError.
func ErrorBody(err *apperror.AppError) ErrorResponse {
	return ErrorResponse{
		Error:   err.Message,
		Code:    string(err.Code),
		Details: err.Details,
	}
}

// ErrorHandler обрабатывает ошибки централизованно.
// Хэндлеры кладут ошибку в c.Error, middleware выбирает статус по коду AppError.
// Причины внутренних ошибок клиенту не отдаются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Wrap(err, apperror.ErrCodeStorageUnavailable, "внутренняя ошибка сервера")
		}

		fields := logrus.Fields{
			"code":   appErr.Code,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Log.WithFields(fields).WithError(err).Error("Request error")
			c.JSON(appErr.HTTPStatus, ErrorResponse{
				Error: "внутренняя ошибка сервера",
				Code:  string(appErr.Code),
			})
			return
		}

		logger.Log.WithFields(fields).Debug("Request rejected")
		c.JSON(appErr.HTTPStatus, ErrorBody(appErr))
	}
}
