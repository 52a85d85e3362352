package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeDuplicatePending    ErrorCode = "DUPLICATE_PENDING"
	ErrCodeBelowMinimum        ErrorCode = "BELOW_MINIMUM"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeInvalidStatus       ErrorCode = "INVALID_STATUS"
	ErrCodeAlreadyResolved     ErrorCode = "ALREADY_RESOLVED"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeStorageUnavailable  ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
)

// AppError: ошибка с кодом, по которому HTTP слой выбирает статус ответа.
// Details содержит данные для отображения клиенту (например, доступный баланс).
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	Details    map[string]any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail возвращает копию ошибки с дополнительным полем в Details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value

	cp := *e
	cp.Details = details
	return &cp
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Storage оборачивает сбой хранилища. Причина в ответ клиенту не попадает.
func Storage(err error) *AppError {
	return Wrap(err, ErrCodeStorageUnavailable, "хранилище недоступно")
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvalidInput, ErrCodeDuplicatePending, ErrCodeBelowMinimum,
		ErrCodeInsufficientBalance, ErrCodeInvalidStatus, ErrCodeAlreadyResolved:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или пустую строку, если это не AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is проверяет, что в цепочке есть AppError с указанным кодом.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

var (
	ErrInvalidInput     = New(ErrCodeInvalidInput, "некорректные данные запроса")
	ErrDuplicatePending = New(ErrCodeDuplicatePending, "у курьера уже есть заявка на выплату в ожидании")
	ErrBelowMinimum     = New(ErrCodeBelowMinimum, "сумма меньше минимальной суммы выплаты")
	ErrInsufficient     = New(ErrCodeInsufficientBalance, "недостаточно средств на балансе")
	ErrInvalidStatus    = New(ErrCodeInvalidStatus, "недопустимый статус заявки")
	ErrAlreadyResolved  = New(ErrCodeAlreadyResolved, "заявка уже обработана")
	ErrCashoutNotFound  = New(ErrCodeNotFound, "заявка на выплату не найдена")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden        = New(ErrCodeForbidden, "недостаточно прав")
)
