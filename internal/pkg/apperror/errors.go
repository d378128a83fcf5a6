package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
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

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки приложения или ErrCodeInternal для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

var (
	ErrJobNotFound        = New(ErrCodeNotFound, "заказ не найден")
	ErrProposalNotFound   = New(ErrCodeNotFound, "предложение не найдено")
	ErrProjectNotFound    = New(ErrCodeNotFound, "проект не найден")
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")

	// ErrStatusMismatch возвращают репозитории, когда условное обновление
	// не нашло запись в ожидаемом статусе.
	ErrStatusMismatch  = New(ErrCodeConflict, "статус записи изменился, обновите данные")
	ErrJobNotOpen      = New(ErrCodeConflict, "заказ уже не принимает предложения")
	ErrProposalDecided = New(ErrCodeConflict, "решение по предложению уже принято")
	ErrDuplicate       = New(ErrCodeConflict, "запись уже существует")
	ErrEmailTaken      = New(ErrCodeConflict, "email уже зарегистрирован")
)
