package errors

import (
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Machine-readable error codes returned next to the human message.
const (
	CodeNotFound             = "not_found"
	CodeAlreadyUsed          = "already used"
	CodeExpired              = "expired"
	CodeForbidden            = "forbidden"
	CodeUnauthorized         = "unauthorized"
	CodeValidationFailed     = "validation_failed"
	CodeTapRequired          = "tap_required"
	CodeInvalidToken         = "invalid_token"
	CodeSessionExpired       = "session_expired"
	CodeGenerationFailed     = "generation_failed"
	CodeRateLimited          = "rate_limited"
	CodeConfigurationMissing = "configuration_missing"
	CodeInternal             = "internal_error"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
	// RetryAfter is the number of seconds a rate limited caller should wait.
	RetryAfter int
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches on status and code so callers can use errors.Is against the
// sentinel values below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

var (
	ErrNotFound         = &AppError{StatusCode: http.StatusNotFound, Code: CodeNotFound}
	ErrAlreadyUsed      = &AppError{StatusCode: http.StatusBadRequest, Code: CodeAlreadyUsed}
	ErrExpired          = &AppError{StatusCode: http.StatusGone, Code: CodeExpired}
	ErrForbidden        = &AppError{StatusCode: http.StatusForbidden, Code: CodeForbidden}
	ErrTapRequired      = &AppError{StatusCode: http.StatusForbidden, Code: CodeTapRequired}
	ErrInvalidToken     = &AppError{StatusCode: http.StatusForbidden, Code: CodeInvalidToken}
	ErrSessionExpired   = &AppError{StatusCode: http.StatusForbidden, Code: CodeSessionExpired}
	ErrGenerationFailed = &AppError{StatusCode: http.StatusInternalServerError, Code: CodeGenerationFailed}
	ErrRateLimited      = &AppError{StatusCode: http.StatusTooManyRequests, Code: CodeRateLimited}
	ErrConfigMissing    = &AppError{StatusCode: http.StatusInternalServerError, Code: CodeConfigurationMissing}
)

func newCodedError(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return newCodedError(http.StatusBadRequest, CodeValidationFailed, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return newCodedError(http.StatusUnauthorized, CodeUnauthorized, message[0])
	}
	return newCodedError(http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return newCodedError(http.StatusForbidden, CodeForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return newCodedError(http.StatusNotFound, CodeNotFound, message)
}

func NewAlreadyUsedError(message string) *AppError {
	return newCodedError(http.StatusBadRequest, CodeAlreadyUsed, message)
}

func NewExpiredError(message string) *AppError {
	return newCodedError(http.StatusGone, CodeExpired, message)
}

func NewTapRequiredError(message string) *AppError {
	return newCodedError(http.StatusForbidden, CodeTapRequired, message)
}

func NewInvalidTokenError(message string) *AppError {
	return newCodedError(http.StatusForbidden, CodeInvalidToken, message)
}

func NewSessionExpiredError(message string) *AppError {
	return newCodedError(http.StatusForbidden, CodeSessionExpired, message)
}

func NewGenerationFailedError(originalError error, message string) *AppError {
	logCause(originalError)
	return newCodedError(http.StatusInternalServerError, CodeGenerationFailed, message)
}

func NewTooManyRequestsError(message string, retryAfter int) *AppError {
	err := newCodedError(http.StatusTooManyRequests, CodeRateLimited, message)
	err.RetryAfter = retryAfter
	return err
}

func NewConfigurationError(message string) *AppError {
	return newCodedError(http.StatusInternalServerError, CodeConfigurationMissing, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logCause(originalError)
	return newCodedError(http.StatusInternalServerError, CodeInternal, message)
}

func logCause(err error) {
	if err == nil {
		return
	}
	logrus.Errorf("[%s] %s", reflect.TypeOf(err).String(), err)
}
