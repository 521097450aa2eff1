package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/daslab/treeshade/pkg/errors"
)

// HTTPError is the wire shape of a failed request.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError builds a transport level error, used for request parsing
// failures that never reach a domain service.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// codeStatus maps application error codes onto response statuses. Only
// storage_error is a 502: it is the one failure a repeat may cure.
var codeStatus = map[string]int{
	apperrors.CodeInvalidInput:         http.StatusBadRequest,
	apperrors.CodeNotFound:             http.StatusNotFound,
	apperrors.CodeEmptyWindow:          http.StatusUnprocessableEntity,
	apperrors.CodeDegenerateProjection: http.StatusUnprocessableEntity,
	apperrors.CodeCorruptData:          http.StatusInternalServerError,
	apperrors.CodeStorage:              http.StatusBadGateway,
}

// asHTTPError resolves any error recorded on the gin context. Explicit
// HTTPErrors win; AppErrors are mapped by code; anything else is a 500.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return internalError(err)
	}
	status, ok := codeStatus[appErr.Code]
	if !ok {
		return internalError(err)
	}
	message := err.Error()
	if status >= http.StatusInternalServerError {
		// Backend details stay in the logs.
		message = appErr.Message
	}
	return &HTTPError{Status: status, Code: appErr.Code, Message: message, Err: err}
}

func internalError(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// abortWithError records err for errorHandlingMiddleware and stops the chain.
func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
