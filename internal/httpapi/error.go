package httpapi

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/toyz/locus/internal/errors"
)

// HttpError is the JSON body of every failed request. Kind carries the locus
// error code when the failure came from a locate call.
type HttpError struct {
	StatusCode  int      `json:"status_code"`
	Kind        string   `json:"kind,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	Details     any      `json:"details,omitempty"`
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{StatusCode: statusCode, Message: message}
}

// WithDetails attaches a payload, such as the failed result
func (e *HttpError) WithDetails(details any) *HttpError {
	e.Details = details
	return e
}

func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

func ErrInternalServerError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message)
}

// StatusFor maps an error code to the HTTP status reported for it. Malformed
// input is the caller's fault; a missing source or declaration is a 404; a
// matched declaration without a range is a server-side contract violation.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.DescriptorErrorCode, errors.ClassFormatErrorCode:
		return http.StatusBadRequest
	case errors.SourceUnavailableCode, errors.DeclarationNotFoundCode:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts a locate failure, keeping its code and suggestions
func FromError(err error, details any) *HttpError {
	code := errors.CodeOf(err)
	httpErr := NewHttpError(StatusFor(code), err.Error()).WithDetails(details)
	httpErr.Kind = code.String()

	var locusErr errors.LocusError
	if stderrors.As(err, &locusErr) {
		httpErr.Suggestions = locusErr.Suggestions()
	}
	return httpErr
}
