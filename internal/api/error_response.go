package api

// error_response.go maps lower level errors to the error response format
// returned to clients. Full error details are logged server-side; the
// response carries a sanitized short text plus the error message.

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/35C4n0r/cord-mark/internal/identity"
	"github.com/35C4n0r/cord-mark/internal/ledger"
	"github.com/35C4n0r/cord-mark/internal/logger"
	"github.com/35C4n0r/cord-mark/internal/mark"
	"github.com/35C4n0r/cord-mark/internal/request"
	"github.com/35C4n0r/cord-mark/internal/schema"
	"github.com/35C4n0r/cord-mark/internal/stream"
)

// ErrorResponse is the standard error payload returned by the mark server.
type ErrorResponse struct {
	// The HTTP method used to make the request e.g. GET, POST, etc
	HTTPMethod string `json:"httpMethod"`

	// The URI that was requested
	RequestURI string `json:"requestUri"`

	// The HTTP status code returned
	StatusCode int `json:"statusCode"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText"`

	// A short description of the failure
	StatusCodeMessage string `json:"statusCodeMessage,omitempty"`

	// A unique identifier for the HTTP request within the scope of the server
	CorrelationReference string `json:"correlationReference,omitempty"`

	// The DateTime corresponding to the error occurring
	ErrorDateTime string `json:"errorDateTime"`

	// An array of errors providing more detail about the root cause
	Errors []DetailedError `json:"errors"`
}

// DetailedError carries the originating package's error code and message.
type DetailedError struct {
	ErrorCode        string `json:"errorCode"`
	ErrorCodeText    string `json:"errorCodeText"`
	ErrorCodeMessage string `json:"errorCodeMessage"`
}

// MapErrorToResponse maps mark, request, stream, schema, ledger, identity,
// and api package errors to an error response with the appropriate HTTP
// status code.
//
// Call this function to set up the error response before sending it to the
// client (using RespondWithError).
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return newErrorResponse(r, requestID, apiStatus(apiErr.Code()), string(apiErr.Code()), apiText(apiErr.Code()), apiErr.Error())
	}

	// Decompression errors sit on the boundary between malformed input and
	// validation failure; a bad array shape is a 400, everything else a 422.
	var markErr *mark.MarkError
	if errors.As(err, &markErr) {
		if markErr.Code() == mark.ErrCodeDecompression {
			return newErrorResponse(r, requestID, http.StatusBadRequest, string(markErr.Code()), "Invalid compressed mark", markErr.Error())
		}
		return newErrorResponse(r, requestID, http.StatusUnprocessableEntity, string(markErr.Code()), "Mark validation failed", markErr.Error())
	}

	var reqErr *request.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Code() == request.ErrCodeDecompression {
			return newErrorResponse(r, requestID, http.StatusBadRequest, string(reqErr.Code()), "Invalid compressed request", reqErr.Error())
		}
		return newErrorResponse(r, requestID, http.StatusUnprocessableEntity, string(reqErr.Code()), "Request validation failed", reqErr.Error())
	}

	var streamErr *stream.StreamError
	if errors.As(err, &streamErr) {
		if streamErr.Code() == stream.ErrCodeDecompression {
			return newErrorResponse(r, requestID, http.StatusBadRequest, string(streamErr.Code()), "Invalid compressed stream", streamErr.Error())
		}
		return newErrorResponse(r, requestID, http.StatusUnprocessableEntity, string(streamErr.Code()), "Stream validation failed", streamErr.Error())
	}

	var schemaErr *schema.SchemaError
	if errors.As(err, &schemaErr) {
		if schemaErr.Code() == schema.ErrCodeDefinition {
			return newErrorResponse(r, requestID, http.StatusBadRequest, string(schemaErr.Code()), "Invalid schema definition", schemaErr.Error())
		}
		return newErrorResponse(r, requestID, http.StatusInternalServerError, string(schemaErr.Code()), "Internal Error", schemaErr.Error())
	}

	var ledgerErr *ledger.LedgerError
	if errors.As(err, &ledgerErr) {
		return newErrorResponse(r, requestID, ledgerStatus(ledgerErr.Code()), string(ledgerErr.Code()), ledgerText(ledgerErr.Code()), ledgerErr.Error())
	}

	var identityErr *identity.IdentityError
	if errors.As(err, &identityErr) {
		switch identityErr.Code() {
		case identity.ErrCodeSignature:
			return newErrorResponse(r, requestID, http.StatusUnprocessableEntity, string(identityErr.Code()), "Bad signature", identityErr.Error())
		case identity.ErrCodeValidation:
			return newErrorResponse(r, requestID, http.StatusBadRequest, string(identityErr.Code()), "Invalid identity", identityErr.Error())
		default:
			return newErrorResponse(r, requestID, http.StatusInternalServerError, string(identityErr.Code()), "Internal Error", identityErr.Error())
		}
	}

	// fallback - this is not expected - return an internal error response
	// and log the unmapped error
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("BUG: Unmapped error type in MapErrorToResponse",
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()),
		slog.String("request_id", requestID),
	)
	return newErrorResponse(r, requestID, http.StatusInternalServerError, string(ErrCodeInternal), "Internal Error", "An internal error occurred")
}

func newErrorResponse(r *http.Request, requestID string, statusCode int, code, text, message string) *ErrorResponse {
	return &ErrorResponse{
		HTTPMethod:           r.Method,
		RequestURI:           r.RequestURI,
		StatusCode:           statusCode,
		StatusCodeText:       http.StatusText(statusCode),
		StatusCodeMessage:    text,
		CorrelationReference: requestID,
		ErrorDateTime:        time.Now().UTC().Format(time.RFC3339),
		Errors: []DetailedError{
			{
				ErrorCode:        code,
				ErrorCodeText:    text,
				ErrorCodeMessage: message,
			},
		},
	}
}

func apiStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMalformedRequest:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func apiText(code ErrorCode) string {
	switch code {
	case ErrCodeMalformedRequest:
		return "Malformed request"
	case ErrCodeRateLimitExceeded:
		return "Rate limit exceeded"
	case ErrCodeRequestTooLarge:
		return "Request too large"
	default:
		return "Internal Error"
	}
}

func ledgerStatus(code ledger.ErrorCode) int {
	switch code {
	case ledger.ErrCodeNotFound:
		return http.StatusNotFound
	case ledger.ErrCodeDuplicate:
		return http.StatusConflict
	case ledger.ErrCodeNotAuthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func ledgerText(code ledger.ErrorCode) string {
	switch code {
	case ledger.ErrCodeNotFound:
		return "Not found"
	case ledger.ErrCodeDuplicate:
		return "Already anchored"
	case ledger.ErrCodeNotAuthorized:
		return "Not authorized"
	default:
		return "Internal Error"
	}
}
