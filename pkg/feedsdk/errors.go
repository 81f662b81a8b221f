package feedsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
)

// Error codes used in "error" fields of JSON error bodies.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeInvalidClient       = "invalid_client"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeClientExists        = "client_exists"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeAccessDenied        = "access_denied"
	ErrorCodeServerError         = "server_error"
	ErrorCodeUpstreamUnavailable = "upstream_unavailable"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
)

// OAuth2Error is an error body as defined by RFC 6749 section 5.2. It is
// written by the feed server and parsed back by the SDK, so both sides
// compare errors with errors.Is against the predefined values below.
type OAuth2Error struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the error code only, so a parsed response with a custom
// description still matches the predefined error.
func (e *OAuth2Error) Is(target error) bool {
	t, ok := target.(*OAuth2Error)
	return ok && t.Code == e.Code
}

// WriteError writes this OAuth2Error to an HTTP response writer.
func (e *OAuth2Error) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{Error: e.Code, ErrorDescription: e.Description})
}

// WithDescription returns a copy of e carrying a different description.
func (e *OAuth2Error) WithDescription(desc string) *OAuth2Error {
	return &OAuth2Error{StatusCode: e.StatusCode, Code: e.Code, Description: desc}
}

var (
	// ErrInvalidRequest is returned for malformed bodies or missing fields.
	ErrInvalidRequest = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidClient is returned when a client_id/client_secret pair is
	// rejected. It never says which half was wrong.
	ErrInvalidClient = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidClient,
		Description: "invalid client credentials",
	}

	// ErrInvalidToken is returned when the access token is missing, invalid
	// or expired. The holder must obtain a new token.
	ErrInvalidToken = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "could not validate credentials",
	}

	// ErrClientExists is returned when registering a client_id that is taken.
	ErrClientExists = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeClientExists,
		Description: "client already exists",
	}

	// ErrNotFound is returned when the requested resource key does not exist.
	ErrNotFound = &OAuth2Error{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	// ErrAccessDenied is returned when an administrative secret is missing or wrong.
	ErrAccessDenied = &OAuth2Error{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccessDenied,
		Description: "access denied",
	}

	// ErrServerError is returned when the server hit an unexpected condition.
	ErrServerError = &OAuth2Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrUpstreamUnavailable is written by the relay when the feed server
	// could not be reached or failed.
	ErrUpstreamUnavailable = &OAuth2Error{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeUpstreamUnavailable,
		Description: "upstream service unavailable",
	}
)

// ErrNotConfigured is returned by a Session that has no credentials yet.
var ErrNotConfigured = errors.New("feedsdk: no client credentials configured")

// TransportError reports that a request never produced an HTTP response:
// DNS, connection, TLS or timeout failures. Callers may retry these; they
// say nothing about whether the credentials are good.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("feedsdk: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// parseErrorResponse turns a non-2xx response body into an *OAuth2Error.
// Bodies that are not JSON error objects become a server_error carrying
// the status text so nothing is swallowed.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &OAuth2Error{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// FastAPI-style {"detail": "..."} bodies.
	var detail struct {
		Detail string `json:"detail"`
	}
	desc := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		desc = detail.Detail
	}

	code := ErrorCodeServerError
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = ErrorCodeInvalidToken
	case http.StatusNotFound:
		code = ErrorCodeNotFound
	case http.StatusForbidden:
		code = ErrorCodeAccessDenied
	case http.StatusBadRequest:
		code = ErrorCodeInvalidRequest
	case http.StatusTooManyRequests:
		code = ErrorCodeRateLimited
	}

	return &OAuth2Error{StatusCode: resp.StatusCode, Code: code, Description: desc}
}
