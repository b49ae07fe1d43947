package alpaca

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

// APIError is a non-2xx response from the API. Code and Message carry the
// broker's {code, message} body verbatim; when the body is not JSON, Code
// is the HTTP status and Message the raw body text.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("code: %d, message: %q", e.Code, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 Unauthorized.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden returns true if the error is a 403 Forbidden.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsUnprocessable returns true for 422, which the API uses for rejected orders.
func (e *APIError) IsUnprocessable() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// errorResponse is the JSON structure of API error bodies.
type errorResponse struct {
	Code    *int    `json:"code"`
	Message *string `json:"message"`
}

// newAPIError builds an APIError from a failed response.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Code:       status,
		Message:    strings.TrimSpace(string(body)),
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != nil {
		apiErr.Message = *errResp.Message
		if errResp.Code != nil {
			apiErr.Code = *errResp.Code
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// TransportError is a failure before any response was received: DNS,
// connection, TLS, timeout or cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a 2xx body that does not match the expected schema.
type DecodeError struct {
	// Type is the Go type being decoded, e.g. "alpaca.Order".
	Type string
	// Field is the JSON field path, when known.
	Field string
	// Value is the offending raw value or JSON kind, when known.
	Value string
	Err   error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("failed to decode ")
	b.WriteString(e.Type)
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (value %s)", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// newDecodeError classifies a failed decode of body into target.
func newDecodeError(target any, body []byte, err error) *DecodeError {
	decErr := &DecodeError{
		Type: strings.TrimLeft(fmt.Sprintf("%T", target), "*"),
		Err:  err,
	}

	var typeErr *json.UnmarshalTypeError
	var variantErr *UnknownVariantError
	var numErr *NumberFormatError
	switch {
	case errors.As(err, &typeErr):
		decErr.Field = typeErr.Field
		decErr.Value = typeErr.Value
	case errors.As(err, &variantErr):
		decErr.Field = failingField(reflect.TypeOf(target), body)
		decErr.Value = variantErr.Value
	case errors.As(err, &numErr):
		decErr.Field = failingField(reflect.TypeOf(target), body)
		decErr.Value = numErr.Value
	default:
		decErr.Field = failingField(reflect.TypeOf(target), body)
	}
	return decErr
}

// UnknownVariantError is a wire token outside an enum's declared set.
type UnknownVariantError struct {
	Type  string
	Value string
}

// Error implements the error interface.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Type, e.Value)
}

// NumberFormatError is a numeric field whose text does not parse.
type NumberFormatError struct {
	Type  string
	Value string
}

// Error implements the error interface.
func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Type, e.Value)
}
