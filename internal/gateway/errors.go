package gateway

import (
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// GenericFailureMessage is shown when a failed response carries no
// usable detail.
const GenericFailureMessage = "Something went wrong. Please try again."

// APIError is a non-2xx response from the coordination API. The gateway
// never retries or tears down sessions itself; callers decide whether
// an authorization failure clears a credential.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     []FieldError
}

// FieldError is one entry of a structured validation-error list.
type FieldError struct {
	Msg string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message())
}

// Unauthorized reports an authorization failure (the server-defined
// unauthenticated status).
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Message extracts the display message: the joined messages of a
// structured validation list if present, otherwise the string detail,
// otherwise a generic fallback.
func (e *APIError) Message() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Msg)
		}
		return strings.Join(msgs, " ")
	}
	if e.Detail != "" {
		return e.Detail
	}
	return GenericFailureMessage
}

// newAPIError parses a failure body of either shape the server emits:
// {"detail": "..."} or {"detail": [{"msg": "..."}, ...]}.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var fields []FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		apiErr.Fields = fields
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
	}
	return apiErr
}
