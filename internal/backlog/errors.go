package backlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthentication indicates the API key is missing or was rejected.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound indicates a project key did not match any project in the space.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the Backlog host could not be reached.
	ErrUnavailable = errors.New("backlog host unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("backlog request timed out")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Messages   []string
	Body       string
}

func (e *HTTPError) Error() string {
	detail := strings.Join(e.Messages, "; ")
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, detail)
}

// Unwrap lets errors.Is(err, ErrAuthentication) match rejected keys.
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrAuthentication
	}
	return nil
}

// errorEnvelope is the body Backlog returns alongside 4xx/5xx statuses.
type errorEnvelope struct {
	Errors []struct {
		Message  string `json:"message"`
		Code     int    `json:"code"`
		MoreInfo string `json:"moreInfo"`
	} `json:"errors"`
}

func newHTTPError(method, path string, status int, body []byte) *HTTPError {
	e := &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       string(body),
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		for _, m := range env.Errors {
			if m.Message != "" {
				e.Messages = append(e.Messages, m.Message)
			}
		}
	}
	return e
}

func errorCode(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return "AUTH"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("HTTP_%d", httpErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
