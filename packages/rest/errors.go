package rest

import "fmt"

// APIError is returned by Send for responses outside the success range.
// It carries the HTTP status code and a best-effort message extracted
// from the response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}
