package openaicompat

import "fmt"

// APIError is a non-2xx response from the completions endpoint. Callers can
// inspect StatusCode to distinguish rate limiting from other failures.
type APIError struct {
	Vendor     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s", e.Vendor, e.StatusCode, e.Body)
}
