package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Status strings used in response envelopes.
const (
	StatusSuccess    = "success"
	StatusBadRequest = "Bad request"
)

// ValidationError is the 422 response body: a single message naming
// every empty required field.
type ValidationError struct {
	Message string `json:"error"`
}

func (e *ValidationError) Error() string { return e.Message }

// APIError is the generic failure envelope used for 400/401/404
// responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Errors     string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Errors != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Status, e.Message, e.Errors)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// parseErrorResponse turns a non-2xx response body into a typed error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var verr ValidationError
		if err := json.Unmarshal(body, &verr); err == nil && verr.Message != "" {
			return &verr
		}
	}

	var aerr APIError
	if err := json.Unmarshal(body, &aerr); err == nil && aerr.Message != "" {
		aerr.StatusCode = resp.StatusCode
		return &aerr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
	}
}
