package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// parseError builds an APIError from a failed response. The message comes
// from the body's "error" or "message" field when present.
func parseError(path string, resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Path:       path,
		Message:    fmt.Sprintf("API Error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return apiErr
	}

	switch {
	case errResp.Error != "":
		apiErr.Message = errResp.Error
	case errResp.Message != "":
		apiErr.Message = errResp.Message
	}
	return apiErr
}
