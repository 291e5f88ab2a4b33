package openaicompat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// BackendError is a transport-level failure from the backend: HTTP error
// status, connection failure, or an unparseable response. It is the
// pass-through error class of the contract; the orchestrator never wraps,
// retries, or reinterprets it.
type BackendError struct {
	// Status is the HTTP status code, or 0 for network-level failures.
	Status int

	// Type is the backend's error type string, when provided.
	Type string

	Message string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("backend connection error: %s", e.Message)
	case e.Type != "":
		return fmt.Sprintf("backend error (HTTP %d, %s): %s", e.Status, e.Type, e.Message)
	default:
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
}

// mapHTTPError converts a non-2xx HTTP response into a BackendError,
// parsing the body as a chatErrorResponse when possible.
func mapHTTPError(resp *http.Response) *BackendError {
	be := &BackendError{Status: resp.StatusCode}
	be.Type, be.Message = extractError(resp.Body)
	if be.Message == "" {
		be.Message = fmt.Sprintf("unexpected backend response (HTTP %d)", resp.StatusCode)
	}
	return be
}

// mapNetworkError converts a network-level error (connection refused,
// timeout, DNS failure) into a BackendError.
func mapNetworkError(err error) *BackendError {
	return &BackendError{Message: err.Error()}
}

// extractError tries to parse the response body as a chatErrorResponse and
// returns the error type and message if found.
func extractError(body io.Reader) (string, string) {
	if body == nil {
		return "", ""
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "", ""
	}
	var errResp chatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Type, errResp.Error.Message
	}
	return "", ""
}
