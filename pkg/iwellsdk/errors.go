package iwellsdk

import (
	"fmt"
	"net/http"
)

const maxErrorBody = 512

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int

	// Body is the start of the upstream response, for diagnostics only.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("iwell: %s %s: HTTP %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func newStatusError(method, path string, code int, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{Method: method, Path: path, StatusCode: code, Body: string(body)}
}
