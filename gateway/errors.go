package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Error is the single failure shape returned by the gateway, whether the
// call failed in transport, came back with a non-2xx status, or returned a
// body that was not JSON. Message is always non-empty and fit to show to a
// user.
type Error struct {
	Status     int    // HTTP status, zero when no response was received
	StatusText string // reason phrase of the response status line
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsHTTPError reports whether the failure came from a non-2xx response
func (e *Error) IsHTTPError() bool {
	return e.Status != 0 && !isSuccess(e.Status)
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// statusText extracts the reason phrase from a status line such as
// "404 Not Found", falling back to the standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// errorFromResponse builds the failure for a non-2xx response. A JSON body
// with a non-empty string "message" supplies the message; any other body
// is treated as an empty payload.
func errorFromResponse(resp *http.Response, body []byte) *Error {
	text := statusText(resp)
	e := &Error{
		Status:     resp.StatusCode,
		StatusText: text,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, text),
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&payload); err != nil {
		payload = map[string]any{}
	}
	if msg, ok := payload["message"].(string); ok && strings.TrimSpace(msg) != "" {
		e.Message = msg
	}
	return e
}
