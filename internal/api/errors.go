package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// Error is a normalized backend failure. The backend answers in three
// shapes: {"status","message"} for conflicts and not-found, a field-to-message
// map for validation failures, and {"error": "..."} from the auth filter.
// All of them land here so callers inspect one type.
type Error struct {
	Op      string
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msg := range e.Fields {
			parts = append(parts, field+": "+msg)
		}
		sort.Strings(parts)
		return fmt.Sprintf("%s: %s", e.Op, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0 for non-API errors.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }
func IsNotFound(err error) bool     { return StatusOf(err) == http.StatusNotFound }
func IsConflict(err error) bool     { return StatusOf(err) == http.StatusConflict }

// FieldErrors returns the per-field validation messages carried by err.
func FieldErrors(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

const maxErrorBody = 64 << 10

// decodeError drains resp and normalizes its payload. resp.Body is closed.
func decodeError(op string, resp *http.Response) *Error {
	defer resp.Body.Close()
	apiErr := &Error{Op: op, Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	for _, key := range []string{"message", "error"} {
		if msg, ok := raw[key]; ok {
			var text string
			if json.Unmarshal(msg, &text) == nil && text != "" {
				apiErr.Message = text
				return apiErr
			}
		}
	}

	// No message key: a validation response mapping field names to messages.
	fields := make(map[string]string, len(raw))
	for field, msg := range raw {
		var text string
		if json.Unmarshal(msg, &text) != nil {
			apiErr.Message = strings.TrimSpace(string(body))
			return apiErr
		}
		fields[field] = text
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
		return apiErr
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
