package foreman

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a failed Foreman API call. Message is the server's own
// explanation when one could be extracted from the response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("foreman api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("foreman api: unexpected status %d", e.StatusCode)
}

// apiErrorBody matches the two error shapes Foreman responds with:
//
//	{"error": {"message": "..."}}
//	{"error": {"full_messages": ["...", "..."]}}
type apiErrorBody struct {
	Error struct {
		Message      string   `json:"message"`
		FullMessages []string `json:"full_messages"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return &APIError{StatusCode: status, Message: parsed.Error.Message}
		}
		if len(parsed.Error.FullMessages) > 0 {
			return &APIError{StatusCode: status, Message: strings.Join(parsed.Error.FullMessages, "; ")}
		}
	}
	return &APIError{StatusCode: status}
}
