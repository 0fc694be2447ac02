package api

import (
	"context"
	"errors"
	"net"

	"github.com/tidwall/gjson"
)

// GenericMessage is shown when a failure carries no usable detail
const GenericMessage = "Something went wrong. Please try again."

// ErrTimeout is returned when a request exceeds the configured timeout
var ErrTimeout = errors.New("request timed out")

// Error is a non-2xx backend response
type Error struct {
	StatusCode int    `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// DetailMessage extracts a readable message from an error body: detail when
// it is a string, then detail.error when that is a string, then fallback.
func DetailMessage(body []byte, fallback string) string {
	detail := gjson.GetBytes(body, "detail")
	if detail.Type == gjson.String && detail.Str != "" {
		return detail.Str
	}
	if inner := detail.Get("error"); detail.IsObject() && inner.Type == gjson.String && inner.Str != "" {
		return inner.Str
	}
	return fallback
}

// Message converts any error returned by the client to the single line shown
// in the error banner.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrTimeout) {
		return ErrTimeout.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericMessage
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
