package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrEmptyResult is returned when no comments were collected for any requested video.
// A single video with zero comments is not an error.
var ErrEmptyResult = errors.New("no comments collected for any of the requested videos")

// ConfigError reports invalid input detected before any network activity.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("youtube config: %s: %s", e.Field, e.Reason)
}

// API error reasons the collector treats specially.
const (
	reasonQuotaExceeded      = "quotaExceeded"
	reasonDailyLimitExceeded = "dailyLimitExceeded"
	reasonRateLimitExceeded  = "rateLimitExceeded"
	reasonKeyInvalid         = "keyInvalid"
	reasonForbidden          = "forbidden"
	reasonCommentsDisabled   = "commentsDisabled"
	reasonVideoNotFound      = "videoNotFound"
	reasonParentNotFound     = "commentNotFound"
)

// TransportError is a failed Data API request: network failure, rejected
// credentials or an error status. The collector never retries it.
type TransportError struct {
	Op      string // "commentThreads" or "comments"
	ID      string // video id or parent comment id
	Status  int    // HTTP status, 0 when no response was received
	Reason  string // first API error reason, e.g. quotaExceeded
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Reason != "":
		return fmt.Sprintf("youtube %s [%s]: HTTP %d %s: %s", e.Op, e.ID, e.Status, e.Reason, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("youtube %s [%s]: HTTP %d: %s", e.Op, e.ID, e.Status, e.Message)
	default:
		return fmt.Sprintf("youtube %s [%s]: %v", e.Op, e.ID, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// QuotaExceeded reports whether the key ran out of daily quota.
func (e *TransportError) QuotaExceeded() bool {
	return e.Reason == reasonQuotaExceeded || e.Reason == reasonDailyLimitExceeded
}

// AuthFailed reports whether the credentials were rejected.
func (e *TransportError) AuthFailed() bool {
	return e.Status == http.StatusUnauthorized || e.Reason == reasonKeyInvalid || e.Reason == reasonForbidden
}

// CommentsDisabled reports whether the video does not accept comments.
func (e *TransportError) CommentsDisabled() bool {
	return e.Reason == reasonCommentsDisabled
}

// NotFound reports whether the video or parent comment does not exist.
func (e *TransportError) NotFound() bool {
	return e.Status == http.StatusNotFound || e.Reason == reasonVideoNotFound || e.Reason == reasonParentNotFound
}

// RateLimited reports a short-term throttling response.
func (e *TransportError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests || e.Reason == reasonRateLimitExceeded
}

// apiErrorBody is the standard Google API error envelope.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// classifyAPIError turns an error response into a TransportError.
func classifyAPIError(op, id string, status int, body []byte) *TransportError {
	te := &TransportError{Op: op, ID: id, Status: status, Message: http.StatusText(status)}
	var eb apiErrorBody
	if json.Unmarshal(body, &eb) != nil {
		if len(body) > 0 {
			te.Message = string(truncateBytes(body, 256))
		}
		return te
	}
	if eb.Error.Message != "" {
		te.Message = eb.Error.Message
	}
	if len(eb.Error.Errors) > 0 {
		te.Reason = eb.Error.Errors[0].Reason
	}
	return te
}

// transportFailure wraps a request that never produced a response.
// The *url.Error layer is stripped because its URL carries the API key.
func transportFailure(op, id string, err error) *TransportError {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	return &TransportError{Op: op, ID: id, Err: err}
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
