package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited matches a StatusError for HTTP 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrCreditsExhausted matches a StatusError for HTTP 402.
	ErrCreditsExhausted = errors.New("credits exhausted")
)

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is match the status sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrCreditsExhausted:
		return e.StatusCode == http.StatusPaymentRequired
	default:
		return false
	}
}
