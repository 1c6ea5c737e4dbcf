package market

import (
	"errors"
	"fmt"
)

var (
	// ErrMarketMismatch indicates an operation requested for a market type
	// the venue or endpoint does not serve
	ErrMarketMismatch = errors.New("market type not supported for this operation")

	// ErrTimeframeUnsupported indicates a candle interval outside the
	// venue's native table
	ErrTimeframeUnsupported = errors.New("timeframe not supported")

	// ErrTickersRequired indicates a subscription that needs explicit
	// tickers received none
	ErrTickersRequired = errors.New("tickers required")

	// ErrNotImplemented indicates the venue has no such feed or endpoint
	ErrNotImplemented = errors.New("not implemented")

	// ErrQueueOverflow indicates the inbound stream queue hit its bound
	ErrQueueOverflow = errors.New("inbound queue overflow")

	// ErrTimeout indicates a deadline expired, either on HTTP retries or
	// while waiting for readiness
	ErrTimeout = errors.New("timed out")

	// ErrUnknownVenue indicates a venue identifier outside the registry
	ErrUnknownVenue = errors.New("unknown venue")
)

// AdaptError reports a wire payload that could not be converted into the
// unified record set
type AdaptError struct {
	Venue  Venue
	Reason string
	Err    error
}

func (e *AdaptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s adapter: %s: %v", e.Venue, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s adapter: %s", e.Venue, e.Reason)
}

func (e *AdaptError) Unwrap() error {
	return e.Err
}

// Adaptf builds an AdaptError with a formatted reason
func Adaptf(venue Venue, format string, args ...any) *AdaptError {
	return &AdaptError{Venue: venue, Reason: fmt.Sprintf(format, args...)}
}

// APIError is a non-2xx HTTP response from a venue
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// IsRateLimit reports whether the venue throttled the request
func (e *APIError) IsRateLimit() bool {
	return e.Status == 429
}
