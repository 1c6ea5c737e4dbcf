package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cryptomd/internal/metrics"
)

// GetJSON performs a GET and decodes the body into dynamic JSON, recording
// fetch duration and errors under venue/endpoint labels.
func (c *Client) GetJSON(ctx context.Context, venue, endpoint, rawURL string, params map[string]string) (any, error) {
	timer := metrics.NewTimer()
	raw, err := c.Get(ctx, rawURL, params)
	if err != nil {
		metrics.RecordRestError(venue, endpoint)
		return nil, fmt.Errorf("fetch %s %s: %w", venue, endpoint, err)
	}
	timer.ObserveDuration(metrics.RestFetchDuration, venue, endpoint)

	return decodeJSON(venue, endpoint, raw)
}

// GetJSONAuth is GetJSON with request headers, for keyed APIs
func (c *Client) GetJSONAuth(ctx context.Context, venue, endpoint, rawURL string, params, headers map[string]string) (any, error) {
	timer := metrics.NewTimer()
	raw, err := c.Request(ctx, http.MethodGet, rawURL, params, nil, headers)
	if err != nil {
		metrics.RecordRestError(venue, endpoint)
		return nil, fmt.Errorf("fetch %s %s: %w", venue, endpoint, err)
	}
	timer.ObserveDuration(metrics.RestFetchDuration, venue, endpoint)

	return decodeJSON(venue, endpoint, raw)
}

// PostJSON performs a POST with a JSON body and decodes the response into
// dynamic JSON
func (c *Client) PostJSON(ctx context.Context, venue, endpoint, rawURL string, body any, headers map[string]string) (any, error) {
	timer := metrics.NewTimer()
	raw, err := c.Post(ctx, rawURL, body, headers)
	if err != nil {
		metrics.RecordRestError(venue, endpoint)
		return nil, fmt.Errorf("fetch %s %s: %w", venue, endpoint, err)
	}
	timer.ObserveDuration(metrics.RestFetchDuration, venue, endpoint)

	return decodeJSON(venue, endpoint, raw)
}

func decodeJSON(venue, endpoint string, raw json.RawMessage) (any, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", venue, endpoint, err)
	}
	return decoded, nil
}
