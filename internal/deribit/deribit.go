// Package deribit fetches options and futures data from the Deribit JSON-RPC
// API, managing the OAuth token lifecycle.
package deribit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cryptomd/internal/exchange/adapt"
	"cryptomd/internal/httpx"
)

const (
	baseURL = "https://www.deribit.com/api/v2"
	source  = "deribit"

	// tokens are refreshed this long before they expire
	refreshMargin = 60 * time.Second
)

// Client speaks Deribit JSON-RPC over HTTP
type Client struct {
	http         *httpx.Client
	url          string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// New creates a Deribit client. Credentials may be empty for public-only use
// without authentication.
func New(opts httpx.Options, clientID, clientSecret string) *Client {
	return &Client{http: httpx.New(opts), url: baseURL, clientID: clientID, clientSecret: clientSecret}
}

// token returns a valid access token, authenticating or refreshing as needed
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.expiresAt.Add(-refreshMargin)) {
		return c.accessToken, nil
	}

	raw, err := c.http.GetJSON(ctx, source, "auth", c.url+"/public/auth", map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return "", err
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return "", fmt.Errorf("deribit auth: malformed response")
	}
	result, ok := adapt.AsMap(m["result"])
	if !ok {
		return "", fmt.Errorf("deribit auth: missing result")
	}
	token, ok := adapt.String(result["access_token"])
	if !ok {
		return "", fmt.Errorf("deribit auth: missing access_token")
	}
	expiresIn, _ := adapt.Int64(result["expires_in"])

	c.accessToken = token
	c.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return token, nil
}

// call performs one JSON-RPC request
func (c *Client) call(ctx context.Context, method string, params map[string]any) (any, error) {
	headers := map[string]string{}
	if c.clientID != "" {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		headers["Authorization"] = "Bearer " + token
	}

	raw, err := c.http.PostJSON(ctx, source, method, c.url+"/", map[string]any{
		"jsonrpc": "2.0",
		"id":      time.Now().UnixMilli(),
		"method":  method,
		"params":  params,
	}, headers)
	if err != nil {
		return nil, err
	}
	m, ok := adapt.AsMap(raw)
	if !ok {
		return nil, fmt.Errorf("deribit %s: malformed response", method)
	}
	if rpcErr, ok := adapt.AsMap(m["error"]); ok {
		msg, _ := adapt.String(rpcErr["message"])
		code, _ := adapt.Int64(rpcErr["code"])
		return nil, fmt.Errorf("deribit %s: rpc error %d: %s", method, code, msg)
	}
	return m["result"], nil
}

// Ticker fetches the ticker for one instrument
func (c *Client) Ticker(ctx context.Context, instrument string) (any, error) {
	return c.call(ctx, "public/ticker", map[string]any{"instrument_name": instrument})
}

// OrderBook fetches the order book for one instrument
func (c *Client) OrderBook(ctx context.Context, instrument string, depth int) (any, error) {
	params := map[string]any{"instrument_name": instrument}
	if depth > 0 {
		params["depth"] = depth
	}
	return c.call(ctx, "public/get_order_book", params)
}

// Instrument fetches one instrument's definition
func (c *Client) Instrument(ctx context.Context, instrument string) (any, error) {
	return c.call(ctx, "public/get_instrument", map[string]any{"instrument_name": instrument})
}

// Instruments fetches all instruments for a currency
func (c *Client) Instruments(ctx context.Context, currency, kind string) (any, error) {
	params := map[string]any{"currency": currency}
	if kind != "" {
		params["kind"] = kind
	}
	return c.call(ctx, "public/get_instruments", params)
}

// BookSummary fetches the book summary for all instruments of a currency
func (c *Client) BookSummary(ctx context.Context, currency, kind string) (any, error) {
	params := map[string]any{"currency": currency}
	if kind != "" {
		params["kind"] = kind
	}
	return c.call(ctx, "public/get_book_summary_by_currency", params)
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.Close()
}
