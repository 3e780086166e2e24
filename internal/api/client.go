package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenSource resolves the bearer token for outgoing requests. When
// forceRefresh is true the implementation must not serve a cached
// token; the client sets it after a 401 to retry with fresh
// credentials.
type TokenSource interface {
	Token(ctx context.Context, forceRefresh bool) (string, error)
}

// Client executes Requests against a GiftWish server.
//
// When a request comes back 401 the client forces one token refresh and
// resends the request exactly once. If the retried request is still
// unauthorized (or no token source is configured) the OnUnauthorized
// hook fires so the owner can tear down the session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Tokens supplies bearer tokens; nil means calls go out
	// unauthenticated (pre-login only).
	Tokens TokenSource

	// OnUnauthorized is invoked when a call's final status is 401.
	// Optional.
	OnUnauthorized func()

	// Log receives request/retry diagnostics. Optional.
	Log logrus.FieldLogger
}

// NewClient creates a Client from a server base URL (e.g.
// http://localhost:8787) and a token source.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		Tokens:  tokens,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Do executes req and decodes the JSON response body into out. A nil
// out discards the body. Non-2xx responses become *APIError, undecodable
// success bodies become *DecodeError, and transport failures are
// returned wrapped.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	if req.encodeErr != nil {
		return fmt.Errorf("encoding request body: %w", req.encodeErr)
	}

	status, data, err := c.send(ctx, req, false)
	if err != nil {
		return err
	}

	// One transparent retry with a force-refreshed token. Never more
	// than one, no matter how often 401 recurs.
	if status == http.StatusUnauthorized && c.Tokens != nil {
		if c.Log != nil {
			c.Log.WithField("path", req.Path).Debug("got 401, retrying with refreshed token")
		}
		status, data, err = c.send(ctx, req, true)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		apiErr := decodeAPIError(status, data)
		if status == http.StatusUnauthorized {
			if c.Log != nil {
				c.Log.WithField("path", req.Path).Warn("request unauthorized after retry")
			}
			if c.OnUnauthorized != nil {
				c.OnUnauthorized()
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}

// send performs a single HTTP exchange and returns the status and the
// full response body.
func (c *Client) send(ctx context.Context, req Request, forceRefresh bool) (int, []byte, error) {
	u := c.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx, forceRefresh)
		if err != nil {
			return 0, nil, fmt.Errorf("resolving token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	// Caller headers merge last so they can override the defaults.
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// decodeAPIError maps a non-2xx body to an APIError. Bodies that don't
// match the error envelope fall back to a synthetic code with the raw
// body as the message.
func decodeAPIError(status int, data []byte) *APIError {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		ReqID string `json:"reqId"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error.Code != "" {
		return &APIError{
			Status:  status,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
			ReqID:   envelope.ReqID,
		}
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = "Unknown error"
	}
	return &APIError{
		Status:  status,
		Code:    fmt.Sprintf("HTTP_%d", status),
		Message: msg,
	}
}
