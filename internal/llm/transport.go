package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/lexcore/internal/util"
)

// maxResponseBytes caps how much of a provider response is read
const maxResponseBytes = 1 << 20

// APIError is a non-2xx response from a provider endpoint
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// newHTTPClient builds a client with the configured proxy. A zero configured
// timeout falls back to the provider default.
func newHTTPClient(config Config, fallback time.Duration) *http.Client {
	return &http.Client{
		Timeout: config.requestTimeout(fallback),
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}
}

// jsonEndpoint is one provider HTTP API speaking JSON in both directions
type jsonEndpoint struct {
	provider string
	client   *http.Client
	header   http.Header
	// errorMessage extracts the provider's message from an error body ("" if none)
	errorMessage func(body []byte) string
}

// do sends in (GET when nil) to url and decodes the response into out (skipped when nil)
func (e *jsonEndpoint) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range e.header {
		req.Header[key] = values
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := string(respBody)
		if e.errorMessage != nil {
			if m := e.errorMessage(respBody); m != "" {
				message = m
			}
		}
		return &APIError{Provider: e.provider, StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
