package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient is the client used for the storefront API. Requests are not
// retried; the timeout is the only client-side limit.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// StorefrontAPI talks to the remote REST backend. Every call needs a bearer
// token; without one it fails with ErrUnauthenticated before any I/O.
type StorefrontAPI struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

func NewStorefrontAPI(baseURL string, client *http.Client, tokens TokenSource, logger *slog.Logger) *StorefrontAPI {
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StorefrontAPI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		tokens:  tokens,
		logger:  logger,
	}
}

// WithTokens returns a copy of the client bound to another token source,
// sharing the underlying http.Client.
func (a *StorefrontAPI) WithTokens(tokens TokenSource) *StorefrontAPI {
	clone := *a
	clone.tokens = tokens
	return &clone
}

// doRequest sends body as JSON and decodes the envelope's data into out. It
// returns the server's message on success.
func (a *StorefrontAPI) doRequest(ctx context.Context, op, method, path string, body, out any) (string, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if token == "" {
		return "", ErrUnauthenticated
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	fullURL := a.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("StorefrontAPI.doRequest: request failed", "op", op, "method", method, "url", fullURL, "err", err)
		return "", &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var env envelope
	decodeErr := error(nil)
	if len(bytes.TrimSpace(respBody)) > 0 {
		decodeErr = json.Unmarshal(respBody, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		a.logger.Info("StorefrontAPI.doRequest: server rejected request", "op", op, "status", resp.StatusCode, "message", msg)
		return "", &ServerRejectedError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return "", &ServerRejectedError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response from server"}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &ServerRejectedError{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response data: %v", err)}
		}
	}

	return env.Message, nil
}

func isUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
