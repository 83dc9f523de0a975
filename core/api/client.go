package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"quiz-manager/core/domain"
	"quiz-manager/core/tokens"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client talks to the quiz backend REST API.
//
// Authenticated requests carry the stored bearer token. A 401 response
// triggers exactly one token refresh and one retry of the original request;
// a failed refresh clears both tokens and surfaces domain.ErrAuth.
type Client struct {
	cfg     Config
	http    *http.Client
	tokens  tokens.Store
	logger  *zap.Logger
	refresh singleflight.Group
}

// NewClient creates a client. A nil store keeps tokens in memory.
func NewClient(cfg Config, store tokens.Store, logger *zap.Logger) *Client {
	if store == nil {
		store = tokens.NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg.withDefaults(),
		http:   &http.Client{Timeout: cfg.Timeout()},
		tokens: store,
		logger: logger,
	}
}

// Tokens returns the token store backing the client.
func (c *Client) Tokens() tokens.Store {
	return c.tokens
}

// request describes a single API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	authed bool
}

// do executes req and decodes a successful response into out.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", req.method, req.path, err)
		}
	}

	if req.authed {
		if err := c.EnsureSession(ctx); err != nil {
			return err
		}
	}

	status, body, err := c.send(ctx, req, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && req.authed {
		c.logger.Debug("Access token rejected, refreshing", zap.String("path", req.path))
		if err := c.Refresh(ctx); err != nil {
			return err
		}
		if status, body, err = c.send(ctx, req, payload); err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return classify(req.method, req.path, status, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// send performs one HTTP round trip and reads the whole body.
func (c *Client) send(ctx context.Context, req request, payload []byte) (int, []byte, error) {
	target, err := c.url(req.path, req.query)
	if err != nil {
		return 0, nil, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.authed {
		pair, err := c.tokens.Get(ctx)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read tokens: %w", err)
		}
		if pair.Access != "" {
			httpReq.Header.Set("Authorization", "Bearer "+pair.Access)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading %s %s: %v", domain.ErrNetwork, req.method, req.path, err)
	}
	return resp.StatusCode, data, nil
}

func (c *Client) url(path string, query url.Values) (string, error) {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	u, err := url.Parse(base + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// listEnvelope is the paginated list shape.
type listEnvelope[T any] struct {
	Results []T `json:"results"`
}

// decodeList accepts a bare JSON array or a paginated {"results": [...]} object.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return nil, errors.New("unexpected list response shape")
	}
	return env.Results, nil
}
