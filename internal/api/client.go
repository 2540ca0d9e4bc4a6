package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopwave/storefront/internal/domain"
	"github.com/shopwave/storefront/pkg/circuitbreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const loginPath = "auth/login"

// Authenticator supplies bearer tokens and is told when the backend rejects one.
type Authenticator interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport. It is always wrapped by
	// the circuit breaker and otelhttp.
	Transport http.RoundTripper
	Breaker   circuitbreaker.Options
}

// Client talks to the storefront REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	auth    Authenticator
	log     *slog.Logger
}

func New(cfg Config, auth Authenticator, log *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "storefront-api"
	}
	transport = circuitbreaker.NewTransport(transport, cfg.Breaker, log)

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		auth: auth,
		log:  log.With("component", "api"),
	}, nil
}

// segment escapes one path segment. Dot segments are escaped too so an id can
// never climb out of its route.
func segment(v string) string {
	e := url.PathEscape(v)
	if e == "." || e == ".." {
		e = strings.ReplaceAll(e, ".", "%2E")
	}
	return e
}

// do sends one request. path is relative to the base URL and already escaped,
// e.g. "cart/items/"+segment(id).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("build path %q: %w", path, err)
	}
	endpoint := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.auth != nil && path != loginPath {
		token, err := c.auth.Token(ctx)
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, domain.ErrNotAuthenticated):
			// anonymous request, the backend decides
		default:
			return err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
		c.log.Info("session rejected by backend", slog.String("path", path))
		if c.auth != nil {
			if err := c.auth.Invalidate(ctx); err != nil {
				c.log.Warn("invalidate session failed", slog.Any("err", err))
			}
		}
		return domain.ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var body ErrorResponse
	if json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
