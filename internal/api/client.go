package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://aquago.vercel.app/api"
	DefaultTimeout = 50 * time.Second
)

// TokenSource yields the bearer token for outgoing requests; "" means anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration

	// BreakerFailures consecutive failures open the breaker for BreakerOpenFor.
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	breaker    *gobreaker.CircuitBreaker[*response]
	log        logrus.FieldLogger

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

type response struct {
	status int
	body   []byte
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func NewClient(cfg Config, tokens TokenSource, log logrus.FieldLogger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openFor := cfg.BreakerOpenFor
	if openFor == 0 {
		openFor = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		log:     log.WithField("component", "api"),
	}
	c.breaker = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// 4xx replies are the backend working as intended
		IsSuccessful: func(err error) bool {
			var apiErr *Error
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
	return c
}

// OnUnauthorized registers the hook run whenever the backend answers 401.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var (
		zero   T
		reader io.Reader
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, method, path, "application/json", reader)
	if err != nil {
		return zero, err
	}

	var env envelope[T]
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return zero, nil
	}
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return env.Data, nil
}

// callOne is call for endpoints whose data must be present.
func callOne[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	v, err := call[*T](ctx, c, method, path, body)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: empty data for %s %s", ErrDecode, method, path)
	}
	return v, nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.log.WithError(err).Warn("token lookup failed, sending anonymous request")
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.breaker.Execute(func() (*response, error) {
		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
		}
		r := &response{status: httpResp.StatusCode, body: data}
		if r.status < 200 || r.status > 299 {
			return r, &Error{StatusCode: r.status, Message: errorMessage(r)}
		}
		return r, nil
	})

	fields := logrus.Fields{
		"method":      method,
		"path":        path,
		"duration_ms": time.Since(started).Milliseconds(),
	}
	if resp != nil {
		fields["status"] = resp.status
	}

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		c.log.WithFields(fields).WithError(err).Warn("api request failed")
		if IsUnauthorized(err) {
			c.unauthorized(ctx)
		}
		return nil, err
	}

	c.log.WithFields(fields).Debug("api request")
	return resp, nil
}

func (c *Client) unauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

func errorMessage(r *response) string {
	if msg := gjson.GetBytes(r.body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return http.StatusText(r.status)
}
