// Package api is the HTTP client for the remote storefront API. It holds no
// state of its own: every call is a single request/response, validated
// against an explicit schema on the way out and on the way back.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/config"
)

type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	log      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig wires the production transport: otelhttp spans inside a circuit breaker.
func NewFromConfig(cfg config.APIConfig, log *zap.Logger) *Client {
	transport := newBreakerTransport(
		otelhttp.NewTransport(http.DefaultTransport),
		cfg.Breaker.MaxFailures,
		cfg.Breaker.OpenTimeout,
		log,
	)
	return New(cfg.BaseURL,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout, Transport: transport}),
		WithLogger(log),
	)
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends in as JSON (when non-nil) and decodes the answer into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		if err := c.check(in); err != nil {
			return fmt.Errorf("%s %s request: %w", method, path, err)
		}
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token, out)
}

func (c *Client) send(req *http.Request, token string, out any) error {
	op := req.Method + " " + req.URL.Path
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api call failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s response: %w: %v", op, ErrInvalidPayload, err)
	}
	if err := c.check(out); err != nil {
		return fmt.Errorf("%s response: %w", op, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(data))
		if body.Message == "" || strings.HasPrefix(body.Message, "<") {
			body.Message = ""
		}
	}
	return &Error{Status: resp.StatusCode, Message: body.Message}
}

// check validates structs and every struct element of a slice.
func (c *Client) check(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			if err := c.check(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	case reflect.Struct:
		if err := c.validate.Struct(rv.Interface()); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return fmt.Errorf("%w: %s", ErrInvalidPayload, verrs.Error())
			}
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	return nil
}
