// Package client talks to the budget HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     zerolog.Logger
	token      string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

func (c *Client) LoggerComponent() string {
	return "Budget.Client"
}

func New(apiURL string, opts ...Option) *Client {
	c := &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: http.DefaultClient,
		logger:     log.Logger,
	}

	for _, o := range opts {
		o(c)
	}

	c.logger = c.logger.With().Str("component", c.LoggerComponent()).Logger()

	return c
}

// Token returns the bearer token in use, set by Login
func (c *Client) Token() string {
	return c.token
}

// RemoteError is a non 2xx answer of the API
type RemoteError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *RemoteError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Param+": "+f.Msg)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, strings.Join(parts, "; "))
}

func (c *Client) genericCall(ctx context.Context, method, endpoint string, in interface{}, out interface{}) error {
	l := c.logger.With().Str("http_method", method).Str("endpoint", endpoint).Logger()
	ctx = l.WithContext(ctx)

	res, err := c.request(ctx, method, endpoint, in)
	if err != nil {
		l.Error().Err(err).Msg("Request failed")
		return fmt.Errorf("request: %w", err)
	}

	resBody, err := decodeResponse(res, out)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			l.Debug().
				Int("http_status", res.StatusCode).
				Str("http_body", resBody).
				Msg("API responded with error")
			return remote
		}
		return fmt.Errorf("body read: %w", err)
	}

	return nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, bodyParams interface{}) (*http.Response, error) {
	fullURL := c.apiURL + endpoint
	l := zerolog.Ctx(ctx)

	var body *bytes.Reader
	if bodyParams != nil {
		rawJSON, err := json.Marshal(bodyParams)
		if err != nil {
			return nil, fmt.Errorf("json encode: %w", err)
		}
		body = bytes.NewReader(rawJSON)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}

	l.Debug().Str("url", fullURL).Msg("Doing request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	return res, nil
}
