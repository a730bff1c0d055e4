package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cybersentinel/internal/models"
	"cybersentinel/internal/utils"
	apperrors "cybersentinel/pkg/errors"
)

// AnalyzePath is the backend endpoint every analysis is posted to.
const AnalyzePath = "/analyze-url"

// maxBodyBytes bounds how much of a backend response is read.
const maxBodyBytes = 8 << 20

// Analyzer is implemented by anything that can turn a URL into a backend verdict.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*models.AnalysisPayload, json.RawMessage, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New returns a client for the backend at baseURL. Trailing slashes are dropped.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: utils.TrimBaseURL(baseURL),
		// no client-side timeout: one best-effort call bounded only by ctx
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// Analyze posts url to the backend and decodes the verdict. Any non-2xx status,
// transport failure or body that is not a JSON object is reported as
// ErrRequestFailed. A malformed section only drops that section.
func (c *Client) Analyze(ctx context.Context, url string) (*models.AnalysisPayload, json.RawMessage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil, apperrors.ErrEmptyURL
	}

	body, err := json.Marshal(analyzeRequest{URL: url})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encode request: %v", apperrors.ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AnalyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: build request: %v", apperrors.ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the error body is deliberately not parsed
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %v", apperrors.ErrRequestFailed, err)
	}

	payload, err := models.DecodePayload(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decode body: %v", apperrors.ErrRequestFailed, err)
	}

	return payload, json.RawMessage(raw), nil
}

// StatusError represents a non-2xx backend response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", apperrors.ErrRequestFailed, e.Status)
}

func (e *StatusError) Unwrap() error {
	return apperrors.ErrRequestFailed
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
