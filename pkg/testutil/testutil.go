// Package testutil provides testing utilities for the cybersentinel application
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// SamplePayload is a complete backend verdict with every section present.
const SamplePayload = `{
  "basic_info": {"url": "https://example.com", "protocol": "https", "domain": "example.com",
    "ip_address": "93.184.216.34", "country": "United States", "isp": "Edgecast"},
  "domain_info": {"domain": "example.com", "registrar": "RESERVED-IANA",
    "creation_date": "1995-08-14", "expiration_date": "2026-08-13",
    "domain_age_years": 30.2, "whois_privacy": false},
  "security_info": {"ssl": "Valid", "https": true, "issuer": "DigiCert Inc",
    "expiry": "Valid for 120 days", "hsts": true,
    "headers": ["Strict-Transport-Security", "X-Content-Type-Options"]},
  "ml_analysis": {"risk_level": "Low", "confidence": 0.93, "prediction": "Benign"},
  "reputation": {"label": "Trusted", "score": 85, "confidence": 0.9,
    "risk_factors": ["Domain age: 30.2 years (established)", "HTTPS enabled with valid SSL"]},
  "threat_intelligence": {
    "safe_browsing": {"status": "Safe"},
    "virus_total": {"status": "Checked", "malicious_count": 0, "suspicious_count": 0,
      "harmless_count": 70, "total_engines": 94},
    "final_threat_level": "Low"},
  "technical_info": {"server": "ECS", "https": true, "tls_version": "TLSv1.3",
    "cdn": "Edgecast", "hosting": "Edgecast", "ip_address": "93.184.216.34"}
}`

// RecordedRequest is one request received by a FakeBackend
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// FakeBackend is an httptest server standing in for the analysis backend
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	delay    time.Duration
	gate     chan struct{}
	requests []RecordedRequest
}

// NewFakeBackend starts a backend answering every request with status and body.
func NewFakeBackend(t *testing.T, status int, body string) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{status: status, body: body}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fb.mu.Lock()
	fb.requests = append(fb.requests, RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	status, respBody, delay, gate := fb.status, fb.body, fb.delay, fb.gate
	fb.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

// SetResponse changes the status and body returned from now on
func (fb *FakeBackend) SetResponse(status int, body string) {
	fb.mu.Lock()
	fb.status = status
	fb.body = body
	fb.mu.Unlock()
}

// SetDelay makes every response wait d before being written
func (fb *FakeBackend) SetDelay(d time.Duration) {
	fb.mu.Lock()
	fb.delay = d
	fb.mu.Unlock()
}

// Hold blocks responses until the returned release func is called
func (fb *FakeBackend) Hold() (release func()) {
	gate := make(chan struct{})
	fb.mu.Lock()
	fb.gate = gate
	fb.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			fb.mu.Lock()
			fb.gate = nil
			fb.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns a copy of everything received so far
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	out := make([]RecordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// RequestCount returns how many requests were received
func (fb *FakeBackend) RequestCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

// MustJSON marshals v or fails the test
func MustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal %T: %v", v, err)
	}
	return string(b)
}

// WithTimeout creates a context with timeout for tests
func WithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// Eventually polls cond until it returns true or timeout elapses
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
