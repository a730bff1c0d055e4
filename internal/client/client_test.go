package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_PostsURLAndDecodes(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	c := New(backend.URL + "/")

	payload, raw, err := c.Analyze(context.Background(), "example.com")
	require.NoError(t, err)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/analyze-url", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.JSONEq(t, `{"url":"example.com"}`, string(reqs[0].Body))

	require.NotNil(t, payload.Reputation)
	require.NotNil(t, payload.Reputation.Score)
	assert.Equal(t, 85.0, *payload.Reputation.Score)
	assert.Equal(t, "Trusted", payload.Reputation.Label)
	require.NotNil(t, payload.DomainInfo.WhoisPrivacy)
	assert.False(t, *payload.DomainInfo.WhoisPrivacy)
	assert.JSONEq(t, testutil.SamplePayload, string(raw))
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, 500},
		{"bad request", http.StatusBadRequest, `{"detail":"URL cannot be empty"}`, 400},
		{"not found", http.StatusNotFound, ``, 404},
		{"malformed body", http.StatusOK, `{"basic_info":`, 0},
		{"array body", http.StatusOK, `[1,2,3]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t, tt.status, tt.body)
			c := New(backend.URL)

			payload, raw, err := c.Analyze(context.Background(), "example.com")
			require.Error(t, err)
			assert.Nil(t, payload)
			assert.Nil(t, raw)
			assert.True(t, errors.Is(err, apperrors.ErrRequestFailed))
			assert.Equal(t, tt.wantStatus, StatusCode(err))
		})
	}
}

func TestAnalyze_TransportFailure(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	url := backend.URL
	backend.Close()

	_, _, err := New(url).Analyze(context.Background(), "example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.Equal(t, 0, StatusCode(err))
}

func TestAnalyze_EmptyURLSkipsNetwork(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	c := New(backend.URL)

	for _, in := range []string{"", "   ", "\t\n"} {
		_, _, err := c.Analyze(context.Background(), in)
		assert.ErrorIs(t, err, apperrors.ErrEmptyURL)
	}
	assert.Equal(t, 0, backend.RequestCount())
}

func TestAnalyze_EmptyObjectIsSuccess(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, `{}`)

	payload, _, err := New(backend.URL).Analyze(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Nil(t, payload.BasicInfo)
	assert.Nil(t, payload.Reputation)
}

func TestAnalyze_MalformedSectionKeepsTheRest(t *testing.T) {
	bodies := map[string]string{
		"domain age":    `{"domain_info": {"domain_age_years": "Unknown"}, "reputation": {"label": "Trusted", "score": 85}}`,
		"ml confidence": `{"ml_analysis": {"confidence": "0.9"}, "reputation": {"label": "Trusted", "score": 85}}`,
		"score string":  `{"reputation": {"label": "Trusted", "score": "85"}}`,
		"bad section":   `{"technical_info": 42, "reputation": {"label": "Trusted", "score": 85}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t, http.StatusOK, body)

			payload, raw, err := New(backend.URL).Analyze(context.Background(), "example.com")
			require.NoError(t, err)
			require.NotNil(t, payload.Reputation)
			require.NotNil(t, payload.Reputation.Score)
			assert.Equal(t, 85.0, *payload.Reputation.Score)
			assert.JSONEq(t, body, string(raw))
		})
	}
}

func TestAnalyze_ContextCancelled(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	release := backend.Hold()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(backend.URL).Analyze(ctx, "example.com")
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
}

func TestNew_TrimsBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com", New("https://api.example.com///").BaseURL())
}
