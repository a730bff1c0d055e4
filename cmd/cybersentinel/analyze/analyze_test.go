package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cybersentinel/internal/client"
	"cybersentinel/internal/models"
	"cybersentinel/internal/services"
	"cybersentinel/internal/view"
	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/logger"
	"cybersentinel/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var fixedNow = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

func newService(backend *testutil.FakeBackend) services.AnalysisServiceMethods {
	return services.NewAnalysisService(client.New(backend.URL),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithLogger(logger.NewDiscardLogger()))
}

func sampleResult(t *testing.T) *models.AnalysisResult {
	t.Helper()
	var payload models.AnalysisPayload
	require.NoError(t, json.Unmarshal([]byte(testutil.SamplePayload), &payload))
	return models.NewAnalysisResult("example.com", &payload, json.RawMessage(testutil.SamplePayload), fixedNow)
}

func TestRun_TextOutput(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)

	out, err := Run(context.Background(), newService(backend), &Config{URL: "example.com", Output: "text", Tab: "security"})
	require.NoError(t, err)

	assert.Contains(t, out, "Analyzed  example.com")
	assert.Contains(t, out, "Trust Score: 85/100 (safe)")
	assert.Contains(t, out, "[Security]")
	assert.Contains(t, out, "0 / 94 flagged")
}

func TestRun_Query(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)

	out, err := Run(context.Background(), newService(backend), &Config{URL: "example.com", Tab: "Overview", Query: "technical_info.tls_version"})
	require.NoError(t, err)
	assert.Equal(t, "TLSv1.3\n", out)

	_, err = Run(context.Background(), newService(backend), &Config{URL: "example.com", Tab: "Overview", Query: "nope.missing"})
	assert.Error(t, err)
}

func TestRun_SaveDir(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	dir := t.TempDir()

	out, err := Run(context.Background(), newService(backend), &Config{URL: "https://example.com/login", Output: "json", Tab: "Overview", SaveDir: dir})
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(dir, "analysis_example.com_login_2026-10-17_08-00-00.json"))
	require.NoError(t, err)
	assert.Equal(t, out, string(saved))
}

func TestRun_Errors(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusInternalServerError, `{}`)

	_, err := Run(context.Background(), newService(backend), &Config{URL: "example.com", Tab: "Overview"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.True(t, strings.HasPrefix(err.Error(), apperrors.FailureMessage))

	_, err = Run(context.Background(), newService(backend), &Config{URL: " ", Tab: "Overview"})
	assert.ErrorIs(t, err, apperrors.ErrEmptyURL)

	_, err = Run(context.Background(), newService(backend), &Config{URL: "example.com", Tab: "Settings"})
	assert.ErrorContains(t, err, "unknown tab")
	// only the first call reached the backend
	assert.Equal(t, 1, backend.RequestCount())
}

func TestEncode_JSONAndYAMLAgree(t *testing.T) {
	result := sampleResult(t)

	jsonOut, err := Encode(result, "json", view.TabOverview)
	require.NoError(t, err)
	yamlOut, err := Encode(result, "yaml", view.TabOverview)
	require.NoError(t, err)

	var fromJSON, fromYAML map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonOut, &fromJSON))
	require.NoError(t, yaml.Unmarshal(yamlOut, &fromYAML))

	assert.Equal(t, "Analyzed", fromYAML["status"])
	assert.Equal(t, 85, fromYAML["trustScore"])
	assert.Equal(t, 85.0, fromJSON["trustScore"])
	payload := fromYAML["payload"].(map[string]interface{})
	assert.Contains(t, payload, "threat_intelligence")

	_, err = Encode(result, "xml", view.TabOverview)
	assert.Error(t, err)
}

func TestWriteText_Placeholder(t *testing.T) {
	result := models.NewAnalysisResult("example.com", &models.AnalysisPayload{
		BasicInfo: &models.BasicInfo{Domain: "example.com"},
	}, nil, fixedNow)

	var b strings.Builder
	WriteText(&b, result, view.TabReputation)
	assert.Contains(t, b.String(), view.PlaceholderReputation)
	// score falls back to the neutral default
	assert.Contains(t, b.String(), "Trust Score: 50/100 (unsafe)")
}
