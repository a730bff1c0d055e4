package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://api.example.com", "https://api.example.com"},
		{"https://api.example.com/", "https://api.example.com"},
		{"https://api.example.com///", "https://api.example.com"},
		{"  http://127.0.0.1:8000/ ", "http://127.0.0.1:8000"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimBaseURL(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeForFilesystem(t *testing.T) {
	assert.Equal(t, "example.com_login", sanitizeForFilesystem("https://example.com/login"))
	assert.Equal(t, "a_b_c", sanitizeForFilesystem("a:b?c"))
	assert.Equal(t, "unknown", sanitizeForFilesystem("///"))
	assert.Len(t, sanitizeForFilesystem(strings.Repeat("x", 150)), 100)
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	path, err := WriteReport(dir, "example.com", ts, "json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis_example.com_2026-01-02_03-04-05.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestNewViperConfigWithOptions_NoFileFallsBack(t *testing.T) {
	v, err := NewViperConfigWithOptions(ConfigOptions{
		ConfigPath:  t.TempDir(),
		ConfigName:  "does-not-exist",
		ConfigType:  "yaml",
		DefaultsMap: map[string]interface{}{"api_url": "http://default"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://default", v.GetString("api_url"))

	_, err = NewViperConfigWithOptions(ConfigOptions{
		ConfigPath: t.TempDir(),
		ConfigName: "does-not-exist",
		ConfigType: "yaml",
		Required:   true,
	})
	assert.Error(t, err)
}
