package history

import (
	"context"
	"strings"
	"testing"

	"cybersentinel/internal/models"
	apperrors "cybersentinel/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService serves a fixed set of records.
type stubService struct {
	records []models.AnalysisRecord
	err     error
}

func (s *stubService) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	return nil, apperrors.ErrRequestFailed
}

func (s *stubService) ListHistory(limit int) ([]models.AnalysisRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.records) {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *stubService) GetHistory(id string) (*models.AnalysisRecord, error) {
	for i := range s.records {
		if s.records[i].UUID == id {
			return &s.records[i], nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

func (s *stubService) HistoryEnabled() bool { return s.err == nil }

var records = []models.AnalysisRecord{
	{UUID: "11111111-1111-1111-1111-111111111111", URL: "example.com", TrustScore: 85, ReputationLabel: "Trusted", ThreatLevel: "Low", CreatedAt: 1792224000},
	{UUID: "22222222-2222-2222-2222-222222222222", URL: "evil.example", TrustScore: 8, ReputationLabel: "Malicious", ThreatLevel: "High", CreatedAt: 1792220400},
}

func TestRun_Table(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Run(&b, &stubService{records: records}, &Options{Limit: 20, Output: "table"}))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "Malicious")
}

func TestRun_SingleRecordJSON(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Run(&b, &stubService{records: records}, &Options{ID: records[1].UUID, Output: "json"}))
	assert.Contains(t, b.String(), `"url": "evil.example"`)

	err := Run(&b, &stubService{records: records}, &Options{ID: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
}

func TestRun_Disabled(t *testing.T) {
	var b strings.Builder
	err := Run(&b, &stubService{err: apperrors.ErrHistoryDisabled}, &Options{Limit: 5})
	assert.ErrorIs(t, err, apperrors.ErrHistoryDisabled)
}

func TestRun_BadFormat(t *testing.T) {
	var b strings.Builder
	assert.Error(t, Run(&b, &stubService{records: records}, &Options{Limit: 5, Output: "xml"}))
}
