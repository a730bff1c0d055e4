package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cybersentinel/internal/client"
	"cybersentinel/internal/dao"
	"cybersentinel/internal/metrics"
	"cybersentinel/internal/models"
	"cybersentinel/internal/notification"
	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AnalysisServiceMethods interface {
	Analyze(ctx context.Context, url string) (*models.AnalysisResult, error)
	ListHistory(limit int) ([]models.AnalysisRecord, error)
	GetHistory(id string) (*models.AnalysisRecord, error)
	HistoryEnabled() bool
}

type Option func(*analysisService)

// WithHistory persists every successful analysis through d.
func WithHistory(d dao.AnalysisDAO) Option {
	return func(s *analysisService) { s.history = d }
}

// WithNotifier sends an alert for malicious or high-threat verdicts.
func WithNotifier(n notification.Sender) Option {
	return func(s *analysisService) { s.notifier = n }
}

// Auditor keeps a durable trail of analysis outcomes.
type Auditor interface {
	LogAnalysisSuccess(url string, fields logger.Fields)
	LogAnalysisFailure(url string, err error)
}

func WithAuditor(a Auditor) Option {
	return func(s *analysisService) { s.auditor = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *analysisService) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *analysisService) { s.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *analysisService) { s.logger = l }
}

type analysisService struct {
	analyzer client.Analyzer
	history  dao.AnalysisDAO
	notifier notification.Sender
	auditor  Auditor
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *logger.Logger
}

func NewAnalysisService(analyzer client.Analyzer, opts ...Option) AnalysisServiceMethods {
	s := &analysisService{
		analyzer: analyzer,
		now:      time.Now,
		logger:   logger.NewLogger(logrus.InfoLevel),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs one backend analysis and normalizes the verdict. History and
// alert failures are logged and never fail the analysis.
func (s *analysisService) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		s.metrics.ObserveAnalysis(metrics.OutcomeRejected, 0)
		return nil, apperrors.ErrEmptyURL
	}

	var (
		payload *models.AnalysisPayload
		raw     json.RawMessage
	)
	start := time.Now()
	err := s.logger.LogAnalysis(url, func() error {
		var err error
		payload, raw, err = s.analyzer.Analyze(ctx, url)
		return err
	})
	if err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeFailure, time.Since(start))
		if s.auditor != nil {
			s.auditor.LogAnalysisFailure(url, err)
		}
		return nil, err
	}
	s.metrics.ObserveAnalysis(metrics.OutcomeSuccess, time.Since(start))
	if payload != nil && len(payload.Dropped) > 0 {
		s.logger.WithTarget(url).WithField("sections", payload.Dropped).Warn("Dropped undecodable sections")
	}

	result := models.NewAnalysisResult(url, payload, raw, s.now())
	s.metrics.ObserveVerdict(result.ReputationLabel())

	if s.auditor != nil {
		s.auditor.LogAnalysisSuccess(url, logger.Fields{
			"trust_score":  result.TrustScore,
			"reputation":   result.ReputationLabel(),
			"threat_level": result.ThreatLevel(),
		})
	}
	s.record(result)
	s.alert(result)
	return result, nil
}

func (s *analysisService) record(result *models.AnalysisResult) {
	if s.history == nil {
		return
	}
	rec := NewRecord(result)
	if err := s.history.SaveRecord(rec); err != nil {
		s.logger.WithTarget(result.URL).WithError(err).Error("Failed to save analysis record")
		return
	}
	s.logger.WithFields(logger.Fields{"uuid": rec.UUID, "target_url": rec.URL}).Debug("Analysis record saved")
}

func (s *analysisService) alert(result *models.AnalysisResult) {
	if s.notifier == nil || !ShouldAlert(result) {
		return
	}
	if err := s.notifier.Send(AlertMessage(result)); err != nil {
		s.metrics.ObserveAlert("failed")
		s.logger.WithTarget(result.URL).WithError(err).Warn("Failed to send discord alert")
		return
	}
	s.metrics.ObserveAlert("sent")
}

func (s *analysisService) ListHistory(limit int) ([]models.AnalysisRecord, error) {
	if s.history == nil {
		return nil, apperrors.ErrHistoryDisabled
	}
	return s.history.ListRecords(limit)
}

func (s *analysisService) GetHistory(id string) (*models.AnalysisRecord, error) {
	if s.history == nil {
		return nil, apperrors.ErrHistoryDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrRecordNotFound
	}
	return s.history.GetRecordByUUID(id)
}

func (s *analysisService) HistoryEnabled() bool {
	return s.history != nil
}

// NewRecord flattens a result into its history row.
func NewRecord(result *models.AnalysisResult) *models.AnalysisRecord {
	rec := &models.AnalysisRecord{
		UUID:            uuid.New().String(),
		URL:             result.URL,
		TrustScore:      result.TrustScore,
		ReputationLabel: result.ReputationLabel(),
		ThreatLevel:     result.ThreatLevel(),
		RawJSON:         string(result.Raw),
		CreatedAt:       result.AnalyzedAt.Unix(),
	}
	if result.BasicInfo != nil {
		rec.Domain = result.BasicInfo.Domain
	}
	if rec.Domain == "" && result.DomainInfo != nil {
		rec.Domain = result.DomainInfo.Domain
	}
	if result.MLAnalysis != nil {
		rec.RiskLevel = result.MLAnalysis.RiskLevel
	}
	return rec
}

// ShouldAlert reports whether a verdict is bad enough to notify about.
func ShouldAlert(result *models.AnalysisResult) bool {
	return strings.EqualFold(result.ReputationLabel(), "Malicious") ||
		strings.EqualFold(result.ThreatLevel(), "High")
}

func AlertMessage(result *models.AnalysisResult) notification.Message {
	label := result.ReputationLabel()
	if label == "" {
		label = "Unknown"
	}
	threat := result.ThreatLevel()
	if threat == "" {
		threat = "Unknown"
	}

	severity := "medium"
	if strings.EqualFold(label, "Malicious") {
		severity = "high"
	}
	if strings.EqualFold(label, "Malicious") && strings.EqualFold(threat, "High") {
		severity = "critical"
	}

	return notification.Message{
		Title:       fmt.Sprintf("Suspicious site analyzed: %s", result.URL),
		Description: fmt.Sprintf("Reputation %s, threat level %s", label, threat),
		Severity:    severity,
		Fields: map[string]string{
			"Trust Score":  fmt.Sprintf("%d/100", result.TrustScore),
			"Reputation":   label,
			"Threat Level": threat,
		},
		Timestamp: result.AnalyzedAt,
	}
}
