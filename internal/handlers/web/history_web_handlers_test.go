package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cybersentinel/internal/models"
	apperrors "cybersentinel/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) ListHistory(limit int) ([]models.AnalysisRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalysisRecord), args.Error(1)
}

func (m *MockAnalysisService) GetHistory(id string) (*models.AnalysisRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisRecord), args.Error(1)
}

func (m *MockAnalysisService) HistoryEnabled() bool {
	return m.Called().Bool(0)
}

func TestHistoryPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedText   string
	}{
		{
			name: "Records",
			setupMock: func(m *MockAnalysisService) {
				m.On("ListHistory", historyPageSize).Return([]models.AnalysisRecord{
					{UUID: "a", URL: "example.com", TrustScore: 85, ReputationLabel: "Trusted"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedText:   "example.com",
		},
		{
			name: "Disabled",
			setupMock: func(m *MockAnalysisService) {
				m.On("ListHistory", historyPageSize).Return(nil, apperrors.ErrHistoryDisabled)
			},
			expectedStatus: http.StatusOK,
			expectedText:   "History is disabled",
		},
		{
			name: "Service Error",
			setupMock: func(m *MockAnalysisService) {
				m.On("ListHistory", historyPageSize).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedText:   "Failed to load history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAnalysisService)
			tt.setupMock(mockService)

			router := gin.New()
			router.GET("/history", NewHistoryWebHandler(mockService).HistoryPage)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedText)
			mockService.AssertExpectations(t)
		})
	}
}
