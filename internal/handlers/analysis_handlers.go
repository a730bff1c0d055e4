package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cybersentinel/internal/services"
	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	analysisService services.AnalysisServiceMethods
	logger          *logger.Logger
}

func NewAnalysisHandler(analysisService services.AnalysisServiceMethods) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, logger: logger.NewLogger(logrus.InfoLevel)}
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), req.URL)
	if errors.Is(err, apperrors.ErrEmptyURL) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.logger.WithTarget(req.URL).WithError(err).Error("Analysis failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: apperrors.FailureMessage})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalysisHandler) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.analysisService.ListHistory(limit)
	if errors.Is(err, apperrors.ErrHistoryDisabled) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to list history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list history"})
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Records: records, Count: len(records)})
}

func (h *AnalysisHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")

	record, err := h.analysisService.GetHistory(id)
	switch {
	case errors.Is(err, apperrors.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrRecordNotFound) || (err == nil && record == nil):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Analysis not found"})
	case err != nil:
		h.logger.WithFields(logger.Fields{"uuid": id, "error": err}).Error("Failed to get history record")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get analysis"})
	default:
		c.JSON(http.StatusOK, record)
	}
}
