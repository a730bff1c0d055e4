package web

import (
	"errors"
	"net/http"

	"cybersentinel/internal/services"
	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/logger"
	"cybersentinel/templates"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const historyPageSize = 50

type HistoryWebHandler struct {
	analysisService services.AnalysisServiceMethods
	logger          *logger.Logger
}

func NewHistoryWebHandler(analysisService services.AnalysisServiceMethods) *HistoryWebHandler {
	return &HistoryWebHandler{
		analysisService: analysisService,
		logger:          logger.NewLogger(logrus.Level(logrus.InfoLevel)),
	}
}

func (h *HistoryWebHandler) HistoryPage(c *gin.Context) {
	records, err := h.analysisService.ListHistory(historyPageSize)
	h.logger.WithFields(logger.Fields{"record_count": len(records)}).Debug("Rendering HistoryPage")

	status := http.StatusOK
	page := templates.NewHistoryPage(records, true)
	switch {
	case errors.Is(err, apperrors.ErrHistoryDisabled):
		page.Enabled = false
	case err != nil:
		h.logger.WithError(err).Error("Failed to list history")
		page.Error = "Failed to load history"
		status = http.StatusInternalServerError
	}

	if err := render(c, status, templates.History(page)); err != nil {
		h.logger.WithError(err).Error("Failed to render history template")
	}
}
