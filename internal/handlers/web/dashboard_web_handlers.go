package web

import (
	"errors"
	"net/http"
	"time"

	"cybersentinel/internal/dashboard"
	apperrors "cybersentinel/pkg/errors"
	"cybersentinel/pkg/logger"
	"cybersentinel/templates"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgEmptyURL  = "Please enter a website URL to analyze."
	msgInFlight  = "An analysis is already in progress. Please wait for it to finish."
	msgThrottled = "Too many analysis requests. Please wait a moment and try again."
)

type DashboardWebHandler struct {
	sessions       *dashboard.Sessions
	sessionTTL     time.Duration
	historyEnabled bool
	logger         *logger.Logger
}

func NewDashboardWebHandler(sessions *dashboard.Sessions, sessionTTL time.Duration, historyEnabled bool) *DashboardWebHandler {
	return &DashboardWebHandler{
		sessions:       sessions,
		sessionTTL:     sessionTTL,
		historyEnabled: historyEnabled,
		logger:         logger.NewLogger(logrus.InfoLevel),
	}
}

func (h *DashboardWebHandler) page(ctrl *dashboard.Controller) templates.DashboardPage {
	return templates.NewDashboardPage(ctrl.Snapshot(), h.historyEnabled)
}

func (h *DashboardWebHandler) HomePage(c *gin.Context) {
	ctrl := sessionFor(c, h.sessions, h.sessionTTL)
	if err := render(c, http.StatusOK, templates.Home(h.page(ctrl))); err != nil {
		h.logger.WithError(err).Error("Failed to render home template")
	}
}

// Analyze handles the URL form. htmx callers get the dashboard fragment back,
// plain form posts are redirected to the home page.
func (h *DashboardWebHandler) Analyze(c *gin.Context) {
	ctrl := sessionFor(c, h.sessions, h.sessionTTL)
	url := c.PostForm("url")

	err := ctrl.Submit(c.Request.Context(), url)

	page := h.page(ctrl)
	status := http.StatusOK
	switch {
	case errors.Is(err, apperrors.ErrEmptyURL):
		page.Error, status = msgEmptyURL, http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAnalysisInFlight):
		page.Error, status = msgInFlight, http.StatusConflict
	case err != nil:
		h.logger.WithContext(c.Request.Context()).WithField("target_url", url).WithError(err).Warn("Dashboard analysis failed")
	}

	if isHTMX(c) {
		// htmx only swaps 2xx responses
		if rerr := render(c, http.StatusOK, templates.Dashboard(page)); rerr != nil {
			h.logger.WithError(rerr).Error("Failed to render dashboard partial")
		}
		return
	}
	if status != http.StatusOK {
		if rerr := render(c, status, templates.Home(page)); rerr != nil {
			h.logger.WithError(rerr).Error("Failed to render home template")
		}
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Throttled answers a submit the rate limiter refused. The session state is left alone.
func (h *DashboardWebHandler) Throttled(c *gin.Context) {
	ctrl := sessionFor(c, h.sessions, h.sessionTTL)
	page := h.page(ctrl)
	page.Error = msgThrottled

	if isHTMX(c) {
		if err := render(c, http.StatusOK, templates.Dashboard(page)); err != nil {
			h.logger.WithError(err).Error("Failed to render dashboard partial")
		}
		return
	}
	if err := render(c, http.StatusTooManyRequests, templates.Home(page)); err != nil {
		h.logger.WithError(err).Error("Failed to render home template")
	}
}

func (h *DashboardWebHandler) SelectTab(c *gin.Context) {
	ctrl := sessionFor(c, h.sessions, h.sessionTTL)
	name := c.Param("name")

	if err := ctrl.SelectTab(name); err != nil {
		h.logger.WithFields(logger.Fields{"tab": name}).Warn("Unknown tab requested")
		if rerr := render(c, http.StatusNotFound, templates.ErrorPage(http.StatusNotFound, "Unknown tab "+name)); rerr != nil {
			h.logger.WithError(rerr).Error("Failed to render error page")
		}
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err := render(c, http.StatusOK, templates.TabPanel(h.page(ctrl))); err != nil {
		h.logger.WithError(err).Error("Failed to render tab partial")
	}
}

// Raw shows the last backend payload exactly as received, indented.
func (h *DashboardWebHandler) Raw(c *gin.Context) {
	ctrl := sessionFor(c, h.sessions, h.sessionTTL)
	state := ctrl.Snapshot()

	if state.Result == nil {
		if err := render(c, http.StatusNotFound, templates.ErrorPage(http.StatusNotFound, "No analysis to show yet.")); err != nil {
			h.logger.WithError(err).Error("Failed to render error page")
		}
		return
	}
	if err := render(c, http.StatusOK, templates.RawJSON(state.Result.Raw)); err != nil {
		h.logger.WithError(err).Error("Failed to render raw template")
	}
}
