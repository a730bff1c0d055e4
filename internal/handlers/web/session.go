package web

import (
	"context"
	"net/http"
	"time"

	"cybersentinel/internal/dashboard"
	"cybersentinel/pkg/logger"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

const SessionCookie = "cybersentinel_session"

// sessionFor returns the caller's dashboard controller, minting a session on first visit.
func sessionFor(c *gin.Context, sessions *dashboard.Sessions, ttl time.Duration) *dashboard.Controller {
	existing, _ := c.Cookie(SessionCookie)
	id, ctrl := sessions.GetOrCreate(existing)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.SessionIDKey, id))

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)
	return ctrl
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") != ""
}

func render(c *gin.Context, status int, component templ.Component) error {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	return component.Render(c.Request.Context(), c.Writer)
}
