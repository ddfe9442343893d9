// Package middleware holds the gin middleware of the site: admin
// authentication, visitor sessions, theme preference, rate limiting and
// request metrics.
// file: middleware/admin_required.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"cmv-site/logger"
)

// Session keys shared with the controllers.
const (
	SessionKeyAdmin     = "isAdmin"
	SessionKeyAdminUser = "adminUser"
	SessionKeyVisitor   = "sid"
	SessionKeyTheme     = "theme"
)

// AdminLoginPath is where unauthenticated admin requests are sent.
const AdminLoginPath = "/admin/login"

// AdminRequired blocks requests without an admin session. Browsers are
// redirected to the login page; API-style requests get a 401.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		isAdmin, ok := session.Get(SessionKeyAdmin).(bool)

		logger.Debug.Printf("AdminRequired Middleware - isAdmin=%v, ok=%v", isAdmin, ok)

		if !ok || !isAdmin {
			logger.Warn.Printf("AdminRequired Middleware - Unauthorized attempt on %s blocked", c.Request.URL.Path)
			if wantsJSON(c.Request) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, AdminLoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(SessionKeyAdminUser, session.Get(SessionKeyAdminUser))
		c.Next()
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") &&
		!strings.Contains(r.Header.Get("Accept"), "text/html")
}
