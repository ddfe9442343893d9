// File: middleware/session.go
package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cmv-site/logger"
)

// VisitorSession makes sure every visitor carries a random id in their
// session. The submission guard keys off it.
//
// The id only counts from the next request on: a request that arrived
// without one is keyed by client IP, so concurrent cookieless posts from
// one address still share a guard.
func VisitorSession(c *gin.Context) {
	session := sessions.Default(c)
	if id, _ := session.Get(SessionKeyVisitor).(string); id != "" {
		c.Set(SessionKeyVisitor, id)
		c.Next()
		return
	}
	id := uuid.NewString()
	session.Set(SessionKeyVisitor, id)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[VisitorSession] could not save session: %v", err)
	} else {
		logger.Debug.Printf("[VisitorSession] new visitor %s", id)
	}
	c.Next()
}

// VisitorID returns the session's visitor id, or the client IP when the
// request carried none.
func VisitorID(c *gin.Context) string {
	if id := c.GetString(SessionKeyVisitor); id != "" {
		return id
	}
	return "ip:" + c.ClientIP()
}
