// file: controllers/preference_controller.go
package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"cmv-site/logger"
	"cmv-site/middleware"
)

// ToggleTheme switches between light and dark mode, or sets the theme given
// in the "theme" form field, then returns to the referring page.
func ToggleTheme(c *gin.Context) {
	current := middleware.GetPreferences(c).Theme
	next := current.Toggle()
	if v := c.PostForm("theme"); v != "" {
		t, err := middleware.ParseTheme(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		next = t
	}

	if err := middleware.SetTheme(c, next); err != nil {
		logger.Error.Printf("ToggleTheme: Failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save preference"})
		return
	}

	if c.GetHeader("Accept") == "application/json" {
		c.JSON(http.StatusOK, gin.H{"theme": next})
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c.GetHeader("Referer")))
}

// backTo keeps redirects on this site.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
