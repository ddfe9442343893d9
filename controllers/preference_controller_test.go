// file: controllers/preference_controller_test.go
package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThemeRouter(t *testing.T) *gin.Engine {
	router := setupTestRouter(t)
	router.POST("/preferences/theme", ToggleTheme)
	router.GET("/contact", func(c *gin.Context) {
		render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact Us"})
	})
	return router
}

func TestToggleTheme_JSON(t *testing.T) {
	router := newThemeRouter(t)

	req, _ := http.NewRequest("POST", "/preferences/theme", nil)
	req.Header.Set("Accept", "application/json")
	w := serve(router, req, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"dark"}`, w.Body.String())

	// the choice persists for the next page
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	req, _ = http.NewRequest("GET", "/contact", nil)
	assert.Contains(t, serve(router, req, cookie).Body.String(), "theme=dark")

	// and toggles back
	req, _ = http.NewRequest("POST", "/preferences/theme", nil)
	req.Header.Set("Accept", "application/json")
	w = serve(router, req, cookie)
	assert.JSONEq(t, `{"theme":"light"}`, w.Body.String())
}

func TestToggleTheme_RedirectsToReferer(t *testing.T) {
	router := newThemeRouter(t)
	req := postForm("/preferences/theme", url.Values{"theme": {"dark"}})
	req.Header.Set("Referer", "http://localhost:8080/events?event=f1")
	w := serve(router, req, nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/events?event=f1", w.Header().Get("Location"))
}

func TestToggleTheme_RejectsUnknownTheme(t *testing.T) {
	router := newThemeRouter(t)
	w := serve(router, postForm("/preferences/theme", url.Values{"theme": {"sepia"}}), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackTo(t *testing.T) {
	assert.Equal(t, "/", backTo(""))
	assert.Equal(t, "/about", backTo("https://cmvasai.org/about"))
	assert.Equal(t, "/", backTo("not a url%"))
}
