// file: middleware/admin_required_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAdminTestRouter exposes a login shortcut and one protected route.
func setupAdminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	router.GET("/login-test", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionKeyAdmin, c.Query("admin") == "true")
		session.Set(SessionKeyAdminUser, "sevak")
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "Failed to save session")
			return
		}
		c.String(http.StatusOK, "Session set")
	})

	admin := router.Group("/admin", AdminRequired())
	admin.GET("/carousel", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome, admin!", "user": c.GetString(SessionKeyAdminUser)})
	})
	return router
}

func loginCookie(t *testing.T, router *gin.Engine, admin bool) string {
	t.Helper()
	url := "/login-test"
	if admin {
		url += "?admin=true"
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	cookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, cookie, "session cookie should be set")
	return cookie
}

// TestAdminRequired_Success ensures an admin can access the protected route
func TestAdminRequired_Success(t *testing.T) {
	router := setupAdminTestRouter()
	cookie := loginCookie(t, router, true)

	req := httptest.NewRequest(http.MethodGet, "/admin/carousel", nil)
	req.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Admin should be allowed")
	assert.Contains(t, w.Body.String(), "Welcome, admin!")
	assert.Contains(t, w.Body.String(), "sevak")
}

// TestAdminRequired_NotAdminRedirects ensures non-admin browsers go to the login page
func TestAdminRequired_NotAdminRedirects(t *testing.T) {
	router := setupAdminTestRouter()
	cookie := loginCookie(t, router, false)

	req := httptest.NewRequest(http.MethodGet, "/admin/carousel", nil)
	req.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Fcarousel", w.Header().Get("Location"))
}

// TestAdminRequired_MissingSessionJSON ensures API clients get a 401
func TestAdminRequired_MissingSessionJSON(t *testing.T) {
	router := setupAdminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/carousel", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "Missing session should block access")
	assert.Contains(t, w.Body.String(), "Unauthorized")
}
