// file: controllers/auth_controller_test.go
package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmv-site/middleware"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	router := setupTestRouter(t)
	ac := NewAuthController("admin", hashPassword("om-namah"))
	router.GET("/admin/login", ac.LoginPage)
	router.POST("/admin/login", ac.Login)
	router.POST("/admin/logout", ac.Logout)
	router.GET("/whoami", func(c *gin.Context) {
		isAdmin, _ := sessions.Default(c).Get(middleware.SessionKeyAdmin).(bool)
		if isAdmin {
			c.String(http.StatusOK, "admin")
			return
		}
		c.String(http.StatusOK, "guest")
	})
	return router
}

func TestComparePasswords(t *testing.T) {
	hashed := hashPassword("securepassword")
	assert.True(t, ComparePasswords(hashed, "securepassword"))
	assert.False(t, ComparePasswords(hashed, "wrongpassword"))
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hashed)
	assert.True(t, ComparePasswords(hashed, "secret"))
}

func TestLogin_Success(t *testing.T) {
	router := newAuthRouter(t)
	form := url.Values{"username": {"admin"}, "password": {"om-namah"}, "next": {"/admin/events/featured"}}
	w := serve(router, postForm("/admin/login", form), nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/events/featured", w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	req, _ := http.NewRequest("GET", "/whoami", nil)
	assert.Equal(t, "admin", serve(router, req, cookie).Body.String())
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantText   string
	}{
		{"missing fields", url.Values{"username": {"admin"}}, http.StatusBadRequest, "Please fill in all fields."},
		{"wrong password", url.Values{"username": {"admin"}, "password": {"nope"}}, http.StatusUnauthorized, "Invalid username or password."},
		{"wrong user", url.Values{"username": {"root"}, "password": {"om-namah"}}, http.StatusUnauthorized, "Invalid username or password."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(t)
			w := serve(router, postForm("/admin/login", tt.form), nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
		})
	}
}

func TestLogin_DisabledWithoutHash(t *testing.T) {
	router := setupTestRouter(t)
	ac := NewAuthController("admin", "")
	router.POST("/admin/login", ac.Login)

	w := serve(router, postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"x"}}), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginPage_RedirectsWhenSignedIn(t *testing.T) {
	router := newAuthRouter(t)
	cookie := SetSession(router, "/test-set-admin", map[string]interface{}{middleware.SessionKeyAdmin: true})

	req, _ := http.NewRequest("GET", "/admin/login", nil)
	w := serve(router, req, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	req, _ = http.NewRequest("GET", "/admin/login?next=https://evil.example", nil)
	w = serve(router, req, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "next=/admin")
}

func TestLogout(t *testing.T) {
	router := newAuthRouter(t)
	cookie := SetSession(router, "/test-set-admin", map[string]interface{}{
		middleware.SessionKeyAdmin:     true,
		middleware.SessionKeyAdminUser: "admin",
		middleware.SessionKeyTheme:     "dark",
	})

	req, _ := http.NewRequest("POST", "/admin/logout", nil)
	w := serve(router, req, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.AdminLoginPath, w.Header().Get("Location"))

	after := sessionCookie(w)
	require.NotNil(t, after)
	req, _ = http.NewRequest("GET", "/whoami", nil)
	assert.Equal(t, "guest", serve(router, req, after).Body.String())
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/admin/carousel", safeNext("/admin/carousel"))
	assert.Equal(t, "/admin", safeNext(""))
	assert.Equal(t, "/admin", safeNext("/about"))
	assert.Equal(t, "/admin", safeNext("https://evil.example/admin"))
	assert.Equal(t, "/admin", safeNext("//evil.example/admin"))
}
