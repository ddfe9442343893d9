// file: middleware/middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("testsession", cookie.NewStore([]byte("secret"))))
	return router
}

func TestVisitorSession_StableID(t *testing.T) {
	router := newSessionRouter()
	router.Use(VisitorSession)
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, VisitorID(c)) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ip:192.0.2.1", w.Body.String(), "no session yet")
	cookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, cookie)

	ids := make([]string, 2)
	for i := range ids {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Cookie", cookie)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		ids[i] = w.Body.String()
	}
	assert.Len(t, ids[0], 36, "uuid string")
	assert.Equal(t, ids[0], ids[1])
}

func TestVisitorSession_CookielessRequestsShareKey(t *testing.T) {
	router := newSessionRouter()
	router.Use(VisitorSession)
	router.POST("/", func(c *gin.Context) { c.String(http.StatusOK, VisitorID(c)) })

	keys := make([]string, 2)
	for i := range keys {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:5000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.NotEmpty(t, w.Header().Get("Set-Cookie"))
		keys[i] = w.Body.String()
	}
	assert.Equal(t, "ip:10.0.0.9", keys[0])
	assert.Equal(t, keys[0], keys[1])
}

func TestVisitorID_FallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:4000"
	assert.Equal(t, "ip:10.0.0.7", VisitorID(c))
}

func TestPreferences_DefaultAndToggle(t *testing.T) {
	router := newSessionRouter()
	router.Use(LoadPreferences(ThemeLight))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, string(GetPreferences(c).Theme)) })
	router.POST("/theme", func(c *gin.Context) {
		next := GetPreferences(c).Theme.Toggle()
		require.NoError(t, SetTheme(c, next))
		c.String(http.StatusOK, string(GetPreferences(c).Theme))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "light", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/theme", nil))
	assert.Equal(t, "dark", w.Body.String())
	cookie := w.Header().Get("Set-Cookie")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "dark", w.Body.String(), "choice persists in the session")
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme("dark")
	assert.NoError(t, err)
	assert.True(t, Preferences{Theme: th}.DarkMode())
	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(2)
	router := gin.New()
	router.POST("/donate", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/donate", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{204, 204, 429}, codes)

	other := httptest.NewRequest(http.MethodPost, "/donate", nil)
	other.RemoteAddr = "192.0.2.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, other)
	assert.Equal(t, http.StatusNoContent, w.Code, "limits are per client")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(5)
	limiter.idleTTL = time.Millisecond
	limiter.Allow("a")
	time.Sleep(5 * time.Millisecond)
	limiter.Allow("b")

	assert.Equal(t, 1, limiter.Cleanup())
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.Called(method, route, status)
}
func (m *mockRecorder) APICall(string, string, int, time.Duration) {}
func (m *mockRecorder) FormSubmission(string, string)              {}
func (m *mockRecorder) LiveDisplays(int)                           {}

func TestRequestMetrics_UsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &mockRecorder{}
	rec.On("HTTPRequest", http.MethodGet, "/admin/events/:kind", http.StatusOK).Once()
	rec.On("HTTPRequest", http.MethodGet, "unmatched", http.StatusNotFound).Once()

	router := gin.New()
	router.Use(RequestMetrics(rec))
	router.GET("/admin/events/:kind", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/events/upcoming", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec.AssertExpectations(t)
}
