// file: controllers/auth_controller.go
package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"cmv-site/logger"
	"cmv-site/middleware"
)

// AuthController signs the single admin account in and out.
type AuthController struct {
	Username     string
	PasswordHash string // bcrypt
}

// NewAuthController uses the configured admin credentials. An empty hash
// disables admin login.
func NewAuthController(username, passwordHash string) *AuthController {
	return &AuthController{Username: username, PasswordHash: passwordHash}
}

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// LoginPage renders the admin login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if isAdmin, _ := sessions.Default(c).Get(middleware.SessionKeyAdmin).(bool); isAdmin {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	render(c, http.StatusOK, "admin_login.html", gin.H{
		"Title": "Admin Login",
		"Next":  safeNext(c.Query("next")),
	})
}

// Login authenticates the admin and redirects to ?next or the dashboard.
func (ac *AuthController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	if username == "" || password == "" {
		logger.Warn.Println("Login: Missing username or password")
		render(c, http.StatusBadRequest, "admin_login.html", gin.H{
			"Title": "Admin Login", "Next": next, "Error": "Please fill in all fields.",
		})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(ac.Username)) == 1
	passOK := ac.PasswordHash != "" && ComparePasswords(ac.PasswordHash, password)
	if !userOK || !passOK {
		logger.Warn.Printf("Login: Invalid credentials for user %q", username)
		render(c, http.StatusUnauthorized, "admin_login.html", gin.H{
			"Title": "Admin Login", "Next": next, "Error": "Invalid username or password.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionKeyAdmin, true)
	session.Set(middleware.SessionKeyAdminUser, username)
	if err := session.Save(); err != nil {
		logger.Error.Printf("Login: Failed to save session: %v", err)
		render(c, http.StatusInternalServerError, "admin_login.html", gin.H{
			"Title": "Admin Login", "Next": next, "Error": "Internal error, please try again.",
		})
		return
	}

	logger.Info.Printf("Login: admin %s signed in", username)
	c.Redirect(http.StatusFound, next)
}

// Logout clears the admin flags but keeps the visitor id and theme.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if user := session.Get(middleware.SessionKeyAdminUser); user != nil {
		logger.Info.Printf("Logout: admin %v signed out", user)
	}
	session.Delete(middleware.SessionKeyAdmin)
	session.Delete(middleware.SessionKeyAdminUser)
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: Error saving session during logout: %v", err)
	}
	c.Redirect(http.StatusFound, middleware.AdminLoginPath)
}

// safeNext only allows local admin paths as redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/admin") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/admin"
}
