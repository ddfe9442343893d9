// File: middleware/preferences.go
package middleware

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Theme is the colour scheme a visitor chose.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences is the per-visitor UI preference, read from and written to
// the session. Templates receive it under the "prefs" key.
type Preferences struct {
	Theme Theme
}

// DarkMode is used by templates.
func (p Preferences) DarkMode() bool { return p.Theme == ThemeDark }

const prefsKey = "prefs"

// LoadPreferences resolves the visitor's preferences (or the process
// default) once per request and stores them on the context.
func LoadPreferences(defaultTheme Theme) gin.HandlerFunc {
	if defaultTheme == "" {
		defaultTheme = ThemeLight
	}
	return func(c *gin.Context) {
		prefs := Preferences{Theme: defaultTheme}
		if t, err := ParseTheme(fmt.Sprint(sessions.Default(c).Get(SessionKeyTheme))); err == nil {
			prefs.Theme = t
		}
		c.Set(prefsKey, prefs)
		c.Next()
	}
}

// GetPreferences returns the preferences loaded for this request.
func GetPreferences(c *gin.Context) Preferences {
	if p, ok := c.Get(prefsKey); ok {
		return p.(Preferences)
	}
	return Preferences{Theme: ThemeLight}
}

// SetTheme stores theme in the session and on the current request.
func SetTheme(c *gin.Context, theme Theme) error {
	session := sessions.Default(c)
	session.Set(SessionKeyTheme, string(theme))
	if err := session.Save(); err != nil {
		return err
	}
	prefs := GetPreferences(c)
	prefs.Theme = theme
	c.Set(prefsKey, prefs)
	return nil
}
