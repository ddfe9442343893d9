// Package controllers holds the gin handlers of the public site and the
// admin console.
// file: controllers/render.go
package controllers

import (
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"cmv-site/apiclient"
	"cmv-site/logger"
	"cmv-site/middleware"
	"cmv-site/models"
	"cmv-site/services"
)

// SiteName appears in page titles.
const SiteName = "Chinmaya Mission Vasai"

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

func init() {
	// Flash values travel through the cookie session.
	gob.Register(Flash{})
}

// render merges the layout data every template expects into data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := sessions.Default(c)
	data["Site"] = SiteName
	data["Path"] = c.Request.URL.Path
	data["Prefs"] = middleware.GetPreferences(c)
	data["IsAdmin"], _ = session.Get(middleware.SessionKeyAdmin).(bool)
	data["Year"] = time.Now().Year()
	data["Flashes"] = takeFlashes(c)
	c.HTML(status, name, data)
}

// addFlash queues a notice for the next page the visitor sees.
func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Kind: kind, Message: message})
	if err := session.Save(); err != nil {
		logger.Error.Printf("addFlash: Failed to save session: %v", err)
	}
}

func takeFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		logger.Error.Printf("takeFlashes: Failed to save session: %v", err)
	}
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(Flash); ok {
			out = append(out, fl)
		}
	}
	return out
}

// userMessage turns an error into text suitable for a visitor.
func userMessage(err error) string {
	var apiErr *apiclient.APIError
	var verrs models.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.Is(err, services.ErrSubmissionInProgress):
		return services.ErrSubmissionInProgress.Error() + "."
	case errors.Is(err, services.ErrImageRequired):
		return "Please choose an image to upload."
	case errors.As(err, &verrs):
		return "Please correct the highlighted fields."
	case errors.Is(err, apiclient.ErrMissingID):
		return "The server did not confirm the new item. Reload the page to check the list."
	case errors.Is(err, apiclient.ErrUnavailable):
		return "We could not reach the server. Please try again in a moment."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("The server could not process the request (status %d).", apiErr.StatusCode)
	default:
		return "Something went wrong. Please try again."
	}
}

// statusFor maps a submission error onto an HTTP status.
func statusFor(err error) int {
	var verrs models.ValidationErrors
	switch {
	case errors.Is(err, services.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.As(err, &verrs), errors.Is(err, services.ErrImageRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// fieldErrors extracts per-field messages for inline display.
func fieldErrors(err error) models.ValidationErrors {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return models.ValidationErrors{}
}
