// file: controllers/admin_controller.go
package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cmv-site/apiclient"
	"cmv-site/clock"
	"cmv-site/logger"
	"cmv-site/models"
	"cmv-site/services"
	"cmv-site/websocket"
)

// maxImageBytes bounds admin uploads.
const maxImageBytes = 10 << 20

// LiveDisplays is what the dashboard shows about connected carousels.
type LiveDisplays interface {
	Count() int
	Presence() *websocket.Presence
}

// AdminController serves the admin CRUD screens. Each screen works on an
// AdminCollection kept in step with one API collection.
type AdminController struct {
	Slides        *services.AdminCollection[models.Slide]
	Events        map[models.EventKind]*services.AdminCollection[models.Event]
	Registrations *services.AdminCollection[models.Registration]
	Uploader      apiclient.Uploader
	Export        services.CSVSource
	Content       services.ContentServiceInterface
	Displays      LiveDisplays
	Clock         clock.Clock
}

// NewAdminController wires the admin screens.
func NewAdminController(
	slides *services.AdminCollection[models.Slide],
	upcoming, featured *services.AdminCollection[models.Event],
	registrations *services.AdminCollection[models.Registration],
	uploader apiclient.Uploader,
	export services.CSVSource,
	contentSvc services.ContentServiceInterface,
	displays LiveDisplays,
) *AdminController {
	return &AdminController{
		Slides: slides,
		Events: map[models.EventKind]*services.AdminCollection[models.Event]{
			models.UpcomingEvents: upcoming,
			models.FeaturedEvents: featured,
		},
		Registrations: registrations,
		Uploader:      uploader,
		Export:        export,
		Content:       contentSvc,
		Displays:      displays,
		Clock:         clock.NewSystem(),
	}
}

// ---------------- dashboard ----------------

// Dashboard shows record counts and connected carousel displays.
func (ac *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts := gin.H{}
	var loadErrs []string

	if slides, err := ac.Slides.Load(ctx); err != nil {
		loadErrs = append(loadErrs, userMessage(err))
	} else {
		counts["Slides"] = len(slides)
	}
	for kind, coll := range ac.Events {
		if events, err := coll.Load(ctx); err != nil {
			loadErrs = append(loadErrs, userMessage(err))
		} else {
			counts[kind.Title()] = len(events)
		}
	}
	if regs, err := ac.Registrations.Load(ctx); err != nil {
		loadErrs = append(loadErrs, userMessage(err))
	} else {
		counts["Registrations"] = len(regs)
	}

	data := gin.H{
		"Title":  "Admin",
		"Counts": counts,
	}
	if ac.Displays != nil {
		data["LiveCount"] = ac.Displays.Count()
		data["Displays"] = ac.Displays.Presence().Active()
	}
	if len(loadErrs) > 0 {
		data["Error"] = loadErrs[0]
	}
	render(c, http.StatusOK, "admin_dashboard.html", data)
}

// ---------------- carousel ----------------

// CarouselPage lists the carousel slides.
func (ac *AdminController) CarouselPage(c *gin.Context) {
	slides, err := ac.Slides.Load(c.Request.Context())
	render(c, http.StatusOK, "admin_carousel.html", gin.H{
		"Title":  "Carousel",
		"Slides": slides,
		"Error":  userMessage(err),
	})
}

// CreateSlide uploads the image and adds a slide.
func (ac *AdminController) CreateSlide(c *gin.Context) {
	ctx := c.Request.Context()
	imageURL, err := ac.uploadImage(ctx, c)
	if err == nil {
		_, err = ac.Slides.Create(ctx, models.Slide{
			Image:       imageURL,
			Title:       strings.TrimSpace(c.PostForm("title")),
			Description: strings.TrimSpace(c.PostForm("description")),
		})
	}
	ac.finish(c, "/admin/carousel", err, "Slide added.")
}

// DeleteSlide removes a slide.
func (ac *AdminController) DeleteSlide(c *gin.Context) {
	err := ac.Slides.Delete(c.Request.Context(), c.Param("id"))
	ac.finish(c, "/admin/carousel", err, "Slide deleted.")
}

// ---------------- events ----------------

func (ac *AdminController) eventCollection(c *gin.Context) (models.EventKind, *services.AdminCollection[models.Event], bool) {
	kind, err := models.ParseEventKind(c.Param("kind"))
	if err != nil {
		c.String(http.StatusNotFound, "unknown event list")
		return "", nil, false
	}
	coll, ok := ac.Events[kind]
	if !ok || coll == nil {
		c.String(http.StatusNotFound, "unknown event list")
		return "", nil, false
	}
	return kind, coll, true
}

// EventsPage lists one event collection.
func (ac *AdminController) EventsPage(c *gin.Context) {
	kind, coll, ok := ac.eventCollection(c)
	if !ok {
		return
	}
	events, err := coll.Load(c.Request.Context())
	render(c, http.StatusOK, "admin_events.html", gin.H{
		"Title":  kind.Title(),
		"Kind":   kind,
		"Events": events,
		"Error":  userMessage(err),
	})
}

// CreateEvent uploads the image and adds an event. Highlights are entered
// one per line.
func (ac *AdminController) CreateEvent(c *gin.Context) {
	kind, coll, ok := ac.eventCollection(c)
	if !ok {
		return
	}
	back := "/admin/events/" + string(kind)

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		ac.finish(c, back, models.ValidationErrors{"name": "This field is required."}, "")
		return
	}

	ctx := c.Request.Context()
	imageURL, err := ac.uploadImage(ctx, c)
	if err == nil {
		_, err = coll.Create(ctx, models.Event{
			Name:        name,
			Image:       imageURL,
			Description: strings.TrimSpace(c.PostForm("description")),
			Schedule:    strings.TrimSpace(c.PostForm("schedule")),
			Highlights:  splitLines(c.PostForm("highlights")),
			Contact:     strings.TrimSpace(c.PostForm("contact")),
		})
	}
	ac.finish(c, back, err, "Event added.")
}

// DeleteEvent removes an event.
func (ac *AdminController) DeleteEvent(c *gin.Context) {
	kind, coll, ok := ac.eventCollection(c)
	if !ok {
		return
	}
	err := coll.Delete(c.Request.Context(), c.Param("id"))
	ac.finish(c, "/admin/events/"+string(kind), err, "Event deleted.")
}

// ---------------- registrations ----------------

// RegistrationsPage lists CGCC registrations.
func (ac *AdminController) RegistrationsPage(c *gin.Context) {
	regs, err := ac.Registrations.Load(c.Request.Context())
	render(c, http.StatusOK, "admin_registrations.html", gin.H{
		"Title":         "CGCC 2025 Registrations",
		"Registrations": regs,
		"Error":         userMessage(err),
	})
}

// DeleteRegistration removes one registration.
func (ac *AdminController) DeleteRegistration(c *gin.Context) {
	err := ac.Registrations.Delete(c.Request.Context(), c.Param("id"))
	ac.finish(c, "/admin/registrations", err, "Registration deleted.")
}

// ExportRegistrations streams the CSV as a file download. The whole export
// is buffered first so a failure can still redirect with a message.
func (ac *AdminController) ExportRegistrations(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := services.ExportRegistrations(c.Request.Context(), ac.Export, &buf); err != nil {
		ac.finish(c, "/admin/registrations", err, "")
		return
	}
	filename := services.RegistrationsExportFilename(ac.Clock.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ---------------- helpers ----------------

// uploadImage reads the required "image" file and hosts it.
func (ac *AdminController) uploadImage(ctx context.Context, c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", services.ErrImageRequired
	}
	if fh.Size > maxImageBytes {
		return "", models.ValidationErrors{"image": "Images must be smaller than 10 MB."}
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", services.ErrImageRequired
	}
	url, err := ac.Uploader.Upload(ctx, fh.Filename, data)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	logger.Info.Printf("AdminController: uploaded %s (%d bytes)", fh.Filename, len(data))
	return url, nil
}

// finish flashes the outcome and redirects back to the list (post/redirect/get).
// Successful writes drop cached public content.
func (ac *AdminController) finish(c *gin.Context, back string, err error, success string) {
	if err != nil {
		logger.Warn.Printf("AdminController %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		addFlash(c, "error", userMessage(err))
	} else {
		if ac.Content != nil {
			ac.Content.Invalidate()
		}
		addFlash(c, "success", success)
	}
	c.Redirect(http.StatusSeeOther, back)
}

func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
