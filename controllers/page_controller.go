// file: controllers/page_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cmv-site/carousel"
	"cmv-site/clock"
	"cmv-site/content"
	"cmv-site/logger"
	"cmv-site/modal"
	"cmv-site/models"
	"cmv-site/services"
)

// PageSettings are the configured bits the public pages embed.
type PageSettings struct {
	Carousel      carousel.Options
	FeedPath      string // websocket path of the live carousel feed
	MapEmbedURL   string
	VideoEmbedURL string
	CGCCEventDate time.Time
}

// PageController renders the informational pages.
type PageController struct {
	Content  services.ContentServiceInterface
	Library  *content.Library
	Settings PageSettings
	Clock    clock.Clock
}

// NewPageController wires the public pages.
func NewPageController(contentSvc services.ContentServiceInterface, lib *content.Library, settings PageSettings, clk clock.Clock) *PageController {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if settings.FeedPath == "" {
		settings.FeedPath = "/carousel/feed"
	}
	return &PageController{Content: contentSvc, Library: lib, Settings: settings, Clock: clk}
}

// Health reports liveness for load balancers.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Home renders the landing page: carousel, countdown and featured events.
// The carousel is rendered from a fresh engine so the page works without
// the live feed.
func (pc *PageController) Home(c *gin.Context) {
	ctx := c.Request.Context()
	slides, err := pc.Content.Slides(ctx)
	if err != nil {
		logger.Warn.Printf("Home: slides unavailable: %v", err)
	}
	featured, err := pc.Content.Events(ctx, models.FeaturedEvents)
	if err != nil {
		logger.Warn.Printf("Home: featured events unavailable: %v", err)
	}

	engine := carousel.NewEngine(slides, pc.Settings.Carousel)
	snap := engine.Snapshot()
	snap.Slides = slides

	render(c, http.StatusOK, "home.html", gin.H{
		"Title":     "Home",
		"Carousel":  snap,
		"FeedPath":  pc.Settings.FeedPath,
		"Featured":  featured,
		"Countdown": models.CountdownTo(pc.Clock.Now(), pc.Settings.CGCCEventDate),
		"VideoURL":  pc.Settings.VideoEmbedURL,
	})
}

// About renders the mission text and acharya profiles. ?acharya=<id> opens
// that profile in the modal.
func (pc *PageController) About(c *gin.Context) {
	var dialog modal.Dialog[models.Acharya]
	modal.Select(&dialog, c.Query("acharya"), pc.Library.FindAcharya)

	render(c, http.StatusOK, "about.html", gin.H{
		"Title":    "About Us",
		"About":    pc.Library.About(),
		"Acharyas": pc.Library.Acharyas(),
		"Modal":    dialog.Render("/about"),
	})
}

// Activities lists the regular programmes. ?activity=<id> opens the modal.
func (pc *PageController) Activities(c *gin.Context) {
	var dialog modal.Dialog[models.Activity]
	modal.Select(&dialog, c.Query("activity"), pc.Library.FindActivity)

	render(c, http.StatusOK, "activities.html", gin.H{
		"Title":      "Activities",
		"Activities": pc.Library.Activities(),
		"Modal":      dialog.Render("/activities"),
	})
}

// Events lists upcoming and featured events. ?event=<id> opens the modal.
func (pc *PageController) Events(c *gin.Context) {
	ctx := c.Request.Context()
	upcoming, upErr := pc.Content.Events(ctx, models.UpcomingEvents)
	featured, featErr := pc.Content.Events(ctx, models.FeaturedEvents)

	var dialog modal.Dialog[models.Event]
	modal.Select(&dialog, c.Query("event"), func(id string) (models.Event, bool) {
		for _, list := range [][]models.Event{upcoming, featured} {
			for _, e := range list {
				if e.ID == id {
					return e, true
				}
			}
		}
		return models.Event{}, false
	})

	data := gin.H{
		"Title":    "Events",
		"Upcoming": upcoming,
		"Featured": featured,
		"Modal":    dialog.Render("/events"),
	}
	if upErr != nil || featErr != nil {
		data["Error"] = "Some events could not be loaded right now."
	}
	render(c, http.StatusOK, "events.html", data)
}

// Contact renders the address block and map.
func (pc *PageController) Contact(c *gin.Context) {
	render(c, http.StatusOK, "contact.html", gin.H{
		"Title":   "Contact Us",
		"Contact": pc.Library.Contact(),
		"MapURL":  pc.Settings.MapEmbedURL,
	})
}
