// File: server/routes.go
package server

import (
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"cmv-site/apiclient"
	"cmv-site/content"
	"cmv-site/controllers"
	"cmv-site/logger"
	"cmv-site/middleware"
	"cmv-site/models"
	"cmv-site/services"
)

const sessionName = "cmvsession"

// templateFuncs are available in every page template.
var templateFuncs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
}

func (s *Server) routes(lib *content.Library) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Only this site may frame its pages.
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "SAMEORIGIN")
		c.Next()
	})
	router.Use(middleware.RequestMetrics(s.recorder))

	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   s.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))
	router.Use(middleware.LoadPreferences(middleware.ThemeLight))
	router.Use(middleware.VisitorSession)

	templatesDir := filepath.Join(s.cfg.BaseDir, "templates", "*.html")
	logger.Info.Printf("Server.routes: loading templates from %s", templatesDir)
	router.SetFuncMap(templateFuncs)
	router.LoadHTMLGlob(templatesDir)

	staticDir := filepath.Join(s.cfg.BaseDir, "static")
	router.Static("/static", staticDir)
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "images", "favicon.svg"))

	// ---------------- public ----------------

	router.GET("/health", controllers.Health)
	if s.prom != nil {
		router.GET("/metrics", gin.WrapH(s.prom.Handler()))
	}
	router.GET("/carousel/feed", gin.WrapF(s.hub.ServeWs))

	pages := controllers.NewPageController(s.content, lib, controllers.PageSettings{
		Carousel:      s.carouselOptions(),
		MapEmbedURL:   s.cfg.MapEmbedURL,
		VideoEmbedURL: s.cfg.VideoEmbedURL,
		CGCCEventDate: s.cfg.CGCCEventDate,
	}, nil)
	router.GET("/", pages.Home)
	router.GET("/about", pages.About)
	router.GET("/activities", pages.Activities)
	router.GET("/events", pages.Events)
	router.GET("/contact", pages.Contact)

	forms := controllers.NewFormController(
		services.NewFormService(s.api, services.NewSubmissionGuard(), s.recorder),
		controllers.DonationSettings{UPIID: s.cfg.DonationUPIID},
	)
	limited := s.limiter.Middleware()
	router.GET("/volunteer", forms.VolunteerPage)
	router.POST("/volunteer", limited, forms.SubmitVolunteer)
	router.GET("/donate", forms.DonatePage)
	router.POST("/donate", limited, forms.SubmitDonation)
	router.GET("/donate/qr.png", forms.DonationQR)
	router.GET("/cgcc2025/register", forms.RegisterPage)
	router.POST("/cgcc2025/register", limited, forms.SubmitRegistration)

	router.POST("/preferences/theme", controllers.ToggleTheme)

	// ---------------- admin ----------------

	auth := controllers.NewAuthController(s.cfg.AdminUsername, s.cfg.AdminPasswordHash)
	router.GET(middleware.AdminLoginPath, auth.LoginPage)
	router.POST(middleware.AdminLoginPath, limited, auth.Login)
	router.GET("/admin/logout", auth.Logout)
	router.POST("/admin/logout", auth.Logout)

	admin := controllers.NewAdminController(
		s.slides,
		services.NewAdminCollection[models.Event]("upcoming-events", s.api.Events(models.UpcomingEvents)),
		services.NewAdminCollection[models.Event]("featured-events", s.api.Events(models.FeaturedEvents)),
		services.NewAdminCollection[models.Registration]("registrations", s.api.Registrations()),
		s.uploader(),
		s.api,
		s.content,
		s.hub,
	)
	protected := router.Group("/admin", middleware.AdminRequired())
	{
		protected.GET("", admin.Dashboard)
		protected.GET("/carousel", admin.CarouselPage)
		protected.POST("/carousel", admin.CreateSlide)
		protected.POST("/carousel/:id/delete", admin.DeleteSlide)
		protected.GET("/events/:kind", admin.EventsPage)
		protected.POST("/events/:kind", admin.CreateEvent)
		protected.POST("/events/:kind/:id/delete", admin.DeleteEvent)
		protected.GET("/registrations", admin.RegistrationsPage)
		protected.POST("/registrations/:id/delete", admin.DeleteRegistration)
		protected.GET("/registrations/export", admin.ExportRegistrations)
	}

	return router
}

// uploader sends images straight to Cloudinary when configured, otherwise
// through the API's upload endpoint.
func (s *Server) uploader() apiclient.Uploader {
	if s.cfg.DirectUpload() {
		logger.Info.Printf("Server: uploading images directly to Cloudinary (%s)", s.cfg.CloudName)
		return apiclient.NewCloudinaryUploader(s.api, s.cfg.CloudName, s.cfg.UploadPreset)
	}
	return s.api
}
