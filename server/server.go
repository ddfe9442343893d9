// Package server assembles configuration, the Remote Content API client,
// services and controllers into a gin engine, and runs it.
// File: server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-gonic/gin"

	"cmv-site/apiclient"
	"cmv-site/carousel"
	"cmv-site/config"
	"cmv-site/content"
	"cmv-site/logger"
	"cmv-site/metrics"
	"cmv-site/middleware"
	"cmv-site/models"
	"cmv-site/services"
	"cmv-site/websocket"
)

const (
	presenceInterval = time.Minute
	presenceTimeout  = 2 * time.Minute
	shutdownTimeout  = 10 * time.Second
)

// Server owns the gin engine and the long-lived pieces behind it.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine

	api      *apiclient.Client
	content  *services.ContentService
	slides   *services.AdminCollection[models.Slide]
	hub      *websocket.Hub
	limiter  *middleware.RateLimiter
	prom     *metrics.Prometheus
	recorder metrics.Recorder
}

// New builds the server. ctx bounds the lifetime of the live carousel feed.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	s.api = apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Tracing: cfg.XRayEnabled,
	})
	s.api.SetResponseHook(func(method, path string, status int, elapsed time.Duration, err error) {
		s.recorder.APICall(method, path, status, elapsed)
		if err != nil {
			logger.Debug.Printf("[apiclient] %s %s failed after %v: %v", method, path, elapsed, err)
		}
	})

	lib, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("load site content: %w", err)
	}

	s.content = services.NewContentService(
		s.api.CarouselItems(),
		s.api.Events(models.UpcomingEvents),
		s.api.Events(models.FeaturedEvents),
		cfg.ContentCacheTTL,
	)
	s.hub = websocket.NewHub(ctx, nil, s.carouselOptions(), s.recorder)

	s.slides = services.NewAdminCollection[models.Slide]("carousel", s.api.CarouselItems())
	s.slides.OnChange(func(slides []models.Slide) {
		s.hub.UpdateSlides(slides)
		s.content.SetSlides(slides)
	})

	s.limiter = middleware.NewRateLimiter(cfg.SubmitRatePerMinute)
	s.engine = s.routes(lib)
	return s, nil
}

// initMetrics picks the recorders enabled in config.
func (s *Server) initMetrics() error {
	var recorders []metrics.Recorder
	if s.cfg.MetricsEnabled {
		s.prom = metrics.NewPrometheus()
		recorders = append(recorders, s.prom)
	}
	if s.cfg.CloudWatchEnabled {
		cw, err := metrics.NewCloudWatch(s.cfg.AWSRegion, s.cfg.Env)
		if err != nil {
			return fmt.Errorf("cloudwatch: %w", err)
		}
		recorders = append(recorders, cw)
	}
	s.recorder = metrics.NewMulti(recorders...)
	return nil
}

func (s *Server) carouselOptions() carousel.Options {
	return carousel.Options{Autoplay: s.cfg.CarouselAutoplay, Interval: s.cfg.CarouselInterval}
}

// Handler returns the HTTP handler, wrapped for X-Ray when enabled.
func (s *Server) Handler() http.Handler {
	if s.cfg.XRayEnabled {
		return xray.Handler(xray.NewFixedSegmentNamer("cmv-site"), s.engine)
	}
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Presence().Run(ctx, presenceInterval, presenceTimeout)
	go s.sweepRateLimits(ctx)
	go s.primeSlides(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("Server.Run: listening on %s (env=%s)", srv.Addr, s.cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info.Println("Server.Run: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.Close()
	return srv.Shutdown(shutdownCtx)
}

// primeSlides loads the carousel once so live displays start with content.
func (s *Server) primeSlides(ctx context.Context) {
	if _, err := s.slides.Load(ctx); err != nil {
		logger.Warn.Printf("Server.primeSlides: %v", err)
	}
}

func (s *Server) sweepRateLimits(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Cleanup(); n > 0 {
				logger.Debug.Printf("Server.sweepRateLimits: forgot %d clients", n)
			}
		}
	}
}
