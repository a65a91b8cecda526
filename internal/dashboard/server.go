// Package dashboard serves published company pages, stored notices, and the
// submission endpoint over HTTP.
package dashboard

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/zulandar/haulyard/internal/dispatch"
	"github.com/zulandar/haulyard/internal/notice"
	"github.com/zulandar/haulyard/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NoticeReader loads stored notices for the view routes.
type NoticeReader interface {
	Get(ctx context.Context, folder, name string) (*notice.Document, error)
	Live(ctx context.Context, truck string) (*notice.Document, string, error)
}

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Service *dispatch.Service
	Pages   store.PageReader
	Notices NoticeReader
	Port    int
	// SubmitPerMinute limits POST /submit per client IP. Zero disables it.
	SubmitPerMinute int
	// AllowedOrigins enables CORS for these browser origins.
	AllowedOrigins []string
	Out            io.Writer
}

func (o *StartOpts) validate() error {
	if o.Service == nil {
		return fmt.Errorf("dashboard: service is required")
	}
	if o.Pages == nil {
		return fmt.Errorf("dashboard: page reader is required")
	}
	if o.Notices == nil {
		return fmt.Errorf("dashboard: notice reader is required")
	}
	return nil
}

// NewRouter builds the Gin engine with every route registered.
func NewRouter(ctx context.Context, opts StartOpts) (*gin.Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	var limiter *ipRateLimiter
	if opts.SubmitPerMinute > 0 {
		limiter = newIPRateLimiter(ctx, opts.SubmitPerMinute, burstFor(opts.SubmitPerMinute), 10*time.Minute)
	}
	registerRoutes(router, opts, limiter)
	return router, nil
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	router, err := NewRouter(ctx, opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
