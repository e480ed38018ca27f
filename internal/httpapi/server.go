// Package httpapi serves the catalog as a JSON API over gin.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jensholdgaard/eventdesk/internal/catalog"
	"github.com/jensholdgaard/eventdesk/internal/event"
	"github.com/jensholdgaard/eventdesk/internal/health"
)

// Catalog is the subset of catalog.Manager the API needs.
type Catalog interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
	CreateEvent(ctx context.Context, f event.Fields) (*event.Event, error)
	GetEvent(ctx context.Context, id int64) (*event.Event, error)
	UpdateEvent(ctx context.Context, id int64, f event.Fields) (*event.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	Report(ctx context.Context) (*catalog.Report, error)
	Feed(ctx context.Context) ([]catalog.FeedEntry, error)
}

// Options configures the router.
type Options struct {
	Catalog Catalog
	Health  *health.Handler
	Logger  *slog.Logger
	// JWTSecret protects the write routes when non-empty.
	JWTSecret      string
	ServiceName    string
	ServiceVersion string
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(opts.Logger), RequestLogger(opts.Logger))

	if opts.Health != nil {
		opts.Health.Register(r)
	}

	h := &handlers{catalog: opts.Catalog, logger: opts.Logger}
	r.GET("/about", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": opts.ServiceName, "version": opts.ServiceVersion})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/events", h.listEvents)
		api.GET("/events/:id", h.getEvent)
		api.GET("/report", h.report)
		api.GET("/feed", h.feed)
	}

	write := api.Group("")
	if opts.JWTSecret != "" {
		write.Use(JWTAuth(opts.JWTSecret))
	}
	{
		write.POST("/events", h.createEvent)
		write.PUT("/events/:id", h.updateEvent)
		write.DELETE("/events/:id", h.deleteEvent)
	}

	return r
}

// NewHandler returns the router wrapped in OTEL HTTP instrumentation.
func NewHandler(opts Options) http.Handler {
	return otelhttp.NewHandler(NewRouter(opts), "eventdesk.http")
}
