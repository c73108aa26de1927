package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/folio/internal/domain/event"
	porteventbus "github.com/alanyang/folio/internal/port/eventbus"
	projectsvc "github.com/alanyang/folio/internal/service/project"
	registersvc "github.com/alanyang/folio/internal/service/register"

	projecthandler "github.com/alanyang/folio/internal/transport/project"
	registerhandler "github.com/alanyang/folio/internal/transport/register"
	wshandler "github.com/alanyang/folio/internal/transport/ws"
)

type Options struct {
	CORSOrigins    []string
	MaxUploadBytes int64
	// UploadDir is served under /uploads when set.
	UploadDir string
}

func NewRouter(
	ctx context.Context,
	projectSvc *projectsvc.Service,
	registerSvc *registersvc.Service,
	eventBus porteventbus.EventBus,
	opts Options,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware(opts.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	api := r.Group("/api")

	projecthandler.Register(api.Group("/projects"), projectSvc, opts.MaxUploadBytes)
	registerhandler.Register(api.Group("/register"), registerSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	if eventBus != nil {
		if _, err := eventBus.Subscribe(ctx, event.ChannelProject, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe project channel to WS hub", "error", err)
		}
	}

	return r
}
