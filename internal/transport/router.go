package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/shift-router/internal/domain/event"
	porteventbus "github.com/alanyang/shift-router/internal/port/eventbus"
	availsvc "github.com/alanyang/shift-router/internal/service/availability"
	controllersvc "github.com/alanyang/shift-router/internal/service/controller"
	operatorsvc "github.com/alanyang/shift-router/internal/service/operator"

	availhandler "github.com/alanyang/shift-router/internal/transport/availability"
	controlhandler "github.com/alanyang/shift-router/internal/transport/control"
	operatorhandler "github.com/alanyang/shift-router/internal/transport/operator"
	wshandler "github.com/alanyang/shift-router/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	controlSvc *controllersvc.Service,
	availSvc *availsvc.Service,
	operatorSvc *operatorsvc.Service,
	mcpHandler http.Handler,
	metricsHandler http.Handler,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	controlhandler.Register(api, controlSvc)
	availhandler.Register(api.Group("/availability"), availSvc)
	operatorhandler.Register(api.Group("/operators"), operatorSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	// One subscription per domain channel. Every event is forwarded; event.Type in the
	// payload lets the dashboard filter.
	for _, ch := range event.Channels {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		hub.Close()
	}()

	return r
}
