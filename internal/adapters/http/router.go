package http

import (
	"context"
	"net/http"

	"github.com/dkeye/ScreenShare/internal/config"
	"github.com/dkeye/ScreenShare/internal/rendezvous"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func SetupRouter(ctx context.Context, cfg *config.Server, hub *rendezvous.Hub) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/ws/signal", func(c *gin.Context) {
		hub.HandleSignal(ctx, c)
	})
	api.GET("/peers", func(c *gin.Context) {
		c.JSON(http.StatusOK, rendezvous.Peers{Peers: hub.Online()})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
