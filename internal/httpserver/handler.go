package httpserver

import (
	"context"

	"datachat/internal/middleware"
	"datachat/internal/model"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(middleware.RequestID())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	srv.gin.POST("/query", srv.queryHandler.Query)
	srv.gin.POST("/stream", srv.queryHandler.Stream)
	srv.gin.GET("/sessions/:id", srv.queryHandler.ReadSession)
	srv.gin.DELETE("/sessions/:id", srv.queryHandler.ClearSession)
	srv.l.Infof(ctx, "Query routes registered at POST /query, POST /stream")

	if srv.whatsappHandler != nil {
		srv.gin.POST("/webhook/whatsapp", srv.whatsappHandler.HandleWebhook)
		srv.l.Infof(ctx, "WhatsApp webhook route registered at POST /webhook/whatsapp")
	} else {
		srv.l.Infof(ctx, "WhatsApp handler not configured, skipping webhook route")
	}

	return nil
}
