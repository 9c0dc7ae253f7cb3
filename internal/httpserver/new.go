package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	queryHTTP "datachat/internal/query/delivery/httpapi"
	whatsappDelivery "datachat/internal/query/delivery/whatsapp"
	"datachat/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Query domain
	queryHandler queryHTTP.Handler

	// WhatsApp webhook
	whatsappHandler whatsappDelivery.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Query domain
	QueryHandler queryHTTP.Handler

	// WhatsApp webhook (nil disables the route)
	WhatsAppHandler whatsappDelivery.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.Default(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		queryHandler:    cfg.QueryHandler,
		whatsappHandler: cfg.WhatsAppHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.queryHandler == nil {
		return errors.New("query handler is required")
	}
	return nil
}
