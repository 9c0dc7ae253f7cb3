package whatsapp

import (
	"github.com/gin-gonic/gin"

	"datachat/internal/query"
	"datachat/internal/webhook"
	pkgLog "datachat/pkg/log"
)

// Handler is the interface for the WhatsApp webhook delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l        pkgLog.Logger
	uc       query.UseCase
	security *webhook.SecurityValidator
}

// New creates a new WhatsApp delivery handler.
func New(l pkgLog.Logger, uc query.UseCase, securityConfig webhook.SecurityConfig) Handler {
	return &handler{
		l:        l,
		uc:       uc,
		security: webhook.NewSecurityValidator(securityConfig),
	}
}
