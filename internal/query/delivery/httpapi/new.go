package httpapi

import (
	"github.com/gin-gonic/gin"

	"datachat/internal/query"
	pkgLog "datachat/pkg/log"
)

// Handler is the interface for the HTTP API delivery handler.
type Handler interface {
	Query(c *gin.Context)
	Stream(c *gin.Context)
	ReadSession(c *gin.Context)
	ClearSession(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc query.UseCase
}

// New creates a new HTTP API delivery handler.
func New(l pkgLog.Logger, uc query.UseCase) Handler {
	return &handler{l: l, uc: uc}
}
