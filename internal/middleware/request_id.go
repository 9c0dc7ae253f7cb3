package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"datachat/pkg/log"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, propagated through the
// context so log lines of one request correlate. An inbound header
// value is trusted and reused.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}
