package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{
		Status: StatusSuccess,
		Data:   data,
	})
}

// OKMessage sends 200 JSON with a human-readable message.
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Resp{
		Status:  StatusSuccess,
		Message: message,
	})
}

// Error sends a 400 error response with the cause string.
func Error(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Resp{
		Status:  StatusError,
		Message: err.Error(),
	})
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, Resp{
		Status:  StatusError,
		Message: err.Error(),
	})
}

// InternalError sends 500 with a generic message, hiding the cause.
func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Resp{
		Status:  StatusError,
		Message: "internal server error",
	})
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Resp{
		Status:  StatusError,
		Message: "unauthorized",
	})
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Resp{
		Status:  StatusError,
		Message: "rate limit exceeded",
	})
}
