package whatsapp

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
)

// messagingResponse is the TwiML envelope Twilio expects back from a
// messaging webhook.
type messagingResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func writeTwiML(c *gin.Context, text string) {
	c.XML(http.StatusOK, messagingResponse{Message: text})
}
