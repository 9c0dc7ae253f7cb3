package whatsapp

import (
	"strings"

	"github.com/gin-gonic/gin"

	"datachat/internal/query"
	pkgResponse "datachat/pkg/response"
)

const (
	replyNoQuestion = "❌ Please send a question about the data."
	replyNoAnswer   = "❌ Sorry, I couldn't find an answer to your question."
)

// HandleWebhook processes an inbound Twilio WhatsApp message. The request
// is rejected before any graph run when the signature does not verify.
// Twilio expects the reply inside the HTTP response, so the turn runs
// synchronously within the webhook deadline.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "whatsapp handler: IP check failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		h.l.Errorf(ctx, "whatsapp handler: failed to parse form: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	signature := c.GetHeader("X-Twilio-Signature")
	if err := h.security.ValidateTwilioSignature(h.requestURL(c), c.Request.PostForm, signature); err != nil {
		h.l.Warnf(ctx, "whatsapp handler: signature verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	sender := c.Request.PostForm.Get("From")
	body := strings.TrimSpace(c.Request.PostForm.Get("Body"))

	if err := h.security.CheckRateLimit(sender); err != nil {
		h.l.Warnf(ctx, "whatsapp handler: rate limit exceeded for %s", sender)
		pkgResponse.TooManyRequests(c)
		return
	}

	h.l.Infof(ctx, "whatsapp handler: received message from %s", sender)

	if body == "" {
		writeTwiML(c, replyNoQuestion)
		return
	}

	out := h.uc.Ask(ctx, query.AskInput{
		Question:  body,
		SessionID: sessionID(sender),
	})

	writeTwiML(c, formatReply(out))
}

// requestURL reconstructs the URL Twilio signed. The configured public
// URL wins when set, since the service usually sits behind a proxy.
func (h *handler) requestURL(c *gin.Context) string {
	if u := h.security.PublicURL(); u != "" {
		return u
	}
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

// sessionID keys conversation history by sender identity so each
// WhatsApp contact gets an isolated session.
func sessionID(sender string) string {
	if sender == "" {
		return "whatsapp"
	}
	return "whatsapp_" + sender
}

func formatReply(out query.AskOutput) string {
	if out.Status != query.StatusSuccess {
		if out.Error != "" {
			return "❌ Error processing your query: " + out.Error
		}
		return replyNoAnswer
	}
	if out.Results == "" {
		return replyNoAnswer
	}
	return "📊 *Results*\n\n" + out.Results
}
