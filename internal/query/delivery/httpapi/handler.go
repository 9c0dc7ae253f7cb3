package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"datachat/internal/agent"
	"datachat/internal/query"
	pkgResponse "datachat/pkg/response"
)

// QueryRequest is the inbound payload for /query and /stream.
type QueryRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the terminal payload of one turn.
type QueryResponse struct {
	Status   string `json:"status"`
	Question string `json:"question"`
	Results  string `json:"results,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Query answers a natural language question against the database.
// @Summary Ask a question
// @Description Answer a natural-language question about the database within a session
// @Tags Query
// @Accept json
// @Produce json
// @Param request body QueryRequest true "Question and optional session id"
// @Success 200 {object} QueryResponse
// @Router /query [post]
func (h *handler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Errorf(ctx, "httpapi: failed to parse query request: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	out := h.uc.Ask(ctx, query.AskInput{
		Question:  req.Question,
		SessionID: req.SessionID,
	})

	c.JSON(http.StatusOK, QueryResponse{
		Status:   string(out.Status),
		Question: out.Question,
		Results:  out.Results,
		Error:    out.Error,
	})
}

// Stream feeds graph execution events for a single-shot run.
// @Summary Stream a question
// @Description Live feed of orchestration events for a sessionless run
// @Tags Query
// @Accept json
// @Produce text/event-stream
// @Param request body QueryRequest true "Question"
// @Success 200 {string} string "event stream"
// @Router /stream [post]
func (h *handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Errorf(ctx, "httpapi: failed to parse stream request: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	events, err := h.uc.Stream(ctx, req.Question)
	if err != nil {
		pkgResponse.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent("", ev)
		return true
	})
}

// ReadSession returns a session's stored history.
// @Summary Read session history
// @Tags Session
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} pkgResponse.Resp
// @Failure 404 {object} pkgResponse.Resp
// @Router /sessions/{id} [get]
func (h *handler) ReadSession(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	history, err := h.uc.ReadSession(ctx, id)
	if err != nil {
		if errors.Is(err, agent.ErrSessionNotFound) {
			pkgResponse.NotFound(c, err)
			return
		}
		pkgResponse.Error(c, err)
		return
	}

	pkgResponse.OK(c, gin.H{"session_id": id, "history": history})
}

// ClearSession removes a session's stored history.
// @Summary Clear a session
// @Tags Session
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} pkgResponse.Resp
// @Failure 404 {object} pkgResponse.Resp
// @Router /sessions/{id} [delete]
func (h *handler) ClearSession(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.uc.ClearSession(ctx, id); err != nil {
		if errors.Is(err, agent.ErrSessionNotFound) {
			pkgResponse.NotFound(c, err)
			return
		}
		pkgResponse.Error(c, err)
		return
	}

	pkgResponse.OKMessage(c, "session "+id+" cleared")
}
