package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
)

// Handler wires the HTTP transport to the assistant service.
type Handler struct {
	svc    faq.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc faq.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// PostMessage answers a chat message. Dispatch never fails, so every
// well-formed request gets a 200 with the response envelope.
func (h *Handler) PostMessage(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp := h.svc.ProcessMessage(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}

// Popular returns the most frequently asked questions.
func (h *Handler) Popular(c *gin.Context) {
	items, err := h.svc.Popular(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError("popular_failed", err))
		return
	}
	if items == nil {
		items = []faq.TrendingQuery{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

// Health reports liveness and the number of loaded FAQ entries.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "faqEntries": h.svc.CorpusSize()})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
