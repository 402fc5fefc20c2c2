package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quoteme/internal/pkg/response"
)

type Handler struct {
	svc *Service
	hub *Hub
	log *zap.Logger
}

func NewHandler(svc *Service, hub *Hub, log *zap.Logger) *Handler {
	return &Handler{svc: svc, hub: hub, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	sp := r.Group("/sp", auth)
	sp.GET("/notifications", h.getFeed)
	sp.GET("/notifications/ws", h.serveWS)
	sp.PATCH("/notifications/:id/read", h.markRead)
	sp.PATCH("/notifications/read-all", h.markAllRead)
}

func (h *Handler) getFeed(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	feed, err := h.svc.GetFeed(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
		return
	}
	response.Success(c, http.StatusOK, feed)
}

func (h *Handler) markRead(c *gin.Context) {
	providerID := c.GetInt64("provider_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid notification id")
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id, providerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

func (h *Handler) markAllRead(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	if err := h.svc.MarkAllRead(c.Request.Context(), providerID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// serveWS upgrades to a websocket and parks the connection in the hub
// until the client goes away. Reads are drained to keep control frames
// flowing; clients never send application data.
func (h *Handler) serveWS(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Register(providerID, conn)
	defer h.hub.Unregister(providerID)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
