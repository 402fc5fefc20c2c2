package quotes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quoteme/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.POST("/quotes", auth, h.submitQuote)
	r.GET("/sp/quotes", auth, h.listMyQuotes)

	r.GET("/projects/:id/quotes", h.listProjectQuotes)
	r.POST("/projects/:id/quotes/:quoteId/select", h.selectQuote)
}

func (h *Handler) submitQuote(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	var req SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	quote, err := h.svc.SubmitQuote(c.Request.Context(), providerID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, quote)
}

func (h *Handler) selectQuote(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid project id")
		return
	}
	quoteID, err := strconv.ParseInt(c.Param("quoteId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid quote id")
		return
	}

	if err := h.svc.SelectQuote(c.Request.Context(), projectID, quoteID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"selected": true})
}

func (h *Handler) listProjectQuotes(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid project id")
		return
	}

	quotes, err := h.svc.ListProjectQuotes(c.Request.Context(), projectID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quotes)
}

func (h *Handler) listMyQuotes(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	quotes, err := h.svc.ListProviderQuotes(c.Request.Context(), providerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, quotes)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "ALREADY_QUOTED", "Provider has already quoted this project")
	case errors.Is(err, ErrProjectClosed):
		response.Error(c, http.StatusConflict, "PROJECT_CLOSED", "Project has already received its combined quote")
	case errors.Is(err, ErrInvalidQuote), errors.Is(err, ErrUnknownTrade):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
