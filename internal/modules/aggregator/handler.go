package aggregator

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quoteme/internal/pkg/ai"
	"quoteme/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/projects/:id/aggregate", h.aggregate)
}

func (h *Handler) aggregate(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid project id")
		return
	}

	result, err := h.svc.Aggregate(c.Request.Context(), projectID)
	if err != nil {
		var inactive *InactiveProvidersError
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Project not found")
		case errors.As(err, &inactive):
			response.ErrorWithDetails(c, http.StatusBadRequest, "PROVIDER_INACTIVE",
				"No longer active: "+strings.Join(inactive.Names(), ", "),
				gin.H{"provider_ids": inactive.IDs(), "providers": inactive.Providers})
		case errors.Is(err, ai.ErrTransient):
			response.Error(c, http.StatusServiceUnavailable, "SUMMARY_UNAVAILABLE",
				"Summary generation failed, retry shortly")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}
