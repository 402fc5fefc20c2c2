package provider

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	jwtsvc "quoteme/internal/pkg/jwt"
	"quoteme/internal/pkg/response"
)

type Handler struct {
	svc *Service
	jwt *jwtsvc.Service
}

func NewHandler(svc *Service, jwt *jwtsvc.Service) *Handler {
	return &Handler{svc: svc, jwt: jwt}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.POST("/sp/register", h.register)
	r.GET("/sp/profile", auth, h.getProfile)
	r.PUT("/sp/profile", auth, h.updateProfile)

	// Review events arrive from the reviews pipeline, not from the
	// provider, so this route sits outside provider auth.
	r.POST("/sp/:id/rating", h.rate)

	r.GET("/providers/:id", h.getPublicProfile)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	provider, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.jwt.GenerateToken(provider.ID, "provider")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"provider": provider,
		"token":    token,
	})
}

func (h *Handler) getProfile(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	provider, err := h.svc.GetProfile(c.Request.Context(), providerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, provider)
}

func (h *Handler) getPublicProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid provider id")
		return
	}

	provider, err := h.svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, provider)
}

func (h *Handler) updateProfile(c *gin.Context) {
	providerID := c.GetInt64("provider_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	provider, err := h.svc.UpdateProfile(c.Request.Context(), providerID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, provider)
}

func (h *Handler) rate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid provider id")
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	provider, err := h.svc.Rate(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, provider)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider not found")
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "A provider with this email already exists")
	case errors.Is(err, ErrInvalidProfile), errors.Is(err, ErrUnknownTrade):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
