package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
	authmw "github.com/gravadigital/campus-events-api/internal/middleware/auth"
	"github.com/gravadigital/campus-events-api/internal/response"
	"github.com/gravadigital/campus-events-api/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Provision handles POST /api/auth/profile
func (h *ProfileHandler) Provision(c *gin.Context) {
	id, ok := authmw.CurrentIdentity(c)
	if !ok {
		response.FromError(c, common.ErrUnauthorized)
		return
	}

	p, created, err := h.profiles.Provision(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if created {
		response.SuccessResponse(c, http.StatusCreated, "Profile created", p)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Profile already exists", p)
}

// GetMe handles GET /api/me/profile
func (h *ProfileHandler) GetMe(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", p)
}

// UpdateMe handles PUT /api/me/profile
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), p.ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Profile updated", updated)
}

// Dashboard handles GET /api/me/participations
func (h *ProfileHandler) Dashboard(c *gin.Context) {
	p, ok := caller(c)
	if !ok {
		return
	}

	list, err := h.profiles.Dashboard(c.Request.Context(), p.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"participations": list,
		"count":          len(list),
	})
}
