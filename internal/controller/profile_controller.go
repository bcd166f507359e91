package controller

import (
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
	Clock          util.Clock
}

func NewProfileController(profileService *service.ProfileService, clock util.Clock) *ProfileController {
	return &ProfileController{ProfileService: profileService, Clock: clock}
}

// @Summary Get profile
// @Description Created with defaults on first access
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/v1/profile [get]
func (c *ProfileController) Get(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	profile, err := c.ProfileService.Get(ctx.Request.Context(), owner.ID, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body service.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/v1/profile [put]
func (c *ProfileController) Update(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	var req service.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}
	profile, err := c.ProfileService.Update(ctx.Request.Context(), owner.ID, req, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
