package controller

import (
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	Clock            util.Clock
}

func NewDashboardController(dashboardService *service.DashboardService, clock util.Clock) *DashboardController {
	return &DashboardController{DashboardService: dashboardService, Clock: clock}
}

// @Summary Dashboard
// @Description Counts, goals on track, recent observations and per-goal progress
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/v1/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context(), owner, c.Clock.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
