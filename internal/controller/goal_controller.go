package controller

import (
	"strconv"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
	Clock       util.Clock
}

func NewGoalController(goalService *service.GoalService, clock util.Clock) *GoalController {
	return &GoalController{GoalService: goalService, Clock: clock}
}

// @Summary List goals
// @Description Own goals with current progress
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param metric_type query int false "Metric type ID"
// @Param goal_type query string false "DAILY, WEEKLY or MONTHLY"
// @Param is_active query bool false "Active flag"
// @Param ordering query string false "created_at, target_value, prefix - for descending"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/goals [get]
func (c *GoalController) List(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	metricTypeID, ok := queryUint(ctx, "metric_type")
	if !ok {
		return
	}

	page := pageParams(ctx)
	filter := repository.GoalFilter{
		MetricTypeID: metricTypeID,
		GoalType:     model.GoalType(ctx.Query("goal_type")),
		Ordering:     ctx.Query("ordering"),
		Page:         page,
	}
	if filter.GoalType != "" && !filter.GoalType.Valid() {
		util.ValidationFailed(ctx, util.NewValidationError("goal_type", "Select a valid choice."))
		return
	}
	if raw := ctx.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			util.ValidationFailed(ctx, util.NewValidationError("is_active", "Must be a valid boolean."))
			return
		}
		filter.IsActive = &active
	}

	goals, total, err := c.GoalService.List(ctx.Request.Context(), owner, filter, c.Clock.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, pageResponse(goals, total, page))
}

// @Summary Create goal
// @Description At most one active goal per metric type and goal type
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param goal body service.GoalRequest true "Goal"
// @Success 201 {object} util.Response{data=service.GoalView}
// @Failure 400 {object} util.Response
// @Router /api/v1/goals [post]
func (c *GoalController) Create(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	var req service.GoalRequest
	if !bindJSON(ctx, &req) {
		return
	}
	goal, err := c.GoalService.Create(ctx.Request.Context(), owner, req, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, goal)
}

// @Summary Get goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} util.Response{data=service.GoalView}
// @Failure 404 {object} util.Response
// @Router /api/v1/goals/{id} [get]
func (c *GoalController) Get(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	goal, err := c.GoalService.Get(ctx.Request.Context(), owner, id, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// @Summary Update goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param goal body service.GoalRequest true "Goal"
// @Success 200 {object} util.Response{data=service.GoalView}
// @Router /api/v1/goals/{id} [put]
func (c *GoalController) Update(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.GoalRequest
	if !bindJSON(ctx, &req) {
		return
	}
	goal, err := c.GoalService.Update(ctx.Request.Context(), owner, id, req, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// @Summary Deactivate goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 200 {object} util.Response{data=service.GoalView}
// @Router /api/v1/goals/{id}/deactivate [post]
func (c *GoalController) Deactivate(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	goal, err := c.GoalService.Deactivate(ctx.Request.Context(), owner, id, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// @Summary Active goals
// @Description Active goals that have not ended, with progress
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.GoalView}
// @Router /api/v1/goals/active [get]
func (c *GoalController) Active(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	goals, err := c.GoalService.Active(ctx.Request.Context(), owner, c.Clock.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goals)
}
