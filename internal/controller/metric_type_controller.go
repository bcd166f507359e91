package controller

import (
	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MetricTypeController struct {
	MetricTypeService *service.MetricTypeService
}

func NewMetricTypeController(metricTypeService *service.MetricTypeService) *MetricTypeController {
	return &MetricTypeController{MetricTypeService: metricTypeService}
}

func isAdmin(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && claims.Role == model.RoleAdmin
}

// @Summary List metric types
// @Description Active metric types. Admins may pass include_inactive=true.
// @Tags metric-types
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match name or description"
// @Param ordering query string false "name, created_at, prefix - for descending"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/metric-types [get]
func (c *MetricTypeController) List(ctx *gin.Context) {
	page := pageParams(ctx)
	types, total, err := c.MetricTypeService.List(ctx.Request.Context(), repository.MetricTypeFilter{
		IncludeInactive: isAdmin(ctx) && ctx.Query("include_inactive") == "true",
		Search:          ctx.Query("search"),
		Ordering:        ctx.Query("ordering"),
		Page:            page,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, pageResponse(types, total, page))
}

// @Summary Get metric type
// @Tags metric-types
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metric type ID"
// @Success 200 {object} util.Response{data=model.MetricType}
// @Failure 404 {object} util.Response
// @Router /api/v1/metric-types/{id} [get]
func (c *MetricTypeController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	mt, err := c.MetricTypeService.Get(ctx.Request.Context(), id, isAdmin(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, mt)
}

// @Summary Create metric type
// @Tags metric-types
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param metric_type body service.MetricTypeRequest true "Metric type"
// @Success 201 {object} util.Response{data=model.MetricType}
// @Failure 403 {object} util.Response
// @Router /api/v1/metric-types [post]
func (c *MetricTypeController) Create(ctx *gin.Context) {
	var req service.MetricTypeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	mt, err := c.MetricTypeService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, mt)
}

// @Summary Update metric type
// @Tags metric-types
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metric type ID"
// @Param metric_type body service.MetricTypeRequest true "Metric type"
// @Success 200 {object} util.Response{data=model.MetricType}
// @Router /api/v1/metric-types/{id} [put]
func (c *MetricTypeController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.MetricTypeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	mt, err := c.MetricTypeService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, mt)
}

// @Summary Delete metric type
// @Description Refused with 409 while observations or goals reference it
// @Tags metric-types
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metric type ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/metric-types/{id} [delete]
func (c *MetricTypeController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.MetricTypeService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
