package controller

import (
	"context"
	"time"

	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthMetricController struct {
	HealthMetricService *service.HealthMetricService
	ExportService       *service.ExportService
	Clock               util.Clock
}

func NewHealthMetricController(healthMetricService *service.HealthMetricService, exportService *service.ExportService, clock util.Clock) *HealthMetricController {
	return &HealthMetricController{
		HealthMetricService: healthMetricService,
		ExportService:       exportService,
		Clock:               clock,
	}
}

// @Summary List observations
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param metric_type query int false "Metric type ID"
// @Param recorded_date query string false "YYYY-MM-DD"
// @Param search query string false "Match notes"
// @Param ordering query string false "recorded_date, value, created_at, prefix - for descending"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/metrics [get]
func (c *HealthMetricController) List(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	metricTypeID, ok := queryUint(ctx, "metric_type")
	if !ok {
		return
	}

	page := pageParams(ctx)
	filter := repository.HealthMetricFilter{
		MetricTypeID: metricTypeID,
		Search:       ctx.Query("search"),
		Ordering:     ctx.Query("ordering"),
		Page:         page,
	}
	if raw := ctx.Query("recorded_date"); raw != "" {
		day, err := util.ParseDate(raw)
		if err != nil {
			util.ValidationFailed(ctx, util.NewValidationError("recorded_date", "Enter a valid date."))
			return
		}
		filter.RecordedDate = &day
	}

	metrics, total, err := c.HealthMetricService.List(ctx.Request.Context(), owner, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, pageResponse(metrics, total, page))
}

// @Summary Record observation
// @Description One observation per metric type per day
// @Tags metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param metric body service.CreateHealthMetricRequest true "Observation"
// @Success 201 {object} util.Response{data=service.HealthMetricView}
// @Failure 400 {object} util.Response
// @Router /api/v1/metrics [post]
func (c *HealthMetricController) Create(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	var req service.CreateHealthMetricRequest
	if !bindJSON(ctx, &req) {
		return
	}

	m, err := c.HealthMetricService.Record(ctx.Request.Context(), owner, req, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// @Summary Get observation
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Success 200 {object} util.Response{data=service.HealthMetricView}
// @Failure 404 {object} util.Response
// @Router /api/v1/metrics/{id} [get]
func (c *HealthMetricController) Get(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	m, err := c.HealthMetricService.Get(ctx.Request.Context(), owner, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary Update observation
// @Description Only value and notes may change
// @Tags metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Param metric body service.UpdateHealthMetricRequest true "Observation"
// @Success 200 {object} util.Response{data=service.HealthMetricView}
// @Router /api/v1/metrics/{id} [put]
func (c *HealthMetricController) Update(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.UpdateHealthMetricRequest
	if !bindJSON(ctx, &req) {
		return
	}
	m, err := c.HealthMetricService.Update(ctx.Request.Context(), owner, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// @Summary Delete observation
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Success 200 {object} util.Response
// @Router /api/v1/metrics/{id} [delete]
func (c *HealthMetricController) Delete(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.HealthMetricService.Delete(ctx.Request.Context(), owner, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary Summary statistics
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days to include (default 7)"
// @Param metric_type query int false "Metric type ID"
// @Success 200 {object} util.Response{data=service.MetricSummaryResult}
// @Router /api/v1/metrics/summary [get]
func (c *HealthMetricController) Summary(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	metricTypeID, ok := queryUint(ctx, "metric_type")
	if !ok {
		return
	}
	days := util.ParseIntDefault(ctx.Query("days"), util.DefaultSummaryDays)

	summary, err := c.HealthMetricService.Summary(ctx.Request.Context(), owner.ID, days, metricTypeID, c.Clock.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary Daily trend
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param metric_type query int true "Metric type ID"
// @Param days query int false "Days to include (default 30)"
// @Success 200 {object} util.Response{data=service.TrendResult}
// @Failure 400 {object} util.Response
// @Router /api/v1/metrics/trends [get]
func (c *HealthMetricController) Trends(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	metricTypeID, ok := queryUint(ctx, "metric_type")
	if !ok {
		return
	}
	if metricTypeID == 0 {
		util.BadRequest(ctx, "metric_type parameter is required")
		return
	}
	days := util.ParseIntDefault(ctx.Query("days"), util.DefaultTrendDays)

	trend, err := c.HealthMetricService.Trends(ctx.Request.Context(), owner.ID, metricTypeID, days, c.Clock.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trend)
}

// @Summary Export observations
// @Description Write a CSV or XLSX file to object storage
// @Tags metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param export body service.ExportRequest false "Window and format"
// @Success 201 {object} util.Response{data=service.ExportResult}
// @Router /api/v1/metrics/export [post]
func (c *HealthMetricController) Export(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	var req service.ExportRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}

	exportCtx, cancel := context.WithTimeout(ctx.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := c.ExportService.Export(exportCtx, owner.ID, req, c.Clock.Today())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary Delete an export
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Param file path string true "Export file name, e.g. <uuid>.csv"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/metrics/export/{file} [delete]
func (c *HealthMetricController) DeleteExport(ctx *gin.Context) {
	owner, ok := currentOwner(ctx)
	if !ok {
		return
	}
	if err := c.ExportService.Delete(ctx.Request.Context(), owner.ID, ctx.Param("file")); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
