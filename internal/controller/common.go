package controller

import (
	"errors"
	"net/http"
	"strconv"

	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope.
func respondError(ctx *gin.Context, err error) {
	if ve, ok := util.AsValidationError(err); ok {
		util.ValidationFailed(ctx, ve)
		return
	}
	switch {
	case errors.Is(err, util.ErrMetricTypeNotFound),
		errors.Is(err, util.ErrHealthMetricNotFound),
		errors.Is(err, util.ErrGoalNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrProfileNotFound),
		errors.Is(err, util.ErrExportNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidCredentials):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrMetricTypeInUse):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentOwner reads the authenticated user, answering 401 when absent.
func currentOwner(ctx *gin.Context) (service.Owner, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return service.Owner{}, false
	}
	return service.Owner{ID: claims.UserID, Username: claims.Username}, true
}

func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		util.NotFound(ctx)
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page and ?page_size, clamping the size.
func pageParams(ctx *gin.Context) repository.Page {
	page := util.ParseIntDefault(ctx.Query("page"), 1)
	size := util.ParseIntDefault(ctx.Query("page_size"), util.DefaultPageSize)
	if size > util.MaxPageSize {
		size = util.MaxPageSize
	}
	return repository.Page{Page: page, Limit: size}
}

func pageResponse(list interface{}, total int64, p repository.Page) util.PageResponse {
	return util.PageResponse{List: list, Total: total, Page: p.Page, Limit: p.Limit}
}

// queryUint parses an optional numeric filter. Malformed values answer 400.
func queryUint(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		util.ValidationFailed(ctx, util.NewValidationError(name, "A valid integer is required."))
		return 0, false
	}
	return uint(n), true
}

func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
