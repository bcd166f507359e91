package mcp

import (
	"context"
	"fmt"

	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metric_types",
		Description: "List the active metric types that observations can be recorded for",
	}, s.handleListMetricTypes)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_metric",
		Description: "Record one observation for a day (at most one per metric type and date)",
	}, s.handleLogMetric)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List recent observations, newest first, optionally for one metric type",
	}, s.handleListMetrics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "goal_progress",
		Description: "Show progress for every active, unexpired goal",
	}, s.handleGoalProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dashboard",
		Description: "Totals, this week's activity, recent observations and goal progress",
	}, s.handleDashboard)
}

type emptyInput struct{}

type metricTypeOutput struct {
	Name        string   `json:"name"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	MinValue    *float64 `json:"min_value,omitempty"`
	MaxValue    *float64 `json:"max_value,omitempty"`
}

type metricTypesOutput struct {
	MetricTypes []metricTypeOutput `json:"metric_types"`
}

type logMetricInput struct {
	MetricType   string  `json:"metric_type" jsonschema:"name of the metric type, e.g. steps"`
	Value        float64 `json:"value" jsonschema:"the observed value"`
	RecordedDate string  `json:"recorded_date,omitempty" jsonschema:"day of the observation as YYYY-MM-DD, defaults to today"`
	Notes        string  `json:"notes,omitempty" jsonschema:"optional notes"`
}

// Tool outputs are flat copies of the service views. Timestamps are left out
// so the inferred output schemas only contain plain JSON types.

type metricOutput struct {
	ID           uint    `json:"id"`
	MetricType   string  `json:"metric_type"`
	Unit         string  `json:"unit"`
	Value        float64 `json:"value"`
	RecordedDate string  `json:"recorded_date"`
	Notes        string  `json:"notes,omitempty"`
}

type goalOutput struct {
	ID           uint    `json:"id"`
	MetricType   string  `json:"metric_type"`
	GoalType     string  `json:"goal_type"`
	Direction    string  `json:"direction"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	Percentage   float64 `json:"percentage"`
	OnTrack      bool    `json:"on_track"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
}

type logMetricOutput struct {
	Metric  metricOutput `json:"metric"`
	Message string       `json:"message"`
}

type listMetricsInput struct {
	MetricType string `json:"metric_type,omitempty" jsonschema:"only list this metric type"`
	Limit      int    `json:"limit,omitempty" jsonschema:"max results, default 20"`
}

type listMetricsOutput struct {
	Metrics []metricOutput `json:"metrics"`
	Total   int64          `json:"total"`
}

type goalProgressOutput struct {
	Goals []goalOutput `json:"goals"`
}

type dashboardOutput struct {
	TotalMetricsLogged int64          `json:"total_metrics_logged"`
	ActiveGoals        int            `json:"active_goals"`
	MetricsThisWeek    int64          `json:"metrics_this_week"`
	GoalsOnTrack       int            `json:"goals_on_track"`
	RecentMetrics      []metricOutput `json:"recent_metrics"`
	GoalProgress       []goalOutput   `json:"goal_progress"`
}

func toMetricOutput(v service.HealthMetricView) metricOutput {
	return metricOutput{
		ID:           v.ID,
		MetricType:   v.MetricType.Name,
		Unit:         v.MetricType.Unit,
		Value:        v.Value,
		RecordedDate: v.RecordedDate,
		Notes:        v.Notes,
	}
}

func toMetricOutputs(views []service.HealthMetricView) []metricOutput {
	out := make([]metricOutput, 0, len(views))
	for _, v := range views {
		out = append(out, toMetricOutput(v))
	}
	return out
}

func toGoalOutputs(views []service.GoalView) []goalOutput {
	out := make([]goalOutput, 0, len(views))
	for _, v := range views {
		out = append(out, goalOutput{
			ID:           v.ID,
			MetricType:   v.MetricType.Name,
			GoalType:     string(v.GoalType),
			Direction:    string(v.Direction),
			TargetValue:  v.TargetValue,
			CurrentValue: v.Progress.CurrentValue,
			Percentage:   v.Progress.Percentage,
			OnTrack:      v.Progress.OnTrack(),
			PeriodStart:  v.Progress.PeriodStart,
			PeriodEnd:    v.Progress.PeriodEnd,
		})
	}
	return out
}

// toolError turns validation failures into readable tool errors.
func toolError(action string, err error) error {
	if ve, ok := util.AsValidationError(err); ok {
		return fmt.Errorf("%s: %s", action, ve.Message)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (s *Server) handleListMetricTypes(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, metricTypesOutput, error) {
	types, _, err := s.svc.MetricType.List(ctx, repository.MetricTypeFilter{Ordering: "name"})
	if err != nil {
		return nil, metricTypesOutput{}, toolError("failed to list metric types", err)
	}

	out := metricTypesOutput{MetricTypes: make([]metricTypeOutput, 0, len(types))}
	for _, mt := range types {
		out.MetricTypes = append(out.MetricTypes, metricTypeOutput{
			Name:        mt.Name,
			Unit:        mt.Unit,
			Description: mt.Description,
			MinValue:    mt.MinValue,
			MaxValue:    mt.MaxValue,
		})
	}
	return nil, out, nil
}

func (s *Server) handleLogMetric(ctx context.Context, req *mcp.CallToolRequest, input logMetricInput) (*mcp.CallToolResult, logMetricOutput, error) {
	mt, err := s.svc.MetricType.GetActiveByName(ctx, input.MetricType)
	if err != nil {
		return nil, logMetricOutput{}, toolError("unknown metric type "+input.MetricType, err)
	}

	value := input.Value
	view, err := s.svc.HealthMetric.Record(ctx, s.owner, service.CreateHealthMetricRequest{
		MetricTypeID: mt.ID,
		Value:        &value,
		RecordedDate: input.RecordedDate,
		Notes:        input.Notes,
	}, s.clock.Today())
	if err != nil {
		return nil, logMetricOutput{}, toolError("failed to record metric", err)
	}

	return nil, logMetricOutput{
		Metric:  toMetricOutput(*view),
		Message: fmt.Sprintf("Recorded %s: %.2f %s on %s", mt.Name, view.Value, mt.Unit, view.RecordedDate),
	}, nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, listMetricsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > util.MaxPageSize {
		limit = util.MaxPageSize
	}

	filter := repository.HealthMetricFilter{Page: repository.Page{Page: 1, Limit: limit}}
	if input.MetricType != "" {
		mt, err := s.svc.MetricType.GetActiveByName(ctx, input.MetricType)
		if err != nil {
			return nil, listMetricsOutput{}, toolError("unknown metric type "+input.MetricType, err)
		}
		filter.MetricTypeID = mt.ID
	}

	metrics, total, err := s.svc.HealthMetric.List(ctx, s.owner, filter)
	if err != nil {
		return nil, listMetricsOutput{}, toolError("failed to list metrics", err)
	}
	return nil, listMetricsOutput{Metrics: toMetricOutputs(metrics), Total: total}, nil
}

func (s *Server) handleGoalProgress(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, goalProgressOutput, error) {
	goals, err := s.svc.Goal.Active(ctx, s.owner, s.clock.Today())
	if err != nil {
		return nil, goalProgressOutput{}, toolError("failed to load goals", err)
	}
	return nil, goalProgressOutput{Goals: toGoalOutputs(goals)}, nil
}

func (s *Server) handleDashboard(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, dashboardOutput, error) {
	dash, err := s.svc.Dashboard.GetDashboard(ctx, s.owner, s.clock.Today())
	if err != nil {
		return nil, dashboardOutput{}, toolError("failed to build dashboard", err)
	}
	return nil, dashboardOutput{
		TotalMetricsLogged: dash.TotalMetricsLogged,
		ActiveGoals:        dash.ActiveGoals,
		MetricsThisWeek:    dash.MetricsThisWeek,
		GoalsOnTrack:       dash.GoalsOnTrack,
		RecentMetrics:      toMetricOutputs(dash.RecentMetrics),
		GoalProgress:       toGoalOutputs(dash.GoalProgress),
	}, nil
}
