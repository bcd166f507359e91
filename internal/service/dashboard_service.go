package service

import (
	"context"
	"time"

	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"
	"health_metrics_backend/pkg/monitoring"
)

type DashboardService struct {
	MetricRepo  *repository.HealthMetricRepository
	GoalService *GoalService
}

func NewDashboardService(metricRepo *repository.HealthMetricRepository, goalService *GoalService) *DashboardService {
	return &DashboardService{
		MetricRepo:  metricRepo,
		GoalService: goalService,
	}
}

type Dashboard struct {
	TotalMetricsLogged int64              `json:"total_metrics_logged"`
	ActiveGoals        int                `json:"active_goals"`
	MetricsThisWeek    int64              `json:"metrics_this_week"`
	GoalsOnTrack       int                `json:"goals_on_track"`
	RecentMetrics      []HealthMetricView `json:"recent_metrics"`
	GoalProgress       []GoalView         `json:"goal_progress"`
}

// GetDashboard summarises one user's activity as of today. The sub-queries are
// independent reads; writes landing between them are tolerated.
func (s *DashboardService) GetDashboard(ctx context.Context, owner Owner, today time.Time) (*Dashboard, error) {
	today = util.DateOnly(today)
	monitoring.DashboardRequests.Inc()

	total, err := s.MetricRepo.CountByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	// The last 7 days, today included.
	thisWeek, err := s.MetricRepo.CountByUserBetween(ctx, owner.ID, today.AddDate(0, 0, -6), today)
	if err != nil {
		return nil, err
	}

	goals, err := s.GoalService.Active(ctx, owner, today)
	if err != nil {
		return nil, err
	}
	onTrack := 0
	for _, g := range goals {
		if g.Progress.OnTrack() {
			onTrack++
		}
	}

	recent, err := s.MetricRepo.FindRecentByUser(ctx, owner.ID, util.RecentMetricsLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalMetricsLogged: total,
		ActiveGoals:        len(goals),
		MetricsThisWeek:    thisWeek,
		GoalsOnTrack:       onTrack,
		RecentMetrics:      newHealthMetricViews(recent, owner.Username),
		GoalProgress:       goals,
	}, nil
}
