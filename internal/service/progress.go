package service

import (
	"context"
	"math"
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"
)

// MetricHistory is the read capability the progress calculator needs.
type MetricHistory interface {
	AggregateValues(ctx context.Context, userID, metricTypeID uint, start, end time.Time, mode repository.AggregationMode) (float64, error)
}

// GoalProgress is a goal's progress as of one day.
type GoalProgress struct {
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Percentage   float64 `json:"percentage"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
}

// OnTrack reports whether the goal has reached half of its target.
func (p GoalProgress) OnTrack() bool {
	return p.Percentage >= util.OnTrackThreshold
}

// ProgressWindow is the inclusive date range a goal of the given period is measured over.
func ProgressWindow(goalType model.GoalType, today time.Time) (start, end time.Time) {
	today = util.DateOnly(today)
	switch goalType {
	case model.GoalWeekly:
		return util.StartOfWeek(today), today
	case model.GoalMonthly:
		return util.StartOfMonth(today), today
	default:
		return today, today
	}
}

// AggregationFor sums daily goals and averages weekly and monthly ones.
func AggregationFor(goalType model.GoalType) repository.AggregationMode {
	if goalType == model.GoalWeekly || goalType == model.GoalMonthly {
		return repository.AggregateAverage
	}
	return repository.AggregateSum
}

// ProgressPercentage is current/target as a percentage capped at 100 and rounded
// to one decimal. A zero target yields 0. Goal direction is not taken into account.
func ProgressPercentage(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := math.Min(100, current/target*100)
	return math.Round(p*10) / 10
}

// CalculateProgress measures goal against history for the window containing today.
func CalculateProgress(ctx context.Context, history MetricHistory, goal *model.Goal, today time.Time) (GoalProgress, error) {
	start, end := ProgressWindow(goal.GoalType, today)
	current, err := history.AggregateValues(ctx, goal.UserID, goal.MetricTypeID, start, end, AggregationFor(goal.GoalType))
	if err != nil {
		return GoalProgress{}, err
	}
	return GoalProgress{
		CurrentValue: util.RoundTo(current, 2),
		TargetValue:  goal.TargetValue,
		Percentage:   ProgressPercentage(current, goal.TargetValue),
		PeriodStart:  util.FormatDate(start),
		PeriodEnd:    util.FormatDate(end),
	}, nil
}
