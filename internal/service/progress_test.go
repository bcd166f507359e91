package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	day   time.Time
	value float64
}

// fakeHistory aggregates an in-memory list of one user's observations.
type fakeHistory struct {
	values []observation
	err    error

	gotStart, gotEnd time.Time
	gotMode          repository.AggregationMode
}

func (f *fakeHistory) AggregateValues(_ context.Context, _, _ uint, start, end time.Time, mode repository.AggregationMode) (float64, error) {
	f.gotStart, f.gotEnd, f.gotMode = start, end, mode
	if f.err != nil {
		return 0, f.err
	}
	var sum float64
	var n int
	for _, o := range f.values {
		if o.day.Before(start) || o.day.After(end) {
			continue
		}
		sum += o.value
		n++
	}
	if mode == repository.AggregateAverage {
		if n == 0 {
			return 0, nil
		}
		return sum / float64(n), nil
	}
	return sum, nil
}

func mustDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProgressWindow(t *testing.T) {
	wed := mustDay("2024-01-17")

	start, end := ProgressWindow(model.GoalDaily, wed)
	assert.Equal(t, wed, start)
	assert.Equal(t, wed, end)

	start, end = ProgressWindow(model.GoalWeekly, wed)
	assert.Equal(t, mustDay("2024-01-15"), start)
	assert.Equal(t, wed, end)

	start, end = ProgressWindow(model.GoalMonthly, wed)
	assert.Equal(t, mustDay("2024-01-01"), start)
	assert.Equal(t, wed, end)
}

func TestProgressPercentage(t *testing.T) {
	cases := []struct {
		name            string
		current, target float64
		want            float64
	}{
		{"partial", 8000, 10000, 80},
		{"clamped", 12000, 10000, 100},
		{"zero target", 50, 0, 0},
		{"negative target", 50, -5, 0},
		{"nothing recorded", 0, 8, 0},
		{"rounded to one decimal", 1, 3, 33.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ProgressPercentage(tc.current, tc.target))
		})
	}
}

func TestCalculateProgressSumsDailyGoals(t *testing.T) {
	today := mustDay("2024-01-17")
	history := &fakeHistory{values: []observation{
		{mustDay("2024-01-16"), 9000},
		{today, 8000},
	}}
	goal := &model.Goal{GoalType: model.GoalDaily, TargetValue: 10000, Direction: model.DirectionIncrease}

	p, err := CalculateProgress(context.Background(), history, goal, today)
	require.NoError(t, err)

	assert.Equal(t, repository.AggregateSum, history.gotMode)
	assert.Equal(t, 8000.0, p.CurrentValue)
	assert.Equal(t, 10000.0, p.TargetValue)
	assert.Equal(t, 80.0, p.Percentage)
	assert.Equal(t, "2024-01-17", p.PeriodStart)
	assert.Equal(t, "2024-01-17", p.PeriodEnd)
	assert.True(t, p.OnTrack())
}

func TestCalculateProgressAveragesWeeklyGoals(t *testing.T) {
	today := mustDay("2024-01-17")
	history := &fakeHistory{values: []observation{
		{mustDay("2024-01-14"), 100}, // previous week
		{mustDay("2024-01-15"), 3},
		{mustDay("2024-01-16"), 5},
	}}
	goal := &model.Goal{GoalType: model.GoalWeekly, TargetValue: 8}

	p, err := CalculateProgress(context.Background(), history, goal, today)
	require.NoError(t, err)

	assert.Equal(t, repository.AggregateAverage, history.gotMode)
	assert.Equal(t, mustDay("2024-01-15"), history.gotStart)
	assert.Equal(t, 4.0, p.CurrentValue)
	assert.Equal(t, 50.0, p.Percentage)
	assert.True(t, p.OnTrack(), "exactly half counts as on track")
}

func TestCalculateProgressMonthlyUsesFirstOfMonth(t *testing.T) {
	today := mustDay("2024-02-10")
	history := &fakeHistory{values: []observation{
		{mustDay("2024-01-31"), 1},
		{mustDay("2024-02-01"), 7},
		{mustDay("2024-02-09"), 8},
	}}
	goal := &model.Goal{GoalType: model.GoalMonthly, TargetValue: 8}

	p, err := CalculateProgress(context.Background(), history, goal, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", p.PeriodStart)
	assert.Equal(t, 7.5, p.CurrentValue)
	assert.Equal(t, 93.8, p.Percentage)
}

func TestCalculateProgressIgnoresDirection(t *testing.T) {
	today := mustDay("2024-01-17")
	history := &fakeHistory{values: []observation{{today, 90}}}
	goal := &model.Goal{GoalType: model.GoalDaily, TargetValue: 70, Direction: model.DirectionDecrease}

	p, err := CalculateProgress(context.Background(), history, goal, today)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Percentage)
}

func TestCalculateProgressWithoutObservations(t *testing.T) {
	today := mustDay("2024-01-17")
	goal := &model.Goal{GoalType: model.GoalWeekly, TargetValue: 8}

	p, err := CalculateProgress(context.Background(), &fakeHistory{}, goal, today)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.CurrentValue)
	assert.Equal(t, 0.0, p.Percentage)
	assert.False(t, p.OnTrack())
}

func TestCalculateProgressPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	goal := &model.Goal{GoalType: model.GoalDaily, TargetValue: 1}

	_, err := CalculateProgress(context.Background(), &fakeHistory{err: boom}, goal, mustDay("2024-01-17"))
	assert.ErrorIs(t, err, boom)
}

func TestCalculateProgressRoundsDisplayedValueOnly(t *testing.T) {
	today := mustDay("2024-01-17")
	history := &fakeHistory{values: []observation{
		{mustDay("2024-01-15"), 1},
		{mustDay("2024-01-16"), 1},
		{today, 2},
	}}
	goal := &model.Goal{GoalType: model.GoalWeekly, TargetValue: 4}

	p, err := CalculateProgress(context.Background(), history, goal, today)
	require.NoError(t, err)
	assert.Equal(t, 1.33, p.CurrentValue)
	assert.Equal(t, 33.3, p.Percentage)
}

func TestSumVersusAverageOverSameValues(t *testing.T) {
	today := mustDay("2024-01-17")
	values := []observation{{today, 3}, {today, 5}}

	daily, err := CalculateProgress(context.Background(), &fakeHistory{values: values}, &model.Goal{GoalType: model.GoalDaily, TargetValue: 10}, today)
	require.NoError(t, err)
	assert.Equal(t, 8.0, daily.CurrentValue)

	for _, period := range []model.GoalType{model.GoalWeekly, model.GoalMonthly} {
		p, err := CalculateProgress(context.Background(), &fakeHistory{values: values}, &model.Goal{GoalType: period, TargetValue: 10}, today)
		require.NoError(t, err)
		assert.Equal(t, 4.0, p.CurrentValue, period)
	}
}
