package service

import (
	"context"
	"testing"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/testutil"
	"health_metrics_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalDefaults(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	today := testutil.Date(2024, 1, 15)

	g, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(10000)}, today)
	require.NoError(t, err)

	assert.Equal(t, model.GoalDaily, g.GoalType)
	assert.Equal(t, model.DirectionIncrease, g.Direction)
	assert.True(t, g.IsActive)
	assert.False(t, g.IsExpired)
	assert.Equal(t, "2024-01-15", g.StartDate)
	assert.Nil(t, g.EndDate)
	assert.Equal(t, "steps", g.MetricType.Name)
	assert.Equal(t, 0.0, g.Progress.Percentage)
}

func TestOnlyOneActiveGoalPerTypeAndPeriod(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	today := testutil.Date(2024, 1, 15)
	daily := GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(10000), GoalType: "DAILY"}

	first, err := s.goal.Create(ctx, ownerOf(alice), daily, today)
	require.NoError(t, err)

	_, err = s.goal.Create(ctx, ownerOf(alice), daily, today)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "non_field_errors", ve.Field)

	// a different period is a different slot
	weekly := daily
	weekly.GoalType = "WEEKLY"
	_, err = s.goal.Create(ctx, ownerOf(alice), weekly, today)
	require.NoError(t, err)

	// inactive goals never collide
	inactive := daily
	inactive.IsActive = new(bool)
	_, err = s.goal.Create(ctx, ownerOf(alice), inactive, today)
	require.NoError(t, err)
	_, err = s.goal.Create(ctx, ownerOf(alice), inactive, today)
	require.NoError(t, err)

	// once retired, the slot is free again
	_, err = s.goal.Deactivate(ctx, ownerOf(alice), first.ID, today)
	require.NoError(t, err)
	_, err = s.goal.Create(ctx, ownerOf(alice), daily, today)
	assert.NoError(t, err)
}

func TestStorageEnforcesActiveGoalUniqueness(t *testing.T) {
	s := newTestServices(t)
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	newGoal := func(active bool) *model.Goal {
		return &model.Goal{
			UserID: alice.ID, MetricTypeID: steps.ID, TargetValue: 1,
			GoalType: model.GoalDaily, Direction: model.DirectionIncrease,
			IsActive: active, StartDate: testutil.Date(2024, 1, 1),
		}
	}

	repo := repository.NewGoalRepository(s.db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newGoal(true)))
	assert.Error(t, repo.Create(ctx, newGoal(true)))
	require.NoError(t, repo.Create(ctx, newGoal(false)))
	require.NoError(t, repo.Create(ctx, newGoal(false)))
}

func TestGoalEndDateMustFollowStart(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)

	_, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{
		MetricTypeID: steps.ID,
		TargetValue:  f64(1),
		StartDate:    "2024-02-01",
		EndDate:      str("2024-01-31"),
	}, testutil.Date(2024, 1, 15))
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "end_date", ve.Field)
	assert.Equal(t, "End date must be after start date.", ve.Message)

	g, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{
		MetricTypeID: steps.ID,
		TargetValue:  f64(1),
		StartDate:    "2024-02-01",
		EndDate:      str("2024-02-01"),
	}, testutil.Date(2024, 1, 15))
	require.NoError(t, err, "a one-day goal is allowed")
	assert.Equal(t, "2024-02-01", *g.EndDate)
}

func TestUpdateGoalKeepsUniqueness(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	today := testutil.Date(2024, 1, 15)

	_, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(1), GoalType: "DAILY"}, today)
	require.NoError(t, err)
	weekly, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(1), GoalType: "WEEKLY"}, today)
	require.NoError(t, err)

	_, err = s.goal.Update(ctx, ownerOf(alice), weekly.ID, GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(2), GoalType: "DAILY"}, today)
	_, ok := util.AsValidationError(err)
	assert.True(t, ok)

	updated, err := s.goal.Update(ctx, ownerOf(alice), weekly.ID, GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(5000), GoalType: "WEEKLY"}, today)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, updated.TargetValue)
}

func TestGoalsAreOwnerScoped(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	bob := testutil.CreateUser(t, s.db, "bob")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	today := testutil.Date(2024, 1, 15)

	g, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(1)}, today)
	require.NoError(t, err)

	_, err = s.goal.Get(ctx, ownerOf(bob), g.ID, today)
	assert.ErrorIs(t, err, util.ErrGoalNotFound)
	_, err = s.goal.Deactivate(ctx, ownerOf(bob), g.ID, today)
	assert.ErrorIs(t, err, util.ErrGoalNotFound)
}

func TestActiveGoalsSkipExpiredAndInactive(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	water := testutil.CreateMetricType(t, s.db, "water_intake", "ml", nil, nil)
	sleep := testutil.CreateMetricType(t, s.db, "sleep_hours", "hours", nil, nil)
	today := testutil.Date(2024, 1, 15)

	_, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{MetricTypeID: steps.ID, TargetValue: f64(1)}, today)
	require.NoError(t, err)
	_, err = s.goal.Create(ctx, ownerOf(alice), GoalRequest{
		MetricTypeID: water.ID, TargetValue: f64(1),
		StartDate: "2024-01-01", EndDate: str("2024-01-14"),
	}, today)
	require.NoError(t, err)
	endsToday, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{
		MetricTypeID: sleep.ID, TargetValue: f64(1),
		StartDate: "2024-01-01", EndDate: str("2024-01-15"),
	}, today)
	require.NoError(t, err)
	assert.False(t, endsToday.IsExpired)

	active, err := s.goal.Active(ctx, ownerOf(alice), today)
	require.NoError(t, err)
	names := make([]string, 0, len(active))
	for _, g := range active {
		names = append(names, g.MetricType.Name)
	}
	assert.ElementsMatch(t, []string{"steps", "sleep_hours"}, names)

	all, total, err := s.goal.List(ctx, ownerOf(alice), repository.GoalFilter{}, today)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
}

func TestGoalProgressFromStoredObservations(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	sleep := testutil.CreateMetricType(t, s.db, "sleep_hours", "hours", nil, nil)
	today := testutil.Date(2024, 1, 17) // Wednesday
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 9, testutil.Date(2024, 1, 14))
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 3, testutil.Date(2024, 1, 15))
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 5, testutil.Date(2024, 1, 16))

	g, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{MetricTypeID: sleep.ID, TargetValue: f64(8), GoalType: "WEEKLY"}, today)
	require.NoError(t, err)
	assert.Equal(t, 4.0, g.Progress.CurrentValue)
	assert.Equal(t, 50.0, g.Progress.Percentage)
	assert.Equal(t, "2024-01-15", g.Progress.PeriodStart)
	assert.Equal(t, "2024-01-17", g.Progress.PeriodEnd)
}

func TestUpdateGoalKeepsOmittedFields(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	weight := testutil.CreateMetricType(t, s.db, "weight", "kg", nil, nil)

	g, err := s.goal.Create(ctx, ownerOf(alice), GoalRequest{
		MetricTypeID: weight.ID, TargetValue: f64(75),
		GoalType: "WEEKLY", Direction: "DECREASE", EndDate: str("2024-03-31"),
	}, testutil.Date(2024, 1, 10))
	require.NoError(t, err)
	_, err = s.goal.Deactivate(ctx, ownerOf(alice), g.ID, testutil.Date(2024, 1, 12))
	require.NoError(t, err)

	updated, err := s.goal.Update(ctx, ownerOf(alice), g.ID, GoalRequest{MetricTypeID: weight.ID, TargetValue: f64(72)}, testutil.Date(2024, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, 72.0, updated.TargetValue)
	assert.False(t, updated.IsActive, "a retired goal stays retired")
	assert.Equal(t, model.GoalWeekly, updated.GoalType)
	assert.Equal(t, model.DirectionDecrease, updated.Direction)
	assert.Equal(t, "2024-01-10", updated.StartDate)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, "2024-03-31", *updated.EndDate)

	// an explicit empty end date clears it
	updated, err = s.goal.Update(ctx, ownerOf(alice), g.ID, GoalRequest{MetricTypeID: weight.ID, TargetValue: f64(72), EndDate: str("")}, testutil.Date(2024, 1, 15))
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)

	// a stored start date still bounds a new end date
	_, err = s.goal.Update(ctx, ownerOf(alice), g.ID, GoalRequest{MetricTypeID: weight.ID, TargetValue: f64(72), EndDate: str("2024-01-09")}, testutil.Date(2024, 1, 15))
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "end_date", ve.Field)
}
