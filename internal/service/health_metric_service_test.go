package service

import (
	"context"
	"testing"

	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/testutil"
	"health_metrics_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordObservation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", testutil.Bound(0), testutil.Bound(100000))
	today := testutil.Date(2024, 1, 15)

	v, err := s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{
		MetricTypeID: steps.ID,
		Value:        f64(8000.456),
		Notes:        "morning walk",
	}, today)
	require.NoError(t, err)

	assert.Equal(t, "alice", v.Username)
	assert.Equal(t, "steps", v.MetricType.Name)
	assert.Equal(t, 8000.46, v.Value)
	assert.Equal(t, "2024-01-15", v.RecordedDate, "date defaults to today")
	assert.Equal(t, "morning walk", v.Notes)
}

func TestRecordRejectsDuplicateDay(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	today := testutil.Date(2024, 1, 15)

	req := CreateHealthMetricRequest{MetricTypeID: steps.ID, Value: f64(100), RecordedDate: "2024-01-14"}
	_, err := s.metric.Record(ctx, ownerOf(alice), req, today)
	require.NoError(t, err)

	_, err = s.metric.Record(ctx, ownerOf(alice), req, today)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "recorded_date", ve.Field)
	assert.Equal(t, "You already have a steps entry for this date.", ve.Message)

	// another user may record the same type on the same day
	bob := testutil.CreateUser(t, s.db, "bob")
	_, err = s.metric.Record(ctx, ownerOf(bob), req, today)
	assert.NoError(t, err)
}

func TestRecordChecksBounds(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	sleep := testutil.CreateMetricType(t, s.db, "sleep_hours", "hours", testutil.Bound(0), testutil.Bound(24))
	weight := testutil.CreateMetricType(t, s.db, "weight", "kg", nil, nil)
	today := testutil.Date(2024, 1, 15)

	_, err := s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{MetricTypeID: sleep.ID, Value: f64(25)}, today)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "value", ve.Field)
	assert.Equal(t, "Value must be at most 24.00 for sleep_hours", ve.Message)

	_, err = s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{MetricTypeID: sleep.ID, Value: f64(24)}, today)
	assert.NoError(t, err, "bounds are inclusive")

	_, err = s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{MetricTypeID: weight.ID, Value: f64(-1)}, today)
	ve, ok = util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Value must be positive.", ve.Message)
}

func TestRecordEnforcesZeroBound(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	alcohol := testutil.CreateMetricType(t, s.db, "alcohol_units", "units", nil, testutil.Bound(0))
	today := testutil.Date(2024, 1, 15)

	_, err := s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{MetricTypeID: alcohol.ID, Value: f64(1)}, today)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok, "a zero bound is a real bound")
	assert.Equal(t, "Value must be at most 0.00 for alcohol_units", ve.Message)

	_, err = s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{MetricTypeID: alcohol.ID, Value: f64(0)}, today)
	assert.NoError(t, err)
}

func TestRecordRejectsInactiveType(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	retired := testutil.CreateMetricType(t, s.db, "retired", "x", nil, nil)
	require.NoError(t, s.db.Model(retired).Update("is_active", false).Error)

	_, err := s.metric.Record(ctx, ownerOf(alice), CreateHealthMetricRequest{MetricTypeID: retired.ID, Value: f64(1)}, testutil.Date(2024, 1, 15))
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "metric_type_id", ve.Field)
}

func TestObservationsAreOwnerScoped(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	bob := testutil.CreateUser(t, s.db, "bob")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	m := testutil.CreateObservation(t, s.db, alice.ID, steps.ID, 100, testutil.Date(2024, 1, 15))

	_, err := s.metric.Get(ctx, ownerOf(bob), m.ID)
	assert.ErrorIs(t, err, util.ErrHealthMetricNotFound)

	_, err = s.metric.Update(ctx, ownerOf(bob), m.ID, UpdateHealthMetricRequest{Value: f64(1)})
	assert.ErrorIs(t, err, util.ErrHealthMetricNotFound)

	assert.ErrorIs(t, s.metric.Delete(ctx, ownerOf(bob), m.ID), util.ErrHealthMetricNotFound)

	list, total, err := s.metric.List(ctx, ownerOf(bob), repository.HealthMetricFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	require.NoError(t, s.metric.Delete(ctx, ownerOf(alice), m.ID))
	_, err = s.metric.Get(ctx, ownerOf(alice), m.ID)
	assert.ErrorIs(t, err, util.ErrHealthMetricNotFound)
}

func TestUpdateObservation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	sleep := testutil.CreateMetricType(t, s.db, "sleep_hours", "hours", testutil.Bound(0), testutil.Bound(24))
	m := testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 7, testutil.Date(2024, 1, 15))

	v, err := s.metric.Update(ctx, ownerOf(alice), m.ID, UpdateHealthMetricRequest{Value: f64(7.5), Notes: "nap"})
	require.NoError(t, err)
	assert.Equal(t, 7.5, v.Value)
	assert.Equal(t, "nap", v.Notes)
	assert.Equal(t, "2024-01-15", v.RecordedDate)

	_, err = s.metric.Update(ctx, ownerOf(alice), m.ID, UpdateHealthMetricRequest{Value: f64(30)})
	_, ok := util.AsValidationError(err)
	assert.True(t, ok)
}

func TestListFiltersAndOrders(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	steps := testutil.CreateMetricType(t, s.db, "steps", "steps", nil, nil)
	water := testutil.CreateMetricType(t, s.db, "water_intake", "ml", nil, nil)
	testutil.CreateObservation(t, s.db, alice.ID, steps.ID, 500, testutil.Date(2024, 1, 13))
	testutil.CreateObservation(t, s.db, alice.ID, steps.ID, 900, testutil.Date(2024, 1, 14))
	testutil.CreateObservation(t, s.db, alice.ID, water.ID, 2000, testutil.Date(2024, 1, 14))

	list, total, err := s.metric.List(ctx, ownerOf(alice), repository.HealthMetricFilter{MetricTypeID: steps.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-14", list[0].RecordedDate, "newest first by default")

	list, _, err = s.metric.List(ctx, ownerOf(alice), repository.HealthMetricFilter{Ordering: "value"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 500.0, list[0].Value)
	assert.Equal(t, 2000.0, list[2].Value)

	day := testutil.Date(2024, 1, 14)
	list, total, err = s.metric.List(ctx, ownerOf(alice), repository.HealthMetricFilter{RecordedDate: &day, Page: repository.Page{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 1)
}

func TestSummary(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	sleep := testutil.CreateMetricType(t, s.db, "sleep_hours", "hours", nil, nil)
	today := testutil.Date(2024, 1, 15)
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 6, testutil.Date(2024, 1, 1)) // outside window
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 7, testutil.Date(2024, 1, 9))
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 8, testutil.Date(2024, 1, 13))
	testutil.CreateObservation(t, s.db, alice.ID, sleep.ID, 6.5, today)

	res, err := s.metric.Summary(ctx, alice.ID, 7, 0, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", res.PeriodStart)
	assert.Equal(t, "2024-01-15", res.PeriodEnd)
	require.Len(t, res.Metrics, 1)

	row := res.Metrics[0]
	assert.Equal(t, "sleep_hours", row.MetricTypeName)
	assert.Equal(t, "hours", row.MetricTypeUnit)
	assert.EqualValues(t, 3, row.Count)
	assert.Equal(t, 21.5, row.Total)
	assert.Equal(t, 7.17, row.Average)
	assert.Equal(t, 6.5, row.MinValue)
	assert.Equal(t, 8.0, row.MaxValue)
}

func TestTrends(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice")
	weight := testutil.CreateMetricType(t, s.db, "weight", "kg", nil, nil)
	today := testutil.Date(2024, 1, 31)
	testutil.CreateObservation(t, s.db, alice.ID, weight.ID, 80, testutil.Date(2024, 1, 20))
	testutil.CreateObservation(t, s.db, alice.ID, weight.ID, 81, testutil.Date(2024, 1, 10))

	res, err := s.metric.Trends(ctx, alice.ID, weight.ID, 30, today)
	require.NoError(t, err)
	require.Len(t, res.DataPoints, 2)
	assert.Equal(t, TrendPoint{Date: "2024-01-10", Value: 81}, res.DataPoints[0])
	assert.Equal(t, TrendPoint{Date: "2024-01-20", Value: 80}, res.DataPoints[1])
}
