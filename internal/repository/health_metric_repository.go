package repository

import (
	"context"
	"time"

	"health_metrics_backend/internal/model"

	"gorm.io/gorm"
)

// AggregationMode selects how observation values in a window collapse to one number.
type AggregationMode int

const (
	AggregateSum AggregationMode = iota
	AggregateAverage
)

func (m AggregationMode) String() string {
	if m == AggregateAverage {
		return "average"
	}
	return "sum"
}

type HealthMetricRepository struct {
	DB *gorm.DB
}

func NewHealthMetricRepository(db *gorm.DB) *HealthMetricRepository {
	return &HealthMetricRepository{DB: db}
}

type HealthMetricFilter struct {
	MetricTypeID uint
	RecordedDate *time.Time
	// Search matches notes case-insensitively.
	Search   string
	Ordering string
	Page
}

var healthMetricOrdering = map[string]string{
	"recorded_date": "recorded_date",
	"value":         "value",
	"created_at":    "created_at",
}

// MetricSummary is one per-type aggregate row of the summary endpoint.
type MetricSummary struct {
	MetricTypeID   uint    `json:"metric_type_id"`
	MetricTypeName string  `json:"metric_type__name"`
	MetricTypeUnit string  `json:"metric_type__unit"`
	Count          int64   `json:"count"`
	Average        float64 `json:"average"`
	Total          float64 `json:"total"`
	MinValue       float64 `json:"min_value"`
	MaxValue       float64 `json:"max_value"`
}

func (r *HealthMetricRepository) Create(ctx context.Context, m *model.HealthMetric) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *HealthMetricRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.HealthMetric, error) {
	var m model.HealthMetric
	err := r.DB.WithContext(ctx).
		Preload("MetricType").
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	return &m, err
}

// ExistsForDay reports whether the user already has an observation of the type on
// day, ignoring excludeID.
func (r *HealthMetricRepository) ExistsForDay(ctx context.Context, userID, metricTypeID uint, day time.Time, excludeID uint) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&model.HealthMetric{}).
		Where("user_id = ? AND metric_type_id = ? AND recorded_date = ?", userID, metricTypeID, day)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// UpdateValue changes the mutable part of an observation.
func (r *HealthMetricRepository) UpdateValue(ctx context.Context, m *model.HealthMetric) error {
	return r.DB.WithContext(ctx).Model(&model.HealthMetric{}).
		Where("id = ? AND user_id = ?", m.ID, m.UserID).
		Updates(map[string]interface{}{
			"value":      m.Value,
			"notes":      m.Notes,
			"updated_at": time.Now(),
		}).Error
}

func (r *HealthMetricRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.HealthMetric{})
	return res.RowsAffected > 0, res.Error
}

func (r *HealthMetricRepository) List(ctx context.Context, userID uint, f HealthMetricFilter) ([]model.HealthMetric, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.HealthMetric{}).Where("user_id = ?", userID)
	if f.MetricTypeID != 0 {
		q = q.Where("metric_type_id = ?", f.MetricTypeID)
	}
	if f.RecordedDate != nil {
		q = q.Where("recorded_date = ?", *f.RecordedDate)
	}
	if f.Search != "" {
		q = q.Where("LOWER(notes) LIKE ?", likePattern(f.Search))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := orderClause(f.Ordering, healthMetricOrdering, "recorded_date DESC")
	var metrics []model.HealthMetric
	err := f.Page.apply(q.Preload("MetricType").Order(order).Order("created_at DESC").Order("id DESC")).
		Find(&metrics).Error
	return metrics, total, err
}

func (r *HealthMetricRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.HealthMetric{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountByUserBetween counts observations with recorded_date in [start, end].
func (r *HealthMetricRepository) CountByUserBetween(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.HealthMetric{}).
		Where("user_id = ? AND recorded_date >= ? AND recorded_date <= ?", userID, start, end).
		Count(&count).Error
	return count, err
}

func (r *HealthMetricRepository) FindRecentByUser(ctx context.Context, userID uint, limit int) ([]model.HealthMetric, error) {
	var metrics []model.HealthMetric
	err := r.DB.WithContext(ctx).
		Preload("MetricType").
		Where("user_id = ?", userID).
		Order("recorded_date DESC").Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&metrics).Error
	return metrics, err
}

// AggregateValues sums or averages the user's values of one type with
// recorded_date in [start, end]. No rows yields 0.
func (r *HealthMetricRepository) AggregateValues(ctx context.Context, userID, metricTypeID uint, start, end time.Time, mode AggregationMode) (float64, error) {
	expr := "COALESCE(SUM(value), 0)"
	if mode == AggregateAverage {
		expr = "COALESCE(AVG(value), 0)"
	}

	var result float64
	err := r.DB.WithContext(ctx).Model(&model.HealthMetric{}).
		Select(expr).
		Where("user_id = ? AND metric_type_id = ? AND recorded_date >= ? AND recorded_date <= ?",
			userID, metricTypeID, start, end).
		Scan(&result).Error
	return result, err
}

// SummaryByType aggregates the user's observations recorded on or after since,
// one row per metric type.
func (r *HealthMetricRepository) SummaryByType(ctx context.Context, userID uint, since time.Time, metricTypeID uint) ([]MetricSummary, error) {
	q := r.DB.WithContext(ctx).
		Table("health_metrics AS hm").
		Select(`hm.metric_type_id AS metric_type_id,
			mt.name AS metric_type_name,
			mt.unit AS metric_type_unit,
			COUNT(hm.id) AS count,
			AVG(hm.value) AS average,
			SUM(hm.value) AS total,
			MIN(hm.value) AS min_value,
			MAX(hm.value) AS max_value`).
		Joins("JOIN metric_types AS mt ON mt.id = hm.metric_type_id").
		Where("hm.user_id = ? AND hm.recorded_date >= ?", userID, since)
	if metricTypeID != 0 {
		q = q.Where("hm.metric_type_id = ?", metricTypeID)
	}

	var rows []MetricSummary
	err := q.Group("hm.metric_type_id, mt.name, mt.unit").Order("mt.name").Scan(&rows).Error
	return rows, err
}

// FindSince returns the user's observations of one type recorded on or after
// since, oldest first.
func (r *HealthMetricRepository) FindSince(ctx context.Context, userID, metricTypeID uint, since time.Time) ([]model.HealthMetric, error) {
	var metrics []model.HealthMetric
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND metric_type_id = ? AND recorded_date >= ?", userID, metricTypeID, since).
		Order("recorded_date ASC").
		Find(&metrics).Error
	return metrics, err
}

// FindInRange returns observations in [start, end] for export, optionally limited
// to one type.
func (r *HealthMetricRepository) FindInRange(ctx context.Context, userID uint, start, end time.Time, metricTypeID uint) ([]model.HealthMetric, error) {
	q := r.DB.WithContext(ctx).
		Preload("MetricType").
		Where("user_id = ? AND recorded_date >= ? AND recorded_date <= ?", userID, start, end)
	if metricTypeID != 0 {
		q = q.Where("metric_type_id = ?", metricTypeID)
	}
	var metrics []model.HealthMetric
	err := q.Order("recorded_date ASC").Order("metric_type_id ASC").Find(&metrics).Error
	return metrics, err
}
