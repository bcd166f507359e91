package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"
	"health_metrics_backend/pkg/logger"
	"health_metrics_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Owner identifies the user a request acts for.
type Owner struct {
	ID       uint
	Username string
}

// maxStoredValue is the largest value a decimal(10,2) column holds.
const maxStoredValue = 99999999.99

type HealthMetricService struct {
	MetricRepo     *repository.HealthMetricRepository
	MetricTypeRepo *repository.MetricTypeRepository
}

func NewHealthMetricService(metricRepo *repository.HealthMetricRepository, metricTypeRepo *repository.MetricTypeRepository) *HealthMetricService {
	return &HealthMetricService{
		MetricRepo:     metricRepo,
		MetricTypeRepo: metricTypeRepo,
	}
}

type CreateHealthMetricRequest struct {
	MetricTypeID uint     `json:"metric_type_id" binding:"required"`
	Value        *float64 `json:"value" binding:"required"`
	// RecordedDate is YYYY-MM-DD, today when empty.
	RecordedDate string `json:"recorded_date"`
	Notes        string `json:"notes"`
}

type UpdateHealthMetricRequest struct {
	Value *float64 `json:"value" binding:"required"`
	Notes string   `json:"notes"`
}

type MetricSummaryResult struct {
	PeriodStart string                     `json:"period_start"`
	PeriodEnd   string                     `json:"period_end"`
	Metrics     []repository.MetricSummary `json:"metrics"`
}

type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type TrendResult struct {
	MetricTypeID uint         `json:"metric_type_id"`
	PeriodStart  string       `json:"period_start"`
	PeriodEnd    string       `json:"period_end"`
	DataPoints   []TrendPoint `json:"data_points"`
}

// checkValue rounds v to storage precision and rejects negatives and overflow.
func checkValue(field string, v float64) (float64, error) {
	if v < 0 {
		return 0, util.NewValidationError(field, "Value must be positive.")
	}
	v = util.RoundTo(v, 2)
	if v > maxStoredValue {
		return 0, util.NewValidationError(field, "Ensure that there are no more than 10 digits in total.")
	}
	return v, nil
}

func duplicateEntryError(mt *model.MetricType) error {
	return util.NewValidationError("recorded_date", fmt.Sprintf("You already have a %s entry for this date.", mt.Name))
}

// Record stores a new observation after bounds and duplicate checks. The unique
// index remains the final arbiter when two requests race.
func (s *HealthMetricService) Record(ctx context.Context, owner Owner, req CreateHealthMetricRequest, today time.Time) (*HealthMetricView, error) {
	mt, err := s.MetricTypeRepo.FindByID(ctx, req.MetricTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !mt.IsActive) {
		return nil, util.NewValidationError("metric_type_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.MetricTypeID))
	}
	if err != nil {
		return nil, err
	}

	value, err := checkValue("value", *req.Value)
	if err != nil {
		return nil, err
	}
	if msg := mt.BoundsViolation(value); msg != "" {
		return nil, util.NewValidationError("value", msg)
	}

	day := util.DateOnly(today)
	if req.RecordedDate != "" {
		day, err = util.ParseDate(req.RecordedDate)
		if err != nil {
			return nil, util.NewValidationError("recorded_date", "Date has wrong format. Use YYYY-MM-DD.")
		}
	}

	exists, err := s.MetricRepo.ExistsForDay(ctx, owner.ID, mt.ID, day, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateEntryError(mt)
	}

	m := &model.HealthMetric{
		UserID:       owner.ID,
		MetricTypeID: mt.ID,
		Value:        value,
		RecordedDate: day,
		Notes:        req.Notes,
	}
	if err := s.MetricRepo.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateEntryError(mt)
		}
		return nil, fmt.Errorf("create health metric: %w", err)
	}
	m.MetricType = mt

	monitoring.ObservationsRecorded.WithLabelValues(mt.Name).Inc()
	logger.Log.Info("Observation recorded",
		zap.Uint("user_id", owner.ID),
		zap.String("metric_type", mt.Name),
		zap.String("recorded_date", util.FormatDate(day)),
	)

	v := newHealthMetricView(m, owner.Username)
	return &v, nil
}

func (s *HealthMetricService) Get(ctx context.Context, owner Owner, id uint) (*HealthMetricView, error) {
	m, err := s.MetricRepo.FindByIDAndUserID(ctx, id, owner.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHealthMetricNotFound
	}
	if err != nil {
		return nil, err
	}
	v := newHealthMetricView(m, owner.Username)
	return &v, nil
}

// Update changes value and notes. The (type, date) key of an observation is fixed.
func (s *HealthMetricService) Update(ctx context.Context, owner Owner, id uint, req UpdateHealthMetricRequest) (*HealthMetricView, error) {
	m, err := s.MetricRepo.FindByIDAndUserID(ctx, id, owner.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrHealthMetricNotFound
	}
	if err != nil {
		return nil, err
	}

	value, err := checkValue("value", *req.Value)
	if err != nil {
		return nil, err
	}
	if m.MetricType != nil {
		if msg := m.MetricType.BoundsViolation(value); msg != "" {
			return nil, util.NewValidationError("value", msg)
		}
	}

	m.Value = value
	m.Notes = req.Notes
	if err := s.MetricRepo.UpdateValue(ctx, m); err != nil {
		return nil, fmt.Errorf("update health metric: %w", err)
	}
	return s.Get(ctx, owner, id)
}

func (s *HealthMetricService) Delete(ctx context.Context, owner Owner, id uint) error {
	deleted, err := s.MetricRepo.Delete(ctx, id, owner.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrHealthMetricNotFound
	}
	return nil
}

func (s *HealthMetricService) List(ctx context.Context, owner Owner, f repository.HealthMetricFilter) ([]HealthMetricView, int64, error) {
	metrics, total, err := s.MetricRepo.List(ctx, owner.ID, f)
	if err != nil {
		return nil, 0, err
	}
	return newHealthMetricViews(metrics, owner.Username), total, nil
}

// Summary aggregates per metric type over observations recorded on or after
// today minus days.
func (s *HealthMetricService) Summary(ctx context.Context, userID uint, days int, metricTypeID uint, today time.Time) (*MetricSummaryResult, error) {
	today = util.DateOnly(today)
	since := today.AddDate(0, 0, -days)

	rows, err := s.MetricRepo.SummaryByType(ctx, userID, since, metricTypeID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Average = util.RoundTo(rows[i].Average, 2)
		rows[i].Total = util.RoundTo(rows[i].Total, 2)
	}
	if rows == nil {
		rows = []repository.MetricSummary{}
	}
	return &MetricSummaryResult{
		PeriodStart: util.FormatDate(since),
		PeriodEnd:   util.FormatDate(today),
		Metrics:     rows,
	}, nil
}

// Trends lists one data point per recorded day for a metric type, oldest first.
func (s *HealthMetricService) Trends(ctx context.Context, userID, metricTypeID uint, days int, today time.Time) (*TrendResult, error) {
	today = util.DateOnly(today)
	since := today.AddDate(0, 0, -days)

	metrics, err := s.MetricRepo.FindSince(ctx, userID, metricTypeID, since)
	if err != nil {
		return nil, err
	}
	points := make([]TrendPoint, 0, len(metrics))
	for _, m := range metrics {
		points = append(points, TrendPoint{Date: util.FormatDate(m.RecordedDate), Value: m.Value})
	}
	return &TrendResult{
		MetricTypeID: metricTypeID,
		PeriodStart:  util.FormatDate(since),
		PeriodEnd:    util.FormatDate(today),
		DataPoints:   points,
	}, nil
}
