package service

import (
	"context"
	"errors"
	"strings"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"
	"health_metrics_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MetricTypeService struct {
	Repo *repository.MetricTypeRepository
}

func NewMetricTypeService(repo *repository.MetricTypeRepository) *MetricTypeService {
	return &MetricTypeService{Repo: repo}
}

// MetricTypeRequest is the full representation accepted on create and update.
type MetricTypeRequest struct {
	Name        string   `json:"name" binding:"required,max=50"`
	Unit        string   `json:"unit" binding:"required,max=20"`
	Description string   `json:"description"`
	MinValue    *float64 `json:"min_value" binding:"omitempty,gte=0"`
	MaxValue    *float64 `json:"max_value" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

func (req *MetricTypeRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return util.NewValidationError("name", "This field may not be blank.")
	}
	if req.MinValue != nil && req.MaxValue != nil && *req.MinValue > *req.MaxValue {
		return util.NewValidationError("max_value", "Maximum value must not be below the minimum value.")
	}
	return nil
}

func (req *MetricTypeRequest) apply(mt *model.MetricType) {
	mt.Name = req.Name
	mt.Unit = req.Unit
	mt.Description = req.Description
	mt.MinValue = roundPtr(req.MinValue)
	mt.MaxValue = roundPtr(req.MaxValue)
	mt.IsActive = req.IsActive == nil || *req.IsActive
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := util.RoundTo(*v, 2)
	return &r
}

func (s *MetricTypeService) List(ctx context.Context, f repository.MetricTypeFilter) ([]model.MetricType, int64, error) {
	return s.Repo.List(ctx, f)
}

// Get returns a metric type. Inactive types are hidden unless includeInactive.
func (s *MetricTypeService) Get(ctx context.Context, id uint, includeInactive bool) (*model.MetricType, error) {
	mt, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMetricTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	if !mt.IsActive && !includeInactive {
		return nil, util.ErrMetricTypeNotFound
	}
	return mt, nil
}

// GetActiveByName resolves an active metric type by its unique name.
func (s *MetricTypeService) GetActiveByName(ctx context.Context, name string) (*model.MetricType, error) {
	mt, err := s.Repo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !mt.IsActive) {
		return nil, util.ErrMetricTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return mt, nil
}

func (s *MetricTypeService) Create(ctx context.Context, req MetricTypeRequest) (*model.MetricType, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mt := &model.MetricType{}
	req.apply(mt)

	if err := s.Repo.Create(ctx, mt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewValidationError("name", "metric type with this name already exists.")
		}
		return nil, err
	}
	logger.Log.Info("Metric type created", zap.Uint("metric_type_id", mt.ID), zap.String("name", mt.Name))
	return mt, nil
}

func (s *MetricTypeService) Update(ctx context.Context, id uint, req MetricTypeRequest) (*model.MetricType, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	mt, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	req.apply(mt)

	if err := s.Repo.Save(ctx, mt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewValidationError("name", "metric type with this name already exists.")
		}
		return nil, err
	}
	return mt, nil
}

// Delete removes an unused metric type. Types with history must be deactivated instead.
func (s *MetricTypeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id, true); err != nil {
		return err
	}
	refs, err := s.Repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return util.ErrMetricTypeInUse
	}
	return s.Repo.Delete(ctx, id)
}
