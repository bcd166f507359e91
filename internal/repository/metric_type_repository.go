package repository

import (
	"context"
	"errors"

	"health_metrics_backend/internal/model"

	"gorm.io/gorm"
)

type MetricTypeRepository struct {
	DB *gorm.DB
}

func NewMetricTypeRepository(db *gorm.DB) *MetricTypeRepository {
	return &MetricTypeRepository{DB: db}
}

type MetricTypeFilter struct {
	// IncludeInactive lists retired types too (admin views).
	IncludeInactive bool
	Search          string
	Ordering        string
	Page
}

var metricTypeOrdering = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

func (r *MetricTypeRepository) Create(ctx context.Context, mt *model.MetricType) error {
	return r.DB.WithContext(ctx).Create(mt).Error
}

func (r *MetricTypeRepository) FindByID(ctx context.Context, id uint) (*model.MetricType, error) {
	var mt model.MetricType
	err := r.DB.WithContext(ctx).First(&mt, id).Error
	return &mt, err
}

func (r *MetricTypeRepository) FindByName(ctx context.Context, name string) (*model.MetricType, error) {
	var mt model.MetricType
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&mt).Error
	return &mt, err
}

func (r *MetricTypeRepository) List(ctx context.Context, f MetricTypeFilter) ([]model.MetricType, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.MetricType{})
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var types []model.MetricType
	err := f.Page.apply(q.Order(orderClause(f.Ordering, metricTypeOrdering, "name ASC"))).
		Find(&types).Error
	return types, total, err
}

// Save writes every column, including nil bounds and a false IsActive.
func (r *MetricTypeRepository) Save(ctx context.Context, mt *model.MetricType) error {
	return r.DB.WithContext(ctx).Save(mt).Error
}

func (r *MetricTypeRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.MetricType{}, id).Error
}

// CountReferences counts observations and goals pointing at the type.
func (r *MetricTypeRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var metrics, goals int64
	db := r.DB.WithContext(ctx)
	if err := db.Model(&model.HealthMetric{}).Where("metric_type_id = ?", id).Count(&metrics).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.Goal{}).Where("metric_type_id = ?", id).Count(&goals).Error; err != nil {
		return 0, err
	}
	return metrics + goals, nil
}

// UpsertByName inserts mt or refreshes the existing row with the same name.
func (r *MetricTypeRepository) UpsertByName(ctx context.Context, mt *model.MetricType) (created bool, err error) {
	existing, err := r.FindByName(ctx, mt.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, r.Create(ctx, mt)
	}
	if err != nil {
		return false, err
	}
	mt.ID = existing.ID
	mt.CreatedAt = existing.CreatedAt
	return false, r.Save(ctx, mt)
}
