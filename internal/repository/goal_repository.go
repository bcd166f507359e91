package repository

import (
	"context"
	"time"

	"health_metrics_backend/internal/model"

	"gorm.io/gorm"
)

// GoalRepository stores goals. Active uniqueness lives in uidx_active_goal.
type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

type GoalFilter struct {
	MetricTypeID uint
	GoalType     model.GoalType
	IsActive     *bool
	Ordering     string
	Page
}

var goalOrdering = map[string]string{
	"created_at":   "created_at",
	"target_value": "target_value",
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.DB.WithContext(ctx).Create(goal).Error
}

func (r *GoalRepository) FindByIDAndUserID(ctx context.Context, id, userID uint) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.WithContext(ctx).
		Preload("MetricType").
		Where("id = ? AND user_id = ?", id, userID).
		First(&goal).Error
	return &goal, err
}

// HasActive reports whether another active goal occupies (user, type, period).
func (r *GoalRepository) HasActive(ctx context.Context, userID, metricTypeID uint, goalType model.GoalType, excludeID uint) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND metric_type_id = ? AND goal_type = ? AND is_active = ?",
			userID, metricTypeID, goalType, true)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *GoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	return r.DB.WithContext(ctx).Model(&model.Goal{}).
		Where("id = ? AND user_id = ?", goal.ID, goal.UserID).
		Updates(map[string]interface{}{
			"metric_type_id": goal.MetricTypeID,
			"target_value":   goal.TargetValue,
			"goal_type":      goal.GoalType,
			"direction":      goal.Direction,
			"is_active":      goal.IsActive,
			"active_slot":    model.ActiveSlotFor(goal.IsActive),
			"start_date":     goal.StartDate,
			"end_date":       goal.EndDate,
			"updated_at":     time.Now(),
		}).Error
}

// Deactivate retires a goal. It returns false when no goal of the user matched.
func (r *GoalRepository) Deactivate(ctx context.Context, id, userID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Goal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_active":   false,
			"active_slot": nil,
			"updated_at":  time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GoalRepository) List(ctx context.Context, userID uint, f GoalFilter) ([]model.Goal, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Goal{}).Where("user_id = ?", userID)
	if f.MetricTypeID != 0 {
		q = q.Where("metric_type_id = ?", f.MetricTypeID)
	}
	if f.GoalType != "" {
		q = q.Where("goal_type = ?", f.GoalType)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var goals []model.Goal
	err := f.Page.apply(q.Preload("MetricType").
		Order(orderClause(f.Ordering, goalOrdering, "created_at DESC")).Order("id DESC")).
		Find(&goals).Error
	return goals, total, err
}

// FindActiveByUser returns active goals that have not ended before today.
func (r *GoalRepository) FindActiveByUser(ctx context.Context, userID uint, today time.Time) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.DB.WithContext(ctx).
		Preload("MetricType").
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("end_date IS NULL OR end_date >= ?", today).
		Order("created_at DESC").Order("id DESC").
		Find(&goals).Error
	return goals, err
}
