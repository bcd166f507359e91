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

// GoalService manages goals and attaches progress to every goal it returns.
type GoalService struct {
	GoalRepo       *repository.GoalRepository
	MetricTypeRepo *repository.MetricTypeRepository
	History        MetricHistory
}

func NewGoalService(goalRepo *repository.GoalRepository, metricTypeRepo *repository.MetricTypeRepository, history MetricHistory) *GoalService {
	return &GoalService{
		GoalRepo:       goalRepo,
		MetricTypeRepo: metricTypeRepo,
		History:        history,
	}
}

// GoalRequest is used for create and update. Dates are YYYY-MM-DD. On update,
// omitted optional fields keep their stored values.
type GoalRequest struct {
	MetricTypeID uint     `json:"metric_type_id" binding:"required"`
	TargetValue  *float64 `json:"target_value" binding:"required,gte=0"`
	GoalType     string   `json:"goal_type" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
	Direction    string   `json:"direction" binding:"omitempty,oneof=INCREASE DECREASE MAINTAIN"`
	IsActive     *bool    `json:"is_active"`
	StartDate    string   `json:"start_date"`
	EndDate      *string  `json:"end_date"`
}

var errDuplicateActiveGoal = util.NewValidationError("non_field_errors",
	"An active goal already exists for this metric type and goal type.")

// buildGoal applies req onto goal. Fields the request leaves out keep the
// goal's current values, so Create seeds the defaults before calling it.
func (s *GoalService) buildGoal(ctx context.Context, goal *model.Goal, req GoalRequest) (*model.MetricType, error) {
	mt, err := s.MetricTypeRepo.FindByID(ctx, req.MetricTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !mt.IsActive) {
		return nil, util.NewValidationError("metric_type_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.MetricTypeID))
	}
	if err != nil {
		return nil, err
	}

	target, err := checkValue("target_value", *req.TargetValue)
	if err != nil {
		return nil, err
	}

	goalType := goal.GoalType
	if req.GoalType != "" {
		goalType = model.GoalType(req.GoalType)
	}
	if !goalType.Valid() {
		return nil, util.NewValidationError("goal_type", fmt.Sprintf("\"%s\" is not a valid choice.", req.GoalType))
	}
	direction := goal.Direction
	if req.Direction != "" {
		direction = model.GoalDirection(req.Direction)
	}
	if !direction.Valid() {
		return nil, util.NewValidationError("direction", fmt.Sprintf("\"%s\" is not a valid choice.", req.Direction))
	}

	start := goal.StartDate
	if req.StartDate != "" {
		if start, err = util.ParseDate(req.StartDate); err != nil {
			return nil, util.NewValidationError("start_date", "Date has wrong format. Use YYYY-MM-DD.")
		}
	}
	// nil keeps the stored end date, "" clears it
	end := goal.EndDate
	if req.EndDate != nil {
		end = nil
		if *req.EndDate != "" {
			e, err := util.ParseDate(*req.EndDate)
			if err != nil {
				return nil, util.NewValidationError("end_date", "Date has wrong format. Use YYYY-MM-DD.")
			}
			end = &e
		}
	}
	if end != nil && end.Before(start) {
		return nil, util.NewValidationError("end_date", "End date must be after start date.")
	}

	goal.MetricTypeID = mt.ID
	goal.TargetValue = target
	goal.GoalType = goalType
	goal.Direction = direction
	if req.IsActive != nil {
		goal.IsActive = *req.IsActive
	}
	goal.StartDate = start
	goal.EndDate = end
	return mt, nil
}

func (s *GoalService) view(ctx context.Context, goal *model.Goal, owner Owner, today time.Time) (GoalView, error) {
	progress, err := CalculateProgress(ctx, s.History, goal, today)
	if err != nil {
		return GoalView{}, fmt.Errorf("goal %d progress: %w", goal.ID, err)
	}
	return newGoalView(goal, owner.Username, progress, today), nil
}

func (s *GoalService) views(ctx context.Context, goals []model.Goal, owner Owner, today time.Time) ([]GoalView, error) {
	views := make([]GoalView, 0, len(goals))
	for i := range goals {
		v, err := s.view(ctx, &goals[i], owner, today)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *GoalService) Create(ctx context.Context, owner Owner, req GoalRequest, today time.Time) (*GoalView, error) {
	goal := &model.Goal{
		UserID:    owner.ID,
		GoalType:  model.GoalDaily,
		Direction: model.DirectionIncrease,
		IsActive:  true,
		StartDate: util.DateOnly(today),
	}
	mt, err := s.buildGoal(ctx, goal, req)
	if err != nil {
		return nil, err
	}

	if goal.IsActive {
		taken, err := s.GoalRepo.HasActive(ctx, owner.ID, goal.MetricTypeID, goal.GoalType, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errDuplicateActiveGoal
		}
	}

	if err := s.GoalRepo.Create(ctx, goal); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateActiveGoal
		}
		return nil, fmt.Errorf("create goal: %w", err)
	}
	goal.MetricType = mt

	monitoring.GoalsCreated.WithLabelValues(string(goal.GoalType)).Inc()
	logger.Log.Info("Goal created",
		zap.Uint("user_id", owner.ID),
		zap.Uint("goal_id", goal.ID),
		zap.String("goal_type", string(goal.GoalType)),
	)

	v, err := s.view(ctx, goal, owner, today)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *GoalService) Get(ctx context.Context, owner Owner, id uint, today time.Time) (*GoalView, error) {
	goal, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, goal, owner, today)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *GoalService) find(ctx context.Context, owner Owner, id uint) (*model.Goal, error) {
	goal, err := s.GoalRepo.FindByIDAndUserID(ctx, id, owner.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGoalNotFound
	}
	return goal, err
}

func (s *GoalService) Update(ctx context.Context, owner Owner, id uint, req GoalRequest, today time.Time) (*GoalView, error) {
	goal, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.buildGoal(ctx, goal, req); err != nil {
		return nil, err
	}

	if goal.IsActive {
		taken, err := s.GoalRepo.HasActive(ctx, owner.ID, goal.MetricTypeID, goal.GoalType, goal.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errDuplicateActiveGoal
		}
	}

	if err := s.GoalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateActiveGoal
		}
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.Get(ctx, owner, id, today)
}

// Deactivate retires a goal. Goals are never deleted.
func (s *GoalService) Deactivate(ctx context.Context, owner Owner, id uint, today time.Time) (*GoalView, error) {
	ok, err := s.GoalRepo.Deactivate(ctx, id, owner.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrGoalNotFound
	}

	monitoring.GoalsDeactivated.Inc()
	logger.Log.Info("Goal deactivated", zap.Uint("user_id", owner.ID), zap.Uint("goal_id", id))
	return s.Get(ctx, owner, id, today)
}

func (s *GoalService) List(ctx context.Context, owner Owner, f repository.GoalFilter, today time.Time) ([]GoalView, int64, error) {
	goals, total, err := s.GoalRepo.List(ctx, owner.ID, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, goals, owner, today)
	return views, total, err
}

// Active lists active goals that have not yet ended, with progress.
func (s *GoalService) Active(ctx context.Context, owner Owner, today time.Time) ([]GoalView, error) {
	goals, err := s.GoalRepo.FindActiveByUser(ctx, owner.ID, util.DateOnly(today))
	if err != nil {
		return nil, err
	}
	return s.views(ctx, goals, owner, today)
}
