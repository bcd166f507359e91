package service

import (
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/util"
)

// MetricTypeRef is the compact metric type nested in observations and goals.
type MetricTypeRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type HealthMetricView struct {
	ID           uint          `json:"id"`
	Username     string        `json:"username"`
	MetricType   MetricTypeRef `json:"metric_type"`
	Value        float64       `json:"value"`
	RecordedDate string        `json:"recorded_date"`
	Notes        string        `json:"notes"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type GoalView struct {
	ID          uint                `json:"id"`
	Username    string              `json:"username"`
	MetricType  MetricTypeRef       `json:"metric_type"`
	TargetValue float64             `json:"target_value"`
	GoalType    model.GoalType      `json:"goal_type"`
	Direction   model.GoalDirection `json:"direction"`
	IsActive    bool                `json:"is_active"`
	IsExpired   bool                `json:"is_expired"`
	Progress    GoalProgress        `json:"progress"`
	StartDate   string              `json:"start_date"`
	EndDate     *string             `json:"end_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type ProfileView struct {
	ID                   uint      `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	DateOfBirth          *string   `json:"date_of_birth"`
	Age                  *int      `json:"age"`
	HeightCm             *int      `json:"height_cm"`
	Timezone             string    `json:"timezone"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type UserView struct {
	ID         uint           `json:"id"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	Role       model.UserRole `json:"role"`
	DateJoined time.Time      `json:"date_joined"`
}

func metricTypeRef(mt *model.MetricType, id uint) MetricTypeRef {
	if mt == nil {
		return MetricTypeRef{ID: id}
	}
	return MetricTypeRef{ID: mt.ID, Name: mt.Name, Unit: mt.Unit}
}

func newHealthMetricView(m *model.HealthMetric, username string) HealthMetricView {
	return HealthMetricView{
		ID:           m.ID,
		Username:     username,
		MetricType:   metricTypeRef(m.MetricType, m.MetricTypeID),
		Value:        m.Value,
		RecordedDate: util.FormatDate(m.RecordedDate),
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func newHealthMetricViews(metrics []model.HealthMetric, username string) []HealthMetricView {
	views := make([]HealthMetricView, 0, len(metrics))
	for i := range metrics {
		views = append(views, newHealthMetricView(&metrics[i], username))
	}
	return views
}

func newGoalView(g *model.Goal, username string, progress GoalProgress, today time.Time) GoalView {
	v := GoalView{
		ID:          g.ID,
		Username:    username,
		MetricType:  metricTypeRef(g.MetricType, g.MetricTypeID),
		TargetValue: g.TargetValue,
		GoalType:    g.GoalType,
		Direction:   g.Direction,
		IsActive:    g.IsActive,
		IsExpired:   g.IsExpired(today),
		Progress:    progress,
		StartDate:   util.FormatDate(g.StartDate),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if g.EndDate != nil {
		end := util.FormatDate(*g.EndDate)
		v.EndDate = &end
	}
	return v
}

func newProfileView(p *model.UserProfile, user *model.User, today time.Time) ProfileView {
	v := ProfileView{
		ID:                   p.ID,
		Username:             user.Username,
		Email:                user.Email,
		Age:                  p.Age(today),
		HeightCm:             p.HeightCm,
		Timezone:             p.Timezone,
		NotificationsEnabled: p.NotificationsEnabled,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if p.DateOfBirth != nil {
		dob := util.FormatDate(*p.DateOfBirth)
		v.DateOfBirth = &dob
	}
	return v
}

func NewUserView(u *model.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		DateJoined: u.CreatedAt,
	}
}
