package model

import (
	"time"

	"gorm.io/gorm"
)

type GoalType string

const (
	GoalDaily   GoalType = "DAILY"
	GoalWeekly  GoalType = "WEEKLY"
	GoalMonthly GoalType = "MONTHLY"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalDaily, GoalWeekly, GoalMonthly:
		return true
	}
	return false
}

type GoalDirection string

const (
	DirectionIncrease GoalDirection = "INCREASE"
	DirectionDecrease GoalDirection = "DECREASE"
	DirectionMaintain GoalDirection = "MAINTAIN"
)

func (d GoalDirection) Valid() bool {
	switch d {
	case DirectionIncrease, DirectionDecrease, DirectionMaintain:
		return true
	}
	return false
}

// Goal is a target for one metric type over a recurring period.
//
// ActiveSlot mirrors IsActive as 1/NULL so that uidx_active_goal allows any
// number of retired goals but only one active goal per (user, metric type, period).
// swagger:model Goal
type Goal struct {
	BaseModel
	UserID       uint          `gorm:"not null;index;uniqueIndex:uidx_active_goal,priority:1" json:"user_id"`
	User         *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MetricTypeID uint          `gorm:"not null;uniqueIndex:uidx_active_goal,priority:2" json:"metric_type_id"`
	MetricType   *MetricType   `gorm:"constraint:OnDelete:RESTRICT" json:"metric_type,omitempty"`
	TargetValue  float64       `gorm:"type:decimal(10,2);not null" json:"target_value"`
	GoalType     GoalType      `gorm:"size:10;not null;uniqueIndex:uidx_active_goal,priority:3" json:"goal_type"`
	Direction    GoalDirection `gorm:"size:10;not null" json:"direction"`
	IsActive     bool          `gorm:"not null" json:"is_active"`
	ActiveSlot   *int          `gorm:"uniqueIndex:uidx_active_goal,priority:4" json:"-"`
	StartDate    time.Time     `gorm:"type:date;not null" json:"start_date"`
	EndDate      *time.Time    `gorm:"type:date" json:"end_date"`
}

func (Goal) TableName() string {
	return "goals"
}

func (g *Goal) BeforeSave(tx *gorm.DB) error {
	g.ActiveSlot = ActiveSlotFor(g.IsActive)
	return nil
}

func ActiveSlotFor(active bool) *int {
	if !active {
		return nil
	}
	one := 1
	return &one
}

// IsExpired reports whether the goal's end date lies strictly before today.
func (g *Goal) IsExpired(today time.Time) bool {
	return g.EndDate != nil && g.EndDate.Before(today)
}
