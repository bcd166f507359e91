package model

import "time"

// HealthMetric is one dated observation. A user records at most one value per
// metric type per day; uidx_user_metric_date enforces it in storage.
// swagger:model HealthMetric
type HealthMetric struct {
	BaseModel
	UserID       uint        `gorm:"not null;uniqueIndex:uidx_user_metric_date,priority:1;index:idx_hm_user_date,priority:1" json:"user_id"`
	User         *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MetricTypeID uint        `gorm:"not null;uniqueIndex:uidx_user_metric_date,priority:2;index:idx_hm_type_date,priority:1" json:"metric_type_id"`
	MetricType   *MetricType `gorm:"constraint:OnDelete:RESTRICT" json:"metric_type,omitempty"`
	Value        float64     `gorm:"type:decimal(10,2);not null" json:"value"`
	RecordedDate time.Time   `gorm:"type:date;not null;uniqueIndex:uidx_user_metric_date,priority:3;index:idx_hm_user_date,priority:2;index:idx_hm_type_date,priority:2" json:"recorded_date"`
	Notes        string      `gorm:"type:text" json:"notes"`
}

func (HealthMetric) TableName() string {
	return "health_metrics"
}
