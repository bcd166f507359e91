package model

import "fmt"

// MetricType is an admin-managed category of observation, e.g. steps or sleep_hours.
// swagger:model MetricType
type MetricType struct {
	BaseModel
	Name        string   `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Unit        string   `gorm:"size:20;not null" json:"unit"`
	Description string   `gorm:"type:text" json:"description"`
	MinValue    *float64 `gorm:"type:decimal(10,2)" json:"min_value"`
	MaxValue    *float64 `gorm:"type:decimal(10,2)" json:"max_value"`
	IsActive    bool     `gorm:"not null" json:"is_active"`
}

func (MetricType) TableName() string {
	return "metric_types"
}

func (m *MetricType) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Unit)
}

// BoundsViolation returns a user-facing message when value falls outside the
// inclusive [MinValue, MaxValue] range, or "" when it fits. Unset bounds are open.
func (m *MetricType) BoundsViolation(value float64) string {
	if m.MinValue != nil && value < *m.MinValue {
		return fmt.Sprintf("Value must be at least %s for %s", formatDecimal(*m.MinValue), m.Name)
	}
	if m.MaxValue != nil && value > *m.MaxValue {
		return fmt.Sprintf("Value must be at most %s for %s", formatDecimal(*m.MaxValue), m.Name)
	}
	return ""
}

func formatDecimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
