package model

import (
	"time"
)

// BaseModel carries no soft-delete column: observations and goals are
// guarded by unique indexes that a tombstoned row would keep occupying.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
