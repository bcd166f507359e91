package model

import "time"

// swagger:model UserProfile
type UserProfile struct {
	BaseModel
	UserID               uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User                 *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DateOfBirth          *time.Time `gorm:"type:date" json:"date_of_birth"`
	HeightCm             *int       `json:"height_cm"`
	Timezone             string     `gorm:"size:50;not null" json:"timezone"`
	NotificationsEnabled bool       `gorm:"not null" json:"notifications_enabled"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// Age in whole years on today, nil without a date of birth.
func (p *UserProfile) Age(today time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := *p.DateOfBirth
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return &age
}
