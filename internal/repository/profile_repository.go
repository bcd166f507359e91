package repository

import (
	"context"
	"errors"

	"health_metrics_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: tx}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	return r.DB.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

// FindOrCreate returns the user's profile, inserting defaults on first access.
// A concurrent insert for the same user is tolerated by re-reading.
func (r *ProfileRepository) FindOrCreate(ctx context.Context, userID uint, defaults model.UserProfile) (*model.UserProfile, error) {
	profile, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults.UserID = userID
	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

func (r *ProfileRepository) Update(ctx context.Context, profile *model.UserProfile) error {
	return r.DB.WithContext(ctx).Model(&model.UserProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"date_of_birth":         profile.DateOfBirth,
			"height_cm":             profile.HeightCm,
			"timezone":              profile.Timezone,
			"notifications_enabled": profile.NotificationsEnabled,
		}).Error
}
