package service

import (
	"context"
	"errors"
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"

	"gorm.io/gorm"
)

const defaultProfileTimezone = "UTC"

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	UserRepo    *repository.UserRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository, userRepo *repository.UserRepository) *ProfileService {
	return &ProfileService{
		ProfileRepo: profileRepo,
		UserRepo:    userRepo,
	}
}

type UpdateProfileRequest struct {
	DateOfBirth          *string `json:"date_of_birth"`
	HeightCm             *int    `json:"height_cm" binding:"omitempty,min=50,max=300"`
	Timezone             *string `json:"timezone" binding:"omitempty,max=50"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

// DefaultProfile is what a user gets before ever editing their profile.
func DefaultProfile() model.UserProfile {
	return model.UserProfile{
		Timezone:             defaultProfileTimezone,
		NotificationsEnabled: true,
	}
}

// Get returns the profile, creating it on first access.
func (s *ProfileService) Get(ctx context.Context, userID uint, today time.Time) (*ProfileView, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	profile, err := s.ProfileRepo.FindOrCreate(ctx, userID, DefaultProfile())
	if err != nil {
		return nil, err
	}
	v := newProfileView(profile, user, today)
	return &v, nil
}

// Update applies the fields present in req. An empty date_of_birth clears it.
func (s *ProfileService) Update(ctx context.Context, userID uint, req UpdateProfileRequest, today time.Time) (*ProfileView, error) {
	profile, err := s.ProfileRepo.FindOrCreate(ctx, userID, DefaultProfile())
	if err != nil {
		return nil, err
	}

	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			profile.DateOfBirth = nil
		} else {
			dob, err := util.ParseDate(*req.DateOfBirth)
			if err != nil {
				return nil, util.NewValidationError("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
			}
			if dob.After(util.DateOnly(today)) {
				return nil, util.NewValidationError("date_of_birth", "Date of birth cannot be in the future.")
			}
			profile.DateOfBirth = &dob
		}
	}
	if req.HeightCm != nil {
		profile.HeightCm = req.HeightCm
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, util.NewValidationError("timezone", "Unknown timezone.")
		}
		profile.Timezone = *req.Timezone
	}
	if req.NotificationsEnabled != nil {
		profile.NotificationsEnabled = *req.NotificationsEnabled
	}

	if err := s.ProfileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, today)
}
