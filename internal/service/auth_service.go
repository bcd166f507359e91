package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"health_metrics_backend/internal/config"
	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/util"
	"health_metrics_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthService struct {
	DB          *gorm.DB
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.ProfileRepository
	Blacklist   repository.TokenBlacklist
	Cfg         *config.Config
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	blacklist repository.TokenBlacklist,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		DB:          db,
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		Blacklist:   blacklist,
		Cfg:         cfg,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"omitempty,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterResult struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return util.NewValidationError("password", "This password is too short. It must contain at least 8 characters.")
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return util.NewValidationError("password", "This password is entirely numeric.")
	}
	return nil
}

// Register creates the user together with a default profile and returns a token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Password != req.PasswordConfirm {
		return nil, util.NewValidationError("password_confirm", "Passwords do not match.")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	taken, err := s.UserRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.NewValidationError("username", "A user with that username already exists.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     model.RoleUser,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := DefaultProfile()
		profile.UserID = user.ID
		return s.ProfileRepo.WithTx(tx).Create(ctx, &profile)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, util.NewValidationError("username", "A user with that username already exists.")
	}
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.Expiration())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return &RegisterResult{User: NewUserView(user), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.UserRepo.FindByUsername(ctx, req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.Expiration())
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims.ID == "" {
		return nil
	}
	if err := s.Blacklist.Revoke(ctx, claims.ID, claims.TTL(time.Now())); err != nil {
		return err
	}
	logger.Log.Info("Token revoked", zap.Uint("user_id", claims.UserID))
	return nil
}

// IsRevoked is consulted by the auth middleware on every request.
func (s *AuthService) IsRevoked(ctx context.Context, claims *util.Claims) (bool, error) {
	if claims.ID == "" {
		return false, nil
	}
	return s.Blacklist.IsRevoked(ctx, claims.ID)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*UserView, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	v := NewUserView(user)
	return &v, nil
}

// OwnerByUsername resolves an account for callers that act without a token,
// such as the MCP server.
func (s *AuthService) OwnerByUsername(ctx context.Context, username string) (Owner, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Owner{}, util.ErrUserNotFound
	}
	if err != nil {
		return Owner{}, err
	}
	return Owner{ID: user.ID, Username: user.Username}, nil
}

// EnsureAdmin creates or promotes an admin account. Used by the seed command.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		user.Role = model.RoleAdmin
		return user, s.UserRepo.Update(ctx, user)
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = &model.User{Username: username, Password: string(hashedPassword), Role: model.RoleAdmin}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		profile := DefaultProfile()
		profile.UserID = user.ID
		return s.ProfileRepo.WithTx(tx).Create(ctx, &profile)
	})
	return user, err
}
