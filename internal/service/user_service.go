package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mauryavansham-service/internal/apperrors"
	"mauryavansham-service/internal/model"
	"mauryavansham-service/internal/validation"
	"mauryavansham-service/pkg/jwtutil"
	"mauryavansham-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is a sign-up request
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UserService handles accounts, sign-in and approval
type UserService struct {
	db  *gorm.DB
	jwt *jwtutil.JWTUtil
	log *zap.Logger
}

func NewUserService(db *gorm.DB, jwt *jwtutil.JWTUtil, log *zap.Logger) *UserService {
	return &UserService{db: db, jwt: jwt, log: log}
}

// Register creates a pending account
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := logFor(ctx, s.log)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	if !validation.Email(in.Email) {
		errs["email"] = "Valid email is required"
	}
	if in.Phone != "" && !validation.Phone(in.Phone) {
		errs["phone"] = "Phone must be 10 digits"
	}
	if len(in.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	if len(errs) > 0 {
		return nil, apperrors.ValidationFields(errs)
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if count > 0 {
		return nil, apperrors.Conflict("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	u := &model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hashed),
		Role:     model.RoleUser,
		Status:   model.UserStatusPending,
	}
	defer prometheus.TrackDBOperation("insert_user")(time.Now())
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Internal(err)
	}

	log.Info("User registered", zap.Uint("user_id", u.ID))
	return u, nil
}

// Login checks credentials and returns a signed token for approved accounts
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	log := logFor(ctx, s.log)
	prometheus.AuthAttemptsCounter.Inc()

	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		prometheus.AuthErrorsCounter.Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Unauthorized("Invalid credentials")
		}
		return "", nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		prometheus.AuthErrorsCounter.Inc()
		log.Warn("Invalid password", zap.Uint("user_id", u.ID))
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}

	if !u.IsApproved() {
		prometheus.AuthErrorsCounter.Inc()
		return "", nil, apperrors.Forbidden("Your account is awaiting approval")
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return "", nil, apperrors.Internal(err)
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("User logged in", zap.Uint("user_id", u.ID))
	return token, &u, nil
}

// SetStatus approves or rejects an account
func (s *UserService) SetStatus(ctx context.Context, id uint, status model.UserStatus) (*model.User, error) {
	switch status {
	case model.UserStatusApproved, model.UserStatusRejected, model.UserStatusPending:
	default:
		return nil, apperrors.Validation("status must be pending, approved or rejected")
	}

	db := s.db.WithContext(ctx)
	var u model.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "User")
	}
	if err := db.Model(&u).Update("status", status).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	logFor(ctx, s.log).Info("User status changed", zap.Uint("user_id", id), zap.String("status", string(status)))
	return &u, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "User")
	}
	return &u, nil
}
