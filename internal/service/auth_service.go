package service

import (
	"errors"
	"fmt"
	"time"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/model"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/util"
	"quizbank_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo    *repository.UserRepository
	activitySvc *ActivityService
	cfg         *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, activitySvc *ActivityService, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		activitySvc: activitySvc,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates a teacher account. Admin accounts are provisioned
// out of band, never through this endpoint.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	exists, err := s.userRepo.EmailExists(input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     model.RoleTeacher,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return user, nil
}

func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if user.Disabled {
		return nil, util.ErrAccountDisabled
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		logger.Log.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	s.activitySvc.Record(user.ID, model.ActivityUserLogin,
		fmt.Sprintf("%s logged in", user.Name))

	return &LoginResult{Token: token, User: user}, nil
}

// ChangePassword verifies the current password before setting the new
// one.
func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return util.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hash)
	return s.userRepo.Update(user)
}

func (s *AuthService) Profile(userID uint) (*model.User, error) {
	return s.userRepo.FindByID(userID)
}
