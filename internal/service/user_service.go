package service

import (
	"context"
	"errors"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/util"
	"sdo_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateUserRequest registers a user with the tracker.
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,notblank,max=150"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"omitempty,email"`
	FirstName   string `json:"firstName" binding:"max=150"`
	LastName    string `json:"lastName" binding:"max=150"`
	Description string `json:"description" binding:"max=500"`
	Role        string `json:"role" binding:"omitempty,oneof=user admin"`
}

// UpdateUserRequest edits a user's profile. An empty password keeps the old one.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Email       string `json:"email" binding:"omitempty,email"`
	FirstName   string `json:"firstName" binding:"max=150"`
	LastName    string `json:"lastName" binding:"max=150"`
	Description string `json:"description" binding:"max=500"`
	Role        string `json:"role" binding:"omitempty,oneof=user admin"`
	Password    string `json:"password" binding:"omitempty,min=8"`
}

type UserService struct {
	UserRepo       *repository.UserRepository
	MembershipRepo *repository.MembershipRepository
	Cache          *repository.CountsCache
}

func NewUserService(userRepo *repository.UserRepository, membershipRepo *repository.MembershipRepository, cache *repository.CountsCache) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		MembershipRepo: membershipRepo,
		Cache:          cache,
	}
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if _, err := s.UserRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, util.NewValidationError("username", "already taken")
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if req.Role != "" {
		role = model.UserRole(req.Role)
	}
	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Description: req.Description,
		Password:    string(hashed),
		Role:        role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Log.Info("User created", zap.Uint("userId", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, query string, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(ctx, query, page, limit)
}

func (s *UserService) Update(ctx context.Context, id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Description = req.Description
	if req.Role != "" {
		user.Role = model.UserRole(req.Role)
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (s *UserService) CheckPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Cache.Invalidate(ctx, id); err != nil {
		logger.Log.Warn("Failed to invalidate counts cache", zap.Uint("userId", id), zap.Error(err))
	}
	logger.Log.Info("User deleted", zap.Uint("userId", id))
	return nil
}
