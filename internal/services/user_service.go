package services

import (
	"context"
	"errors"

	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/utils"
)

// UserService 用户服务
type UserService struct {
	userRepo *repositories.UserRepository
	staged   *StagedActionStore
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo *repositories.UserRepository, staged *StagedActionStore) *UserService {
	return &UserService{
		userRepo: userRepo,
		staged:   staged,
	}
}

// GetProfile 获取用户信息
func (s *UserService) GetProfile(userID uint) (*UserDTO, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user), nil
}

// UpdateProfileRequest 更新个人信息请求
type UpdateProfileRequest struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfile 更新昵称、头像
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if !utils.ValidatePassword(newPassword) {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !utils.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = newHash

	return s.userRepo.Update(user)
}

// Deactivate 停用账号（幂等）
func (s *UserService) Deactivate(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.SetDeactivated(userID, true)
}

// Reactivate 恢复账号（幂等）
// Coming back also discards any staged group decisions: a later deletion
// attempt has to start over from a fresh eligibility fetch.
func (s *UserService) Reactivate(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.SetDeactivated(userID, false); err != nil {
		return err
	}
	return s.staged.Clear(ctx, userID)
}
