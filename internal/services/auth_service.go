package services

import (
	"context"
	"errors"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/utils"
	pkgutils "github.com/scenestack/scenestack/pkg/utils"
)

// AuthService 认证服务
type AuthService struct {
	userRepo *repositories.UserRepository
	denylist *TokenDenylist
}

// NewAuthService 创建认证服务实例
func NewAuthService(userRepo *repositories.UserRepository, denylist *TokenDenylist) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		denylist: denylist,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UserDTO 用户数据传输对象
type UserDTO struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	AvatarURL     string `json:"avatar_url"`
	IsPremium     bool   `json:"is_premium"`
	IsDeactivated bool   `json:"is_deactivated"`
}

func toUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Nickname:      user.Nickname,
		AvatarURL:     user.AvatarURL,
		IsPremium:     user.IsPremium,
		IsDeactivated: user.IsDeactivated,
	}
}

// Register 注册用户
// A previously deleted account's email is free again: the tombstone row kept
// its history but gave up the identity fields, so this allocates a new id.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	var problems []string
	if !utils.ValidateUsername(req.Username) {
		problems = append(problems, "invalid username format")
	}
	if !utils.ValidateEmail(req.Email) {
		problems = append(problems, "invalid email format")
	}
	if !utils.ValidatePassword(req.Password) {
		problems = append(problems, "password must be at least 8 characters")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Messages: problems}
	}

	existsUsername, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if existsUsername {
		return nil, errors.New("username already exists")
	}

	existsEmail, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existsEmail {
		return nil, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Nickname:     req.Username,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := pkgutils.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  toUserDTO(user),
	}, nil
}

// Logout 登出用户
// The token is denied until its expiry; an unparsable token is already
// unusable, so logging it out succeeds silently.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := pkgutils.ParseToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Deny(ctx, token, claims.ExpiresAt.Time)
}

// Login 登录用户
// Deactivated accounts may still log in so their owner can reactivate them;
// deleted accounts are invisible to the lookup and fail like a bad password.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid username or password")
	}

	token, err := pkgutils.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  toUserDTO(user),
	}, nil
}
