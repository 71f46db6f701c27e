package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/middleware"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
)

// ==================== UserService 用户服务 ====================

// UserService 用户服务
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ==================== 认证相关 ====================

// Register 注册新用户
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.SysUser{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     model.UserRoleUser,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.toUserInfo(user), nil
}

// Login 用户登录
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 查找用户
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// 检查状态
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 生成 Token
	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	// 更新最后登录时间
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	cfg := middleware.GetJWTConfig()
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         s.toUserInfo(user),
	}, nil
}

// RefreshToken 刷新 Token
func (s *UserService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	// 解析 Refresh Token
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 验证是否为 Refresh Token
	if claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	// 获取用户信息（确保用户仍然有效）
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 生成新 Token
	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
	}, nil
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// 验证旧密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword))
}

// GetProfile 获取当前用户信息
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toUserInfo(user), nil
}

// ==================== 辅助方法 ====================

// toUserInfo 转换为 DTO
func (s *UserService) toUserInfo(user *model.SysUser) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = *user.LastLoginAt
	}
	return info
}

// ==================== 错误定义 ====================

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("用户已禁用")
	ErrInvalidToken       = errors.New("Token 无效")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidOldPassword = errors.New("旧密码错误")
	ErrEmailExists        = errors.New("邮箱已存在")
)
