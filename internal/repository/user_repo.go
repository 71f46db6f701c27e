package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.SysUser) error
	GetByID(ctx context.Context, id int64) (*model.SysUser, error)
	GetByEmail(ctx context.Context, email string) (*model.SysUser, error)
	Update(ctx context.Context, user *model.SysUser) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.SysUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.SysUser, error) {
	var user model.SysUser
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.SysUser, error) {
	var user model.SysUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, user *model.SysUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdatePassword 更新密码
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&model.SysUser{}).
		Where("id = ?", id).
		Update("password", hashedPassword).Error
}

// UpdateLastLogin 更新最后登录时间
// 用 time.Now() 而不是 NOW()，sqlite 下测试也能跑
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.SysUser{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

// Delete 删除用户（软删除）
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.SysUser{}, id).Error
}

// ExistsByEmail 检查邮箱是否存在
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SysUser{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
