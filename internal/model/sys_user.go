package model

import "time"

// 用户角色常量
const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// SysUser 系统用户（店铺所有者）
type SysUser struct {
	BaseModel
	// 基础信息
	Email    string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Name     string `gorm:"size:100"`

	// 系统级角色: admin (管理员), user (普通用户)
	Role string `gorm:"size:20;default:'user'"`

	IsActive    bool `gorm:"default:true"`
	LastLoginAt *time.Time

	// 用户拥有的店铺 (Has Many)
	Stores []Store `gorm:"foreignKey:OwnerID"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
