package model

import (
	"time"
)

// Store 接入的 Shopify 店铺（租户根实体）
type Store struct {
	BaseModel
	// 1. 核心身份
	Name string `gorm:"size:100;not null"`
	// Shopify 店铺域名，如 "mystore.myshopify.com"，入库前统一转小写
	// 仅限制同一 owner 下唯一，跨 owner 重复由业务层容忍，webhook 解析取最早一条
	ShopifyDomain string `gorm:"size:255;index;not null"`

	// 2. API 凭证
	// AccessToken 为空时走 Mock 数据源（预览模式）
	ShopifyAccessToken string `gorm:"size:255"`
	// Webhook 签名密钥，为空时退回全局密钥，两者都未配置时不校验签名
	WebhookSecret string `gorm:"size:255"`

	// 3. 归属关系
	OwnerID int64    `gorm:"index;not null"`
	Owner   *SysUser `gorm:"foreignKey:OwnerID"`

	// 4. 店铺设置
	IsActive bool   `gorm:"default:true"`
	Currency string `gorm:"size:10;default:'USD'"`
	Timezone string `gorm:"size:50;default:'UTC'"`

	// 5. 同步状态
	// 仅在一次全量同步三类数据全部成功后更新
	LastSyncAt *time.Time `gorm:"comment:最后同步时间"`

	// 6. 审计字段，GORM 回调自动填充
	CreatedBy int64 `gorm:"default:0"`
	UpdatedBy int64 `gorm:"default:0"`
}

func (Store) TableName() string {
	return "stores"
}
