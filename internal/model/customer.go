package model

import (
	"strings"

	"github.com/lib/pq"
)

// 客户状态常量（Shopify state 字段）
const (
	CustomerStateEnabled  = "enabled"
	CustomerStateDisabled = "disabled"
	CustomerStateInvited  = "invited"
	CustomerStateDeclined = "declined"
)

// Customer 店铺客户
// 自然键: (store_id, shopify_customer_id)，由联合唯一索引保证
type Customer struct {
	BaseModel
	StoreID           int64  `gorm:"index;uniqueIndex:idx_store_customer;not null"`
	ShopifyCustomerID string `gorm:"size:64;uniqueIndex:idx_store_customer;not null"`

	// 联系信息
	Email     string `gorm:"size:255;index"`
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	Phone     string `gorm:"size:50"`

	// 消费指标
	// 金额保留浮点表示，与 Shopify 报表口径一致
	TotalSpent  float64 `gorm:"default:0"`
	OrdersCount int     `gorm:"default:0"`

	State            string         `gorm:"size:20"`
	Tags             pq.StringArray `gorm:"type:text[]"`
	AcceptsMarketing bool           `gorm:"default:false"`

	// Shopify 侧时间戳（ISO 字符串原样保存）
	ShopifyCreatedAt string `gorm:"size:40"`
	ShopifyUpdatedAt string `gorm:"size:40"`
}

func (Customer) TableName() string {
	return "customers"
}

// DisplayName 展示名: "first last"，为空时退回邮箱，再退回 Unknown
func (c *Customer) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name != "" {
		return name
	}
	if c.Email != "" {
		return c.Email
	}
	return "Unknown"
}
