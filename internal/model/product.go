package model

import (
	"github.com/lib/pq"
)

// 商品状态常量（Shopify status 字段）
const (
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
	ProductStatusDraft    = "draft"
)

// Product 店铺商品
// 自然键: (store_id, shopify_product_id)
type Product struct {
	BaseModel
	StoreID          int64  `gorm:"index;uniqueIndex:idx_store_product;not null"`
	ShopifyProductID string `gorm:"size:64;uniqueIndex:idx_store_product;not null"`

	Title       string `gorm:"size:255;not null"`
	Handle      string `gorm:"size:255"`
	ProductType string `gorm:"size:100"`
	Vendor      string `gorm:"size:100"`
	Status      string `gorm:"size:20"`

	Tags pq.StringArray `gorm:"type:text[]"`

	// 价格与库存取首个变体
	Price             float64 `gorm:"default:0"`
	CompareAtPrice    float64 `gorm:"default:0"`
	InventoryQuantity int     `gorm:"default:0"`

	ShopifyCreatedAt string `gorm:"size:40"`
	ShopifyUpdatedAt string `gorm:"size:40"`
}

func (Product) TableName() string {
	return "products"
}
