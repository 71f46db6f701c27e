package model

import (
	"strings"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// 订单财务状态常量（Shopify financial_status 字段）
const (
	FinancialStatusPending       = "pending"
	FinancialStatusAuthorized    = "authorized"
	FinancialStatusPartiallyPaid = "partially_paid"
	FinancialStatusPaid          = "paid"
	FinancialStatusRefunded      = "refunded"
	FinancialStatusVoided        = "voided"
)

// Order 店铺订单
// 自然键: (store_id, shopify_order_id)
type Order struct {
	BaseModel
	StoreID        int64  `gorm:"index;uniqueIndex:idx_store_order;index:idx_store_order_date;not null"`
	ShopifyOrderID string `gorm:"size:64;uniqueIndex:idx_store_order;not null"`

	OrderNumber string `gorm:"size:50"`

	// 客户关联（可空，按 shopify_customer_id 点查解析）
	CustomerID    *int64    `gorm:"index"`
	Customer      *Customer `gorm:"foreignKey:CustomerID"`
	CustomerEmail string    `gorm:"size:255"`

	// 金额字段保留浮点表示（与 Shopify 报表口径一致）
	TotalPrice     float64 `gorm:"default:0"`
	SubtotalPrice  float64 `gorm:"default:0"`
	TotalTax       float64 `gorm:"default:0"`
	TotalDiscounts float64 `gorm:"default:0"`
	Currency       string  `gorm:"size:10;not null"`

	FinancialStatus   string `gorm:"size:30"`
	FulfillmentStatus string `gorm:"size:30"`

	Tags pq.StringArray `gorm:"type:text[]"`

	// 下单时间，ISO 字符串，范围查询与分桶聚合的键
	OrderDate string `gorm:"size:40;index:idx_store_order_date;not null"`

	ShopifyCreatedAt string `gorm:"size:40"`
	ShopifyUpdatedAt string `gorm:"size:40"`

	// 原始 webhook 负载，仅 webhook 路径写入，排错用
	RawPayload datatypes.JSON `gorm:"type:jsonb"`

	// 订单项 (Has Many)
	Items []OrderLineItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderDateDay 下单日期的天级分桶键 "YYYY-MM-DD"
func (o *Order) OrderDateDay() string {
	if i := strings.IndexByte(o.OrderDate, 'T'); i >= 0 {
		return o.OrderDate[:i]
	}
	return o.OrderDate
}

// OrderLineItem 订单项
// 匹配键: (order_id, shopify_product_id)
// 注意：不含 variant id，同一订单内同商品多变体会相互覆盖（沿用 Shopify 同步侧既有行为）
type OrderLineItem struct {
	BaseModel
	StoreID int64 `gorm:"index;not null"`
	OrderID int64 `gorm:"index;not null"`

	// 商品关联（可空）
	ProductID        *int64 `gorm:"index"`
	ShopifyProductID string `gorm:"size:64;index"`
	ShopifyVariantID string `gorm:"size:64"`

	Title         string  `gorm:"size:255;not null"`
	Quantity      int     `gorm:"default:1"`
	Price         float64 `gorm:"default:0"`
	TotalDiscount float64 `gorm:"default:0"`
	SKU           string  `gorm:"size:100"`
}

func (OrderLineItem) TableName() string {
	return "order_line_items"
}
