package shopify

import "context"

// ==================== 数据源抽象 ====================

// Credentials 访问一家店铺所需的凭证
type Credentials struct {
	// 店铺域名，如 "mystore.myshopify.com"
	Domain string
	// Admin API 访问令牌，为空时应使用 Mock 数据源
	AccessToken string
}

// Source 店铺数据源
// 生产环境为 Shopify Admin API，预览/测试环境为 Mock 生成器
type Source interface {
	FetchCustomers(ctx context.Context, creds Credentials) ([]Customer, error)
	FetchProducts(ctx context.Context, creds Credentials) ([]Product, error)
	FetchOrders(ctx context.Context, creds Credentials) ([]Order, error)
}

// ==================== 源记录 ====================

// Customer 源客户记录
type Customer struct {
	ID               string
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	TotalSpent       float64
	OrdersCount      int
	State            string
	Tags             []string
	AcceptsMarketing bool
	CreatedAt        string // ISO 时间字符串
	UpdatedAt        string
}

// Product 源商品记录（价格/库存已折算到首个变体）
type Product struct {
	ID                string
	Title             string
	Handle            string
	ProductType       string
	Vendor            string
	Status            string
	Tags              []string
	Price             float64
	CompareAtPrice    float64
	InventoryQuantity int
	CreatedAt         string
	UpdatedAt         string
}

// Order 源订单记录
type Order struct {
	ID                string
	OrderNumber       string
	CustomerID        string // 源侧客户 ID，可为空
	Email             string
	TotalPrice        float64
	SubtotalPrice     float64
	TotalTax          float64
	TotalDiscounts    float64
	Currency          string
	FinancialStatus   string
	FulfillmentStatus string
	Tags              []string
	CreatedAt         string // 同时作为订单日期
	UpdatedAt         string
	LineItems         []LineItem

	// 原始负载，仅 webhook 路径携带
	Raw []byte
}

// LineItem 源订单项
type LineItem struct {
	ProductID     string
	VariantID     string
	Title         string
	Quantity      int
	Price         float64
	TotalDiscount float64
	SKU           string
}
