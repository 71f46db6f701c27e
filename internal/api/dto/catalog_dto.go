package dto

import "time"

// 客户/商品/订单的只读列表接口响应

// ==================== 客户 ====================

// CustomerInfo 客户信息
type CustomerInfo struct {
	ID               int64     `json:"id"`
	ShopifyCustomerID string   `json:"shopify_customer_id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	TotalSpent       float64   `json:"total_spent"`
	OrdersCount      int       `json:"orders_count"`
	State            string    `json:"state"`
	Tags             []string  `json:"tags"`
	AcceptsMarketing bool      `json:"accepts_marketing"`
	CreatedAt        time.Time `json:"created_at"`
}

// CustomerListResponse 客户列表响应
type CustomerListResponse struct {
	List  []*CustomerInfo `json:"list"`
	Total int64           `json:"total"`
}

// ==================== 商品 ====================

// ProductInfo 商品信息
type ProductInfo struct {
	ID                int64     `json:"id"`
	ShopifyProductID  string    `json:"shopify_product_id"`
	Title             string    `json:"title"`
	Handle            string    `json:"handle"`
	ProductType       string    `json:"product_type"`
	Vendor            string    `json:"vendor"`
	Status            string    `json:"status"`
	Tags              []string  `json:"tags"`
	Price             float64   `json:"price"`
	CompareAtPrice    float64   `json:"compare_at_price,omitempty"`
	InventoryQuantity int       `json:"inventory_quantity"`
	CreatedAt         time.Time `json:"created_at"`
}

// ProductListResponse 商品列表响应
type ProductListResponse struct {
	List  []*ProductInfo `json:"list"`
	Total int64          `json:"total"`
}

// ==================== 订单 ====================

// OrderListRequest 订单列表请求
type OrderListRequest struct {
	StartDate string `form:"start_date"` // "YYYY-MM-DD"
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// OrderLineItemInfo 订单项信息
type OrderLineItemInfo struct {
	ID               int64   `json:"id"`
	ShopifyProductID string  `json:"shopify_product_id"`
	ShopifyVariantID string  `json:"shopify_variant_id"`
	Title            string  `json:"title"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
	TotalDiscount    float64 `json:"total_discount"`
	SKU              string  `json:"sku"`
}

// OrderInfo 订单信息
type OrderInfo struct {
	ID                int64               `json:"id"`
	ShopifyOrderID    string              `json:"shopify_order_id"`
	OrderNumber       string              `json:"order_number"`
	CustomerID        *int64              `json:"customer_id"`
	CustomerEmail     string              `json:"customer_email"`
	TotalPrice        float64             `json:"total_price"`
	SubtotalPrice     float64             `json:"subtotal_price"`
	TotalTax          float64             `json:"total_tax"`
	TotalDiscounts    float64             `json:"total_discounts"`
	Currency          string              `json:"currency"`
	FinancialStatus   string              `json:"financial_status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	Tags              []string            `json:"tags"`
	OrderDate         string              `json:"order_date"`
	Items             []OrderLineItemInfo `json:"items,omitempty"`
}

// OrderListResponse 订单列表响应
type OrderListResponse struct {
	List  []*OrderInfo `json:"list"`
	Total int64        `json:"total"`
}
