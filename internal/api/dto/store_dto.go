package dto

import "time"

// ==================== 店铺请求 ====================

// CreateStoreRequest 创建店铺请求
type CreateStoreRequest struct {
	Name               string `json:"name" binding:"required"`
	ShopifyDomain      string `json:"shopify_domain" binding:"required"`
	ShopifyAccessToken string `json:"shopify_access_token"`
	WebhookSecret      string `json:"webhook_secret"`
	Currency           string `json:"currency"`
	Timezone           string `json:"timezone"`
}

// UpdateStoreRequest 更新店铺请求，空指针表示不修改
type UpdateStoreRequest struct {
	Name               *string `json:"name"`
	ShopifyAccessToken *string `json:"shopify_access_token"`
	WebhookSecret      *string `json:"webhook_secret"`
	IsActive           *bool   `json:"is_active"`
	Currency           *string `json:"currency"`
	Timezone           *string `json:"timezone"`
}

// ==================== 店铺响应 ====================

// StoreInfo 店铺信息
type StoreInfo struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	ShopifyDomain string     `json:"shopify_domain"`
	IsActive      bool       `json:"is_active"`
	Currency      string     `json:"currency"`
	Timezone      string     `json:"timezone"`
	LastSyncAt    *time.Time `json:"last_sync_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StoreListResponse 店铺列表响应
type StoreListResponse struct {
	List  []*StoreInfo `json:"list"`
	Total int          `json:"total"`
}
