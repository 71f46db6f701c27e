package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
	"shoplytics_v1_202601/pkg/shopify"
)

// ==================== WebhookService Webhook 服务 ====================

// Webhook 响应文案
const (
	WebhookResultOK        = "OK"
	WebhookResultUnhandled = "Unhandled topic"
)

// WebhookService Shopify webhook 处理服务
// 按主题前缀路由到对应实体的 upsert，写入路径与同步管道共用
type WebhookService struct {
	storeRepo repository.StoreRepository
	syncSvc   *SyncService

	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository

	// 店铺未配置 WebhookSecret 时的全局回退密钥
	fallbackSecret string
}

// NewWebhookService 创建 webhook 服务
func NewWebhookService(
	storeRepo repository.StoreRepository,
	syncSvc *SyncService,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
) *WebhookService {
	return &WebhookService{
		storeRepo:    storeRepo,
		syncSvc:      syncSvc,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// SetFallbackSecret 设置全局回退密钥
func (s *WebhookService) SetFallbackSecret(secret string) {
	s.fallbackSecret = secret
}

// Process 处理一条 webhook
// domain 匹配不区分大小写；店铺配置了 WebhookSecret 时强制校验签名
// 未识别的主题返回 WebhookResultUnhandled（调用方应回 200 确认，避免 Shopify 重发）
func (s *WebhookService) Process(ctx context.Context, topic, domain, hmacHeader string, body []byte) (string, error) {
	store, err := s.storeRepo.GetByDomain(ctx, strings.ToLower(domain))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrStoreNotFound
	}
	if err != nil {
		return "", err
	}

	secret := store.WebhookSecret
	if secret == "" {
		secret = s.fallbackSecret
	}
	if secret != "" {
		if !verifySignature(secret, hmacHeader, body) {
			return "", ErrBadSignature
		}
	}

	switch {
	case strings.HasPrefix(topic, "customers/"):
		err = s.handleCustomer(ctx, store, body)
	case strings.HasPrefix(topic, "products/"):
		err = s.handleProduct(ctx, store, body)
	case strings.HasPrefix(topic, "orders/"):
		err = s.handleOrder(ctx, store, body)
	default:
		log.Printf("[WebhookService] 店铺 %s 未处理的主题: %s", store.ShopifyDomain, topic)
		return WebhookResultUnhandled, nil
	}
	if err != nil {
		return "", err
	}
	return WebhookResultOK, nil
}

// ==================== 主题处理 ====================

func (s *WebhookService) handleCustomer(ctx context.Context, store *model.Store, body []byte) error {
	var payload dto.WebhookCustomerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ErrInvalidPayload
	}
	if payload.ID == "" {
		return ErrInvalidPayload
	}

	_, err := s.customerRepo.Upsert(ctx, &model.Customer{
		StoreID:           store.ID,
		ShopifyCustomerID: payload.ID.String(),
		Email:             payload.Email,
		FirstName:         payload.FirstName,
		LastName:          payload.LastName,
		Phone:             payload.Phone,
		TotalSpent:        payload.TotalSpent.Float64(),
		OrdersCount:       payload.OrdersCount,
		State:             payload.State,
		Tags:              []string(payload.Tags),
		AcceptsMarketing:  payload.AcceptsMarketing,
		ShopifyCreatedAt:  payload.CreatedAt,
		ShopifyUpdatedAt:  payload.UpdatedAt,
	})
	return err
}

func (s *WebhookService) handleProduct(ctx context.Context, store *model.Store, body []byte) error {
	var payload dto.WebhookProductPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ErrInvalidPayload
	}
	if payload.ID == "" {
		return ErrInvalidPayload
	}

	title := payload.Title
	if title == "" {
		title = "Untitled"
	}

	// 价格/库存取首个变体
	var price, compareAtPrice float64
	var inventoryQuantity int
	if len(payload.Variants) > 0 {
		variant := payload.Variants[0]
		price = variant.Price.Float64()
		if variant.CompareAtPrice != nil {
			compareAtPrice = variant.CompareAtPrice.Float64()
		}
		inventoryQuantity = variant.InventoryQuantity
	}

	_, err := s.productRepo.Upsert(ctx, &model.Product{
		StoreID:           store.ID,
		ShopifyProductID:  payload.ID.String(),
		Title:             title,
		Handle:            payload.Handle,
		ProductType:       payload.ProductType,
		Vendor:            payload.Vendor,
		Status:            payload.Status,
		Tags:              []string(payload.Tags),
		Price:             price,
		CompareAtPrice:    compareAtPrice,
		InventoryQuantity: inventoryQuantity,
		ShopifyCreatedAt:  payload.CreatedAt,
		ShopifyUpdatedAt:  payload.UpdatedAt,
	})
	return err
}

func (s *WebhookService) handleOrder(ctx context.Context, store *model.Store, body []byte) error {
	var payload dto.WebhookOrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ErrInvalidPayload
	}
	if payload.ID == "" {
		return ErrInvalidPayload
	}

	currency := payload.Currency
	if currency == "" {
		currency = store.Currency
	}
	if currency == "" {
		currency = "USD"
	}

	orderDate := payload.CreatedAt
	if orderDate == "" {
		orderDate = time.Now().UTC().Format(time.RFC3339)
	}

	order := shopify.Order{
		ID:                payload.ID.String(),
		OrderNumber:       payload.OrderNumber.String(),
		Email:             payload.Email,
		TotalPrice:        payload.TotalPrice.Float64(),
		SubtotalPrice:     payload.SubtotalPrice.Float64(),
		TotalTax:          payload.TotalTax.Float64(),
		TotalDiscounts:    payload.TotalDiscounts.Float64(),
		Currency:          currency,
		FinancialStatus:   payload.FinancialStatus,
		FulfillmentStatus: payload.FulfillmentStatus,
		Tags:              []string(payload.Tags),
		CreatedAt:         orderDate,
		UpdatedAt:         payload.UpdatedAt,
		Raw:               body,
	}
	if payload.Customer != nil {
		order.CustomerID = payload.Customer.ID.String()
	}

	for _, li := range payload.LineItems {
		title := li.Title
		if title == "" {
			title = "Item"
		}
		quantity := li.Quantity
		if quantity == 0 {
			quantity = 1
		}

		item := shopify.LineItem{
			Title:         title,
			Quantity:      quantity,
			Price:         li.Price.Float64(),
			TotalDiscount: li.TotalDiscount.Float64(),
			SKU:           li.SKU,
		}
		if li.ProductID != nil {
			item.ProductID = li.ProductID.String()
		}
		if li.VariantID != nil {
			item.VariantID = li.VariantID.String()
		}
		order.LineItems = append(order.LineItems, item)
	}

	return s.syncSvc.upsertOrderWithItems(ctx, store.ID, order)
}

// ==================== 签名校验 ====================

// verifySignature 校验 X-Shopify-Hmac-Sha256 头（原始请求体的 HMAC-SHA256，base64 编码）
func verifySignature(secret, header string, body []byte) bool {
	if header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}

// ==================== 错误定义 ====================

var (
	ErrInvalidPayload = errors.New("webhook 负载解析失败")
	ErrBadSignature   = errors.New("webhook 签名校验失败")
)
