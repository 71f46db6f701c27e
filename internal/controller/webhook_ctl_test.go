package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
	"shoplytics_v1_202601/internal/service"
	"shoplytics_v1_202601/pkg/shopify"
)

// ==================== 测试基础设施 ====================

func setupWebhookRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.SysUser{}, &model.Store{},
		&model.Customer{}, &model.Product{},
		&model.Order{}, &model.OrderLineItem{},
		&model.SyncLog{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	storeRepo := repository.NewStoreRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	mockSource := shopify.NewMockSource()

	syncSvc := service.NewSyncService(
		storeRepo, customerRepo, productRepo,
		repository.NewOrderRepository(db),
		repository.NewOrderLineItemRepository(db),
		repository.NewSyncLogRepository(db),
		mockSource, mockSource,
	)
	webhookSvc := service.NewWebhookService(storeRepo, syncSvc, customerRepo, productRepo)

	r := gin.New()
	r.POST("/webhooks/shopify", NewWebhookController(webhookSvc).HandleShopify)
	return r, db
}

func postWebhook(r *gin.Engine, path string, headers map[string]string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedStore(t *testing.T, db *gorm.DB) *model.Store {
	store := &model.Store{
		Name:          "Webhook Store",
		ShopifyDomain: "hooked.myshopify.com",
		OwnerID:       1,
		IsActive:      true,
		Currency:      "USD",
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("创建测试店铺失败: %v", err)
	}
	return store
}

// ==================== 接口行为 ====================

func TestHandleShopify_MissingShopDomain(t *testing.T) {
	r, _ := setupWebhookRouter(t)

	w := postWebhook(r, "/webhooks/shopify", map[string]string{
		"X-Shopify-Topic": "orders/create",
	}, []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing shop domain", w.Body.String())
}

func TestHandleShopify_UnknownStore(t *testing.T) {
	r, _ := setupWebhookRouter(t)

	w := postWebhook(r, "/webhooks/shopify", map[string]string{
		"X-Shopify-Topic":       "orders/create",
		"X-Shopify-Shop-Domain": "nobody.myshopify.com",
	}, []byte(`{}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Store not found", w.Body.String())
}

func TestHandleShopify_ShopQueryFallback(t *testing.T) {
	r, db := setupWebhookRouter(t)
	seedStore(t, db)

	// 请求头缺失时允许 ?shop= 兜底
	w := postWebhook(r, "/webhooks/shopify?shop=hooked.myshopify.com", map[string]string{
		"X-Shopify-Topic": "customers/create",
	}, []byte(`{"id": 101, "email": "c@example.com"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHandleShopify_UnhandledTopic(t *testing.T) {
	r, db := setupWebhookRouter(t)
	seedStore(t, db)

	w := postWebhook(r, "/webhooks/shopify", map[string]string{
		"X-Shopify-Topic":       "app/uninstalled",
		"X-Shopify-Shop-Domain": "hooked.myshopify.com",
	}, []byte(`{}`))

	// 未识别主题仍回 200，避免 Shopify 反复重发
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Unhandled topic", w.Body.String())
}

func TestHandleShopify_InvalidPayload(t *testing.T) {
	r, db := setupWebhookRouter(t)
	seedStore(t, db)

	w := postWebhook(r, "/webhooks/shopify", map[string]string{
		"X-Shopify-Topic":       "orders/create",
		"X-Shopify-Shop-Domain": "hooked.myshopify.com",
	}, []byte(`not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid payload", w.Body.String())
}

func TestHandleShopify_BadSignature(t *testing.T) {
	r, db := setupWebhookRouter(t)

	store := &model.Store{
		Name:          "Secured Store",
		ShopifyDomain: "secured.myshopify.com",
		WebhookSecret: "shhh",
		OwnerID:       1,
		IsActive:      true,
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("创建测试店铺失败: %v", err)
	}

	w := postWebhook(r, "/webhooks/shopify", map[string]string{
		"X-Shopify-Topic":        "customers/create",
		"X-Shopify-Shop-Domain":  "secured.myshopify.com",
		"X-Shopify-Hmac-Sha256":  "bogus",
	}, []byte(`{"id": 1}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid signature", w.Body.String())
}

func TestHandleShopify_OrderCreate(t *testing.T) {
	r, db := setupWebhookRouter(t)
	store := seedStore(t, db)

	body := []byte(`{
		"id": 9001,
		"order_number": 1042,
		"total_price": "120.00",
		"currency": "USD",
		"financial_status": "paid",
		"created_at": "2026-08-20T10:00:00Z",
		"line_items": [
			{"product_id": 8001, "title": "Widget", "quantity": 2, "price": "60.00"}
		]
	}`)

	w := postWebhook(r, "/webhooks/shopify", map[string]string{
		"X-Shopify-Topic":       "orders/create",
		"X-Shopify-Shop-Domain": "hooked.myshopify.com",
	}, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	var order model.Order
	err := db.Where("store_id = ? AND shopify_order_id = ?", store.ID, "9001").First(&order).Error
	assert.NoError(t, err)
	assert.Equal(t, 120.0, order.TotalPrice)

	var itemCount int64
	db.Model(&model.OrderLineItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount)
}
