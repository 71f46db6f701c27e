package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
)

// ==================== 测试基础设施 ====================

func setupWebhookTestSvc(t *testing.T) (*gorm.DB, *WebhookService) {
	db := setupSyncTestDB(t)

	storeRepo := repository.NewStoreRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)

	syncSvc := NewSyncService(
		storeRepo, customerRepo, productRepo,
		repository.NewOrderRepository(db),
		repository.NewOrderLineItemRepository(db),
		repository.NewSyncLogRepository(db),
		&stubSource{}, &stubSource{},
	)
	return db, NewWebhookService(storeRepo, syncSvc, customerRepo, productRepo)
}

func seedWebhookStore(t *testing.T, db *gorm.DB, secret string) *model.Store {
	store := &model.Store{
		Name:          "Webhook Store",
		ShopifyDomain: "hooked.myshopify.com",
		WebhookSecret: secret,
		OwnerID:       1,
		IsActive:      true,
		Currency:      "EUR",
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("创建测试店铺失败: %v", err)
	}
	return store
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ==================== 路由与店铺解析 ====================

func TestWebhook_UnknownStore(t *testing.T) {
	_, svc := setupWebhookTestSvc(t)

	_, err := svc.Process(context.Background(), "orders/create", "nobody.myshopify.com", "", []byte(`{}`))
	if !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("未知店铺应返回 ErrStoreNotFound, 实际 %v", err)
	}
}

func TestWebhook_DomainCaseInsensitive(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	seedWebhookStore(t, db, "")

	result, err := svc.Process(context.Background(), "customers/create",
		"Hooked.MyShopify.COM", "", []byte(`{"id": 1001, "email": "c@example.com"}`))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result != WebhookResultOK {
		t.Errorf("应返回 %q, 实际 %q", WebhookResultOK, result)
	}
}

func TestWebhook_UnhandledTopic(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	seedWebhookStore(t, db, "")

	result, err := svc.Process(context.Background(), "app/uninstalled", "hooked.myshopify.com", "", []byte(`{}`))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result != WebhookResultUnhandled {
		t.Errorf("未识别主题应返回 %q, 实际 %q", WebhookResultUnhandled, result)
	}
}

// ==================== 负载解析 ====================

func TestWebhook_CustomerCoercion(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	store := seedWebhookStore(t, db, "")

	// Shopify 真实负载: 数字 id、字符串金额、逗号分隔 tags
	body := []byte(`{
		"id": 7001,
		"email": "jane@example.com",
		"first_name": "Jane",
		"last_name": "Doe",
		"total_spent": "249.50",
		"orders_count": 4,
		"state": "enabled",
		"tags": "vip, wholesale",
		"created_at": "2026-01-15T08:00:00Z",
		"updated_at": "2026-08-01T08:00:00Z"
	}`)

	if _, err := svc.Process(context.Background(), "customers/update", "hooked.myshopify.com", "", body); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	var customer model.Customer
	if err := db.Where("store_id = ? AND shopify_customer_id = ?", store.ID, "7001").First(&customer).Error; err != nil {
		t.Fatalf("查询客户失败: %v", err)
	}
	if customer.TotalSpent != 249.5 {
		t.Errorf("字符串金额应被解析, 实际 %v", customer.TotalSpent)
	}
	if len(customer.Tags) != 2 || customer.Tags[0] != "vip" || customer.Tags[1] != "wholesale" {
		t.Errorf("逗号分隔 tags 应拆为数组, 实际 %v", customer.Tags)
	}
}

func TestWebhook_ProductVariantPricing(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	store := seedWebhookStore(t, db, "")

	// 无标题回退 Untitled；价格/库存取首个变体
	body := []byte(`{
		"id": "8001",
		"handle": "mystery-item",
		"status": "active",
		"tags": ["sale"],
		"variants": [
			{"price": "19.99", "compare_at_price": "29.99", "inventory_quantity": 7},
			{"price": "49.99", "inventory_quantity": 1}
		]
	}`)

	if _, err := svc.Process(context.Background(), "products/create", "hooked.myshopify.com", "", body); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	var product model.Product
	if err := db.Where("store_id = ? AND shopify_product_id = ?", store.ID, "8001").First(&product).Error; err != nil {
		t.Fatalf("查询商品失败: %v", err)
	}
	if product.Title != "Untitled" {
		t.Errorf("无标题应回退 Untitled, 实际 %q", product.Title)
	}
	if product.Price != 19.99 || product.CompareAtPrice != 29.99 || product.InventoryQuantity != 7 {
		t.Errorf("应取首个变体的价格与库存: %+v", product)
	}
}

func TestWebhook_OrderDefaults(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	store := seedWebhookStore(t, db, "")

	// 先落一个客户，订单应关联上
	if err := db.Create(&model.Customer{StoreID: store.ID, ShopifyCustomerID: "7001"}).Error; err != nil {
		t.Fatalf("创建测试客户失败: %v", err)
	}

	// 缺 currency/created_at，订单项缺 title/quantity
	body := []byte(`{
		"id": 9001,
		"order_number": 1042,
		"total_price": "88.00",
		"financial_status": "paid",
		"customer": {"id": 7001},
		"line_items": [
			{"product_id": 8001, "price": "88.00"}
		]
	}`)

	if _, err := svc.Process(context.Background(), "orders/paid", "hooked.myshopify.com", "", body); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	var order model.Order
	if err := db.Where("store_id = ? AND shopify_order_id = ?", store.ID, "9001").First(&order).Error; err != nil {
		t.Fatalf("查询订单失败: %v", err)
	}
	if order.Currency != "EUR" {
		t.Errorf("缺 currency 应回退店铺币种, 实际 %q", order.Currency)
	}
	if order.OrderDate == "" {
		t.Error("缺 created_at 应回填当前时间")
	}
	if order.CustomerID == nil {
		t.Error("订单应关联已存在的客户")
	}
	if order.OrderNumber != "1042" {
		t.Errorf("数字 order_number 应转字符串, 实际 %q", order.OrderNumber)
	}

	var item model.OrderLineItem
	if err := db.Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("查询订单项失败: %v", err)
	}
	if item.Title != "Item" || item.Quantity != 1 {
		t.Errorf("订单项应落默认值 title=Item quantity=1, 实际 %+v", item)
	}
}

func TestWebhook_InvalidPayload(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	seedWebhookStore(t, db, "")
	ctx := context.Background()

	if _, err := svc.Process(ctx, "orders/create", "hooked.myshopify.com", "", []byte(`not json`)); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("非法 JSON 应返回 ErrInvalidPayload, 实际 %v", err)
	}
	if _, err := svc.Process(ctx, "customers/create", "hooked.myshopify.com", "", []byte(`{"email":"x@example.com"}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("缺 id 应返回 ErrInvalidPayload, 实际 %v", err)
	}
}

// ==================== 签名校验 ====================

func TestWebhook_Signature(t *testing.T) {
	db, svc := setupWebhookTestSvc(t)
	seedWebhookStore(t, db, "shhh")
	ctx := context.Background()

	body := []byte(`{"id": 1, "email": "c@example.com"}`)

	// 缺签名 / 错签名均拒绝
	if _, err := svc.Process(ctx, "customers/create", "hooked.myshopify.com", "", body); !errors.Is(err, ErrBadSignature) {
		t.Errorf("缺签名应返回 ErrBadSignature, 实际 %v", err)
	}
	if _, err := svc.Process(ctx, "customers/create", "hooked.myshopify.com", "bogus", body); !errors.Is(err, ErrBadSignature) {
		t.Errorf("错签名应返回 ErrBadSignature, 实际 %v", err)
	}

	// 正确签名放行
	result, err := svc.Process(ctx, "customers/create", "hooked.myshopify.com", signBody("shhh", body), body)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result != WebhookResultOK {
		t.Errorf("应返回 %q, 实际 %q", WebhookResultOK, result)
	}
}
