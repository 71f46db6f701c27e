package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
	"shoplytics_v1_202601/pkg/shopify"
)

// ==================== 测试基础设施 ====================

func setupSyncTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newSyncService(db *gorm.DB, source shopify.Source) *SyncService {
	return NewSyncService(
		repository.NewStoreRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewOrderLineItemRepository(db),
		repository.NewSyncLogRepository(db),
		source, source,
	)
}

func seedSyncStore(t *testing.T, db *gorm.DB) *model.Store {
	store := &model.Store{
		Name:          "Test Store",
		ShopifyDomain: "teststore.myshopify.com",
		OwnerID:       1,
		IsActive:      true,
		Currency:      "USD",
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("创建测试店铺失败: %v", err)
	}
	return store
}

// stubSource 固定返回预置数据的数据源
type stubSource struct {
	customers []shopify.Customer
	products  []shopify.Product
	orders    []shopify.Order

	customersErr error
	productsErr  error
	ordersErr    error
}

func (s *stubSource) FetchCustomers(_ context.Context, _ shopify.Credentials) ([]shopify.Customer, error) {
	return s.customers, s.customersErr
}

func (s *stubSource) FetchProducts(_ context.Context, _ shopify.Credentials) ([]shopify.Product, error) {
	return s.products, s.productsErr
}

func (s *stubSource) FetchOrders(_ context.Context, _ shopify.Credentials) ([]shopify.Order, error) {
	return s.orders, s.ordersErr
}

// blockingSource 订单拉取会阻塞直到放行，用于验证同店并发去重
type blockingSource struct {
	stubSource
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) FetchOrders(ctx context.Context, creds shopify.Credentials) ([]shopify.Order, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.stubSource.FetchOrders(ctx, creds)
}

// ==================== 全量同步 ====================

func TestFullSync_Success(t *testing.T) {
	db := setupSyncTestDB(t)
	store := seedSyncStore(t, db)
	now := time.Now().UTC().Format(time.RFC3339)

	source := &stubSource{
		customers: []shopify.Customer{
			{ID: "customer_1", Email: "c1@example.com", FirstName: "Customer", LastName: "1", TotalSpent: 300, OrdersCount: 2, State: "enabled", CreatedAt: now, UpdatedAt: now},
			{ID: "customer_2", Email: "c2@example.com", TotalSpent: 50, OrdersCount: 1, State: "enabled", CreatedAt: now, UpdatedAt: now},
		},
		products: []shopify.Product{
			{ID: "product_1", Title: "Product 1", Handle: "product-1", Status: "active", Price: 25, CreatedAt: now, UpdatedAt: now},
		},
		orders: []shopify.Order{
			{
				ID: "order_1", OrderNumber: "#1000", CustomerID: "customer_1",
				Email: "c1@example.com", TotalPrice: 100, SubtotalPrice: 90, TotalTax: 10,
				Currency: "USD", FinancialStatus: "paid", CreatedAt: now, UpdatedAt: now,
				LineItems: []shopify.LineItem{
					{ProductID: "product_1", VariantID: "variant_1", Title: "Product 1", Quantity: 2, Price: 50, SKU: "SKU-1"},
				},
			},
		},
	}

	svc := newSyncService(db, source)
	counts, err := svc.FullSync(context.Background(), store)
	if err != nil {
		t.Fatalf("FullSync() error = %v", err)
	}
	if counts.Customers != 2 || counts.Products != 1 || counts.Orders != 1 {
		t.Errorf("处理条数不符: %+v", counts)
	}

	// 三类全部成功后才刷新 last_sync_at
	var reloaded model.Store
	db.First(&reloaded, store.ID)
	if reloaded.LastSyncAt == nil {
		t.Error("全量同步成功后应刷新 last_sync_at")
	}

	// 三条同步日志全部 success
	var logs []model.SyncLog
	db.Where("store_id = ?", store.ID).Find(&logs)
	if len(logs) != 3 {
		t.Fatalf("应有 3 条同步日志, 实际 %d", len(logs))
	}
	for _, l := range logs {
		if l.Status != model.SyncStatusSuccess {
			t.Errorf("日志 %s 状态应为 success, 实际 %s", l.SyncType, l.Status)
		}
		if l.CompletedAt == nil {
			t.Errorf("日志 %s 应有完成时间", l.SyncType)
		}
	}
}

func TestSyncOrders_LinksCustomerAndProduct(t *testing.T) {
	db := setupSyncTestDB(t)
	store := seedSyncStore(t, db)
	now := time.Now().UTC().Format(time.RFC3339)

	source := &stubSource{
		customers: []shopify.Customer{
			{ID: "customer_1", Email: "c1@example.com", CreatedAt: now, UpdatedAt: now},
		},
		products: []shopify.Product{
			{ID: "product_1", Title: "Product 1", CreatedAt: now, UpdatedAt: now},
		},
		orders: []shopify.Order{
			{
				ID: "order_1", CustomerID: "customer_1", TotalPrice: 50,
				Currency: "USD", CreatedAt: now, UpdatedAt: now,
				LineItems: []shopify.LineItem{
					{ProductID: "product_1", Title: "Product 1", Quantity: 1, Price: 50},
				},
			},
		},
	}
	svc := newSyncService(db, source)
	ctx := context.Background()

	// 客户/商品先落库，订单同步按自然键点查关联
	if _, err := svc.SyncCustomers(ctx, store); err != nil {
		t.Fatalf("SyncCustomers() error = %v", err)
	}
	if _, err := svc.SyncProducts(ctx, store); err != nil {
		t.Fatalf("SyncProducts() error = %v", err)
	}
	if _, err := svc.SyncOrders(ctx, store); err != nil {
		t.Fatalf("SyncOrders() error = %v", err)
	}

	var order model.Order
	if err := db.Where("store_id = ? AND shopify_order_id = ?", store.ID, "order_1").First(&order).Error; err != nil {
		t.Fatalf("查询订单失败: %v", err)
	}
	if order.CustomerID == nil {
		t.Error("订单应关联到已同步的客户")
	}
	var item model.OrderLineItem
	if err := db.Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("查询订单项失败: %v", err)
	}
	if item.ProductID == nil {
		t.Error("订单项应关联到已同步的商品")
	}
}

func TestFullSync_OrderLegFailure(t *testing.T) {
	db := setupSyncTestDB(t)
	store := seedSyncStore(t, db)
	now := time.Now().UTC().Format(time.RFC3339)

	source := &stubSource{
		customers: []shopify.Customer{
			{ID: "customer_1", Email: "c1@example.com", CreatedAt: now, UpdatedAt: now},
		},
		products: []shopify.Product{
			{ID: "product_1", Title: "Product 1", CreatedAt: now, UpdatedAt: now},
		},
		ordersErr: errors.New("admin api 503"),
	}

	svc := newSyncService(db, source)
	_, err := svc.FullSync(context.Background(), store)
	if err == nil {
		t.Fatal("订单拉取失败时 FullSync 应返回错误")
	}

	// 失败时不刷新 last_sync_at
	var reloaded model.Store
	db.First(&reloaded, store.ID)
	if reloaded.LastSyncAt != nil {
		t.Error("存在失败分支时不应刷新 last_sync_at")
	}

	// 成功分支的数据保留，不回滚
	var customerCount int64
	db.Model(&model.Customer{}).Where("store_id = ?", store.ID).Count(&customerCount)
	if customerCount != 1 {
		t.Errorf("客户分支已成功的数据应保留, 实际 %d 条", customerCount)
	}

	// 失败分支的日志停留在 in_progress
	var orderLog model.SyncLog
	db.Where("store_id = ? AND sync_type = ?", store.ID, model.SyncTypeOrders).First(&orderLog)
	if orderLog.Status != model.SyncStatusInProgress {
		t.Errorf("订单同步日志应停留在 in_progress, 实际 %s", orderLog.Status)
	}
	var customerLog model.SyncLog
	db.Where("store_id = ? AND sync_type = ?", store.ID, model.SyncTypeCustomers).First(&customerLog)
	if customerLog.Status != model.SyncStatusSuccess {
		t.Errorf("客户同步日志应为 success, 实际 %s", customerLog.Status)
	}
}

func TestFullSync_RejectsConcurrentRun(t *testing.T) {
	db := setupSyncTestDB(t)
	store := seedSyncStore(t, db)

	source := &blockingSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newSyncService(db, source)

	done := make(chan error, 1)
	go func() {
		_, err := svc.FullSync(context.Background(), store)
		done <- err
	}()

	<-source.entered

	// 同一店铺的第二次同步应被拒绝
	if _, err := svc.FullSync(context.Background(), store); !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("并发同步应返回 ErrSyncInProgress, 实际 %v", err)
	}

	close(source.release)
	if err := <-done; err != nil {
		t.Fatalf("首次 FullSync() error = %v", err)
	}

	// 首次结束后再次同步应放行
	if _, err := svc.FullSync(context.Background(), store); err != nil {
		t.Errorf("同步结束后应可再次发起, 实际 %v", err)
	}
}

func TestFullSync_MockSourceWhenNoToken(t *testing.T) {
	db := setupSyncTestDB(t)
	store := seedSyncStore(t, db) // 未配置 AccessToken

	svc := NewSyncService(
		repository.NewStoreRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewOrderLineItemRepository(db),
		repository.NewSyncLogRepository(db),
		shopify.NewClient("2024-01"),
		shopify.NewMockSource(),
	)

	counts, err := svc.FullSync(context.Background(), store)
	if err != nil {
		t.Fatalf("FullSync() error = %v", err)
	}
	if counts.Customers != 20 || counts.Products != 15 || counts.Orders != 40 {
		t.Errorf("Mock 数据量应为 20/15/40, 实际 %+v", counts)
	}
}

func TestSyncCustomers_Idempotent(t *testing.T) {
	db := setupSyncTestDB(t)
	store := seedSyncStore(t, db)
	now := time.Now().UTC().Format(time.RFC3339)

	source := &stubSource{
		customers: []shopify.Customer{
			{ID: "customer_1", Email: "c1@example.com", TotalSpent: 100, CreatedAt: now, UpdatedAt: now},
			{ID: "customer_2", Email: "c2@example.com", TotalSpent: 200, CreatedAt: now, UpdatedAt: now},
		},
	}
	svc := newSyncService(db, source)

	for i := 0; i < 2; i++ {
		if _, err := svc.SyncCustomers(context.Background(), store); err != nil {
			t.Fatalf("第 %d 次 SyncCustomers() error = %v", i+1, err)
		}
	}

	var count int64
	db.Model(&model.Customer{}).Where("store_id = ?", store.ID).Count(&count)
	if count != 2 {
		t.Errorf("重复同步不应产生重复记录, 实际 %d 条", count)
	}
}

// ==================== 分批处理 ====================

func TestProcessInBatches_StopsAfterFailingChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	var mu sync.Mutex
	handled := map[int]bool{}

	processed, err := processInBatches(items, 2, func(n int) error {
		mu.Lock()
		handled[n] = true
		mu.Unlock()
		if n == 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err == nil {
		t.Fatal("应返回分块内的首个错误")
	}

	// 块 {1,2} 全部成功，块 {3,4} 中 4 成功、3 失败，后续块不再执行
	if processed != 3 {
		t.Errorf("成功条数应为 3, 实际 %d", processed)
	}
	if handled[5] || handled[6] {
		t.Error("出错块之后的条目不应再被处理")
	}
}

func TestProcessInBatches_Empty(t *testing.T) {
	processed, err := processInBatches(nil, 10, func(int) error { return nil })
	if err != nil || processed != 0 {
		t.Errorf("空输入应返回 (0, nil), 实际 (%d, %v)", processed, err)
	}
}
