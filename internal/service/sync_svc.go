package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/datatypes"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
	"shoplytics_v1_202601/pkg/shopify"
)

// ==================== SyncService 同步服务 ====================

// 单个分块内的并发上限
const syncBatchConcurrency = 10

// SyncService Shopify 数据同步服务
// 三类数据（客户/商品/订单）各自独立走 日志开始 -> 拉取 -> 分批入库 -> 日志收尾 流程
type SyncService struct {
	storeRepo    repository.StoreRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	lineItemRepo repository.OrderLineItemRepository
	syncLogRepo  repository.SyncLogRepository

	// 数据源：有 AccessToken 的店铺走 Admin API，否则走 Mock 生成器
	liveSource shopify.Source
	mockSource shopify.Source

	// 同店铺全量同步去重，value 恒为 struct{}{}
	inFlight sync.Map

	// 单批并发上限
	batchSize int
}

// NewSyncService 创建同步服务
func NewSyncService(
	storeRepo repository.StoreRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	lineItemRepo repository.OrderLineItemRepository,
	syncLogRepo repository.SyncLogRepository,
	liveSource shopify.Source,
	mockSource shopify.Source,
) *SyncService {
	return &SyncService{
		storeRepo:    storeRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		lineItemRepo: lineItemRepo,
		syncLogRepo:  syncLogRepo,
		liveSource:   liveSource,
		mockSource:   mockSource,
		batchSize:    syncBatchConcurrency,
	}
}

// SetBatchSize 设置单批并发上限
func (s *SyncService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// ==================== 全量同步 ====================

// FullSync 对单个店铺做一次全量同步（客户/商品/订单三路并发）
// 三路全部成功才会刷新 last_sync_at；任一失败返回首个错误，已落库的数据保留
func (s *SyncService) FullSync(ctx context.Context, store *model.Store) (*dto.SyncCounts, error) {
	if _, loaded := s.inFlight.LoadOrStore(store.ID, struct{}{}); loaded {
		return nil, ErrSyncInProgress
	}
	defer s.inFlight.Delete(store.ID)

	log.Printf("[SyncService] 店铺 %d (%s) 开始全量同步", store.ID, store.ShopifyDomain)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts dto.SyncCounts
		errs   []error
	)

	run := func(name string, fn func() (int, error), dst *int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := fn()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}()
	}

	run("products", func() (int, error) { return s.SyncProducts(ctx, store) }, &counts.Products)
	run("customers", func() (int, error) { return s.SyncCustomers(ctx, store) }, &counts.Customers)
	run("orders", func() (int, error) { return s.SyncOrders(ctx, store) }, &counts.Orders)
	wg.Wait()

	if len(errs) > 0 {
		log.Printf("[SyncService] 店铺 %d 全量同步失败: %v", store.ID, errs[0])
		return nil, errs[0]
	}

	if err := s.storeRepo.UpdateLastSync(ctx, store.ID, time.Now()); err != nil {
		return nil, err
	}

	log.Printf("[SyncService] 店铺 %d 全量同步完成: 客户 %d, 商品 %d, 订单 %d",
		store.ID, counts.Customers, counts.Products, counts.Orders)
	return &counts, nil
}

// ==================== 单类同步 ====================

// SyncCustomers 同步客户数据，返回处理条数
// 中途失败时同步日志停留在 in_progress，已写入的记录不回滚
func (s *SyncService) SyncCustomers(ctx context.Context, store *model.Store) (int, error) {
	syncLog, err := s.syncLogRepo.Create(ctx, store.ID, model.SyncTypeCustomers)
	if err != nil {
		return 0, err
	}

	customers, err := s.sourceFor(store).FetchCustomers(ctx, s.credentials(store))
	if err != nil {
		return 0, fmt.Errorf("拉取客户数据失败: %w", err)
	}

	processed, err := processInBatches(customers, s.batchSize, func(c shopify.Customer) error {
		_, err := s.customerRepo.Upsert(ctx, &model.Customer{
			StoreID:           store.ID,
			ShopifyCustomerID: c.ID,
			Email:             c.Email,
			FirstName:         c.FirstName,
			LastName:          c.LastName,
			Phone:             c.Phone,
			TotalSpent:        c.TotalSpent,
			OrdersCount:       c.OrdersCount,
			State:             c.State,
			Tags:              c.Tags,
			AcceptsMarketing:  c.AcceptsMarketing,
			ShopifyCreatedAt:  c.CreatedAt,
			ShopifyUpdatedAt:  c.UpdatedAt,
		})
		return err
	})
	if err != nil {
		return processed, fmt.Errorf("客户入库失败: %w", err)
	}

	if err := s.syncLogRepo.Complete(ctx, syncLog.ID, model.SyncStatusSuccess, processed, ""); err != nil {
		return processed, err
	}
	return processed, nil
}

// SyncProducts 同步商品数据，返回处理条数
func (s *SyncService) SyncProducts(ctx context.Context, store *model.Store) (int, error) {
	syncLog, err := s.syncLogRepo.Create(ctx, store.ID, model.SyncTypeProducts)
	if err != nil {
		return 0, err
	}

	products, err := s.sourceFor(store).FetchProducts(ctx, s.credentials(store))
	if err != nil {
		return 0, fmt.Errorf("拉取商品数据失败: %w", err)
	}

	processed, err := processInBatches(products, s.batchSize, func(p shopify.Product) error {
		_, err := s.productRepo.Upsert(ctx, &model.Product{
			StoreID:           store.ID,
			ShopifyProductID:  p.ID,
			Title:             p.Title,
			Handle:            p.Handle,
			ProductType:       p.ProductType,
			Vendor:            p.Vendor,
			Status:            p.Status,
			Tags:              p.Tags,
			Price:             p.Price,
			CompareAtPrice:    p.CompareAtPrice,
			InventoryQuantity: p.InventoryQuantity,
			ShopifyCreatedAt:  p.CreatedAt,
			ShopifyUpdatedAt:  p.UpdatedAt,
		})
		return err
	})
	if err != nil {
		return processed, fmt.Errorf("商品入库失败: %w", err)
	}

	if err := s.syncLogRepo.Complete(ctx, syncLog.ID, model.SyncStatusSuccess, processed, ""); err != nil {
		return processed, err
	}
	return processed, nil
}

// SyncOrders 同步订单数据，返回处理条数
// 每笔订单先按 shopify_customer_id 点查关联客户，再写订单，订单项顺序写入
func (s *SyncService) SyncOrders(ctx context.Context, store *model.Store) (int, error) {
	syncLog, err := s.syncLogRepo.Create(ctx, store.ID, model.SyncTypeOrders)
	if err != nil {
		return 0, err
	}

	orders, err := s.sourceFor(store).FetchOrders(ctx, s.credentials(store))
	if err != nil {
		return 0, fmt.Errorf("拉取订单数据失败: %w", err)
	}

	processed, err := processInBatches(orders, s.batchSize, func(o shopify.Order) error {
		return s.upsertOrderWithItems(ctx, store.ID, o)
	})
	if err != nil {
		return processed, fmt.Errorf("订单入库失败: %w", err)
	}

	if err := s.syncLogRepo.Complete(ctx, syncLog.ID, model.SyncStatusSuccess, processed, ""); err != nil {
		return processed, err
	}
	return processed, nil
}

// upsertOrderWithItems 订单 + 订单项入库，同步与 webhook 共用
func (s *SyncService) upsertOrderWithItems(ctx context.Context, storeID int64, o shopify.Order) error {
	var customerID *int64
	if o.CustomerID != "" {
		customer, err := s.customerRepo.GetByShopifyID(ctx, storeID, o.CustomerID)
		if err != nil {
			return err
		}
		if customer != nil {
			customerID = &customer.ID
		}
	}

	orderID, err := s.orderRepo.Upsert(ctx, &model.Order{
		StoreID:           storeID,
		ShopifyOrderID:    o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        customerID,
		CustomerEmail:     o.Email,
		TotalPrice:        o.TotalPrice,
		SubtotalPrice:     o.SubtotalPrice,
		TotalTax:          o.TotalTax,
		TotalDiscounts:    o.TotalDiscounts,
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		Tags:              o.Tags,
		OrderDate:         o.CreatedAt,
		ShopifyCreatedAt:  o.CreatedAt,
		ShopifyUpdatedAt:  o.UpdatedAt,
		RawPayload:        datatypes.JSON(o.Raw),
	})
	if err != nil {
		return err
	}

	for _, item := range o.LineItems {
		var productID *int64
		if item.ProductID != "" {
			product, err := s.productRepo.GetByShopifyID(ctx, storeID, item.ProductID)
			if err != nil {
				return err
			}
			if product != nil {
				productID = &product.ID
			}
		}

		_, err := s.lineItemRepo.Upsert(ctx, &model.OrderLineItem{
			StoreID:          storeID,
			OrderID:          orderID,
			ProductID:        productID,
			ShopifyProductID: item.ProductID,
			ShopifyVariantID: item.VariantID,
			Title:            item.Title,
			Quantity:         item.Quantity,
			Price:            item.Price,
			TotalDiscount:    item.TotalDiscount,
			SKU:              item.SKU,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ==================== 同步日志查询 ====================

// ListSyncLogs 店铺同步日志（倒序）
func (s *SyncService) ListSyncLogs(ctx context.Context, storeID int64, limit int) ([]*dto.SyncLogInfo, error) {
	logs, err := s.syncLogRepo.ListByStore(ctx, storeID, limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.SyncLogInfo, len(logs))
	for i, l := range logs {
		list[i] = &dto.SyncLogInfo{
			ID:               l.ID,
			StoreID:          l.StoreID,
			SyncType:         l.SyncType,
			Status:           l.Status,
			RecordsProcessed: l.RecordsProcessed,
			ErrorMessage:     l.ErrorMessage,
			StartedAt:        l.StartedAt,
			CompletedAt:      l.CompletedAt,
		}
	}
	return list, nil
}

// ==================== 辅助方法 ====================

func (s *SyncService) sourceFor(store *model.Store) shopify.Source {
	if store.ShopifyAccessToken == "" {
		return s.mockSource
	}
	return s.liveSource
}

func (s *SyncService) credentials(store *model.Store) shopify.Credentials {
	return shopify.Credentials{
		Domain:      store.ShopifyDomain,
		AccessToken: store.ShopifyAccessToken,
	}
}

// processInBatches 分块处理：块间顺序、块内并发
// 返回成功处理的条数；某块出错时处理完该块即停止，后续块不再执行
func processInBatches[T any](items []T, concurrency int, handler func(T) error) (int, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	processed := 0
	for start := 0; start < len(items); start += concurrency {
		end := start + concurrency
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			firstErr error
		)
		for i := range chunk {
			wg.Add(1)
			go func(item T) {
				defer wg.Done()
				err := handler(item)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				processed++
			}(chunk[i])
		}
		wg.Wait()

		if firstErr != nil {
			return processed, firstErr
		}
	}
	return processed, nil
}

// ==================== 错误定义 ====================

var ErrSyncInProgress = errors.New("该店铺已有同步任务在执行")
