package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
)

// ==================== OrderRepository ====================

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	StoreID   int64
	StartDate string // "YYYY-MM-DD" 或完整 ISO 串，按字典序比较
	EndDate   string
	Page      int
	PageSize  int
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Upsert 按自然键 (store_id, shopify_order_id) 创建或整体替换
	Upsert(ctx context.Context, order *model.Order) (int64, error)

	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByShopifyID(ctx context.Context, storeID int64, shopifyOrderID string) (*model.Order, error)

	ListByStore(ctx context.Context, storeID int64) ([]model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Upsert(ctx context.Context, order *model.Order) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Order
		err := tx.Where("store_id = ? AND shopify_order_id = ?",
			order.StoreID, order.ShopifyOrderID).
			First(&existing).Error

		if err == nil {
			order.ID = existing.ID
			order.CreatedAt = existing.CreatedAt
			order.ShopifyCreatedAt = existing.ShopifyCreatedAt
			// 同步路径不带原始负载，不覆盖 webhook 留下的数据
			if len(order.RawPayload) == 0 {
				order.RawPayload = existing.RawPayload
			}
			return tx.Save(order).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByShopifyID 按自然键点查，不存在时返回 (nil, nil)
func (r *orderRepo) GetByShopifyID(ctx context.Context, storeID int64, shopifyOrderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND shopify_order_id = ?", storeID, shopifyOrderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByStore 拉取店铺全部订单（聚合分析按需全量读取，无缓存物化）
func (r *orderRepo) ListByStore(ctx context.Context, storeID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("store_id = ?", filter.StoreID)

	// "YYYY-MM-DD" 前缀与 ISO 串字典序一致，直接按字符串过滤
	if filter.StartDate != "" {
		query = query.Where("order_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("order_date <= ?", filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.Order("order_date DESC").Limit(filter.PageSize).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ==================== OrderLineItemRepository ====================

// OrderLineItemRepository 订单项仓储接口
type OrderLineItemRepository interface {
	// Upsert 按 (order_id, shopify_product_id) 匹配
	// 命中时只替换 title/quantity/price/total_discount/sku，保留既有商品/变体引用
	Upsert(ctx context.Context, item *model.OrderLineItem) (int64, error)

	ListByOrder(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)
}

type orderLineItemRepo struct {
	db *gorm.DB
}

// NewOrderLineItemRepository 创建订单项仓储
func NewOrderLineItemRepository(db *gorm.DB) OrderLineItemRepository {
	return &orderLineItemRepo{db: db}
}

func (r *orderLineItemRepo) Upsert(ctx context.Context, item *model.OrderLineItem) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.OrderLineItem
		err := tx.Where("order_id = ? AND shopify_product_id = ?",
			item.OrderID, item.ShopifyProductID).
			First(&existing).Error

		if err == nil {
			existing.Title = item.Title
			existing.Quantity = item.Quantity
			existing.Price = item.Price
			existing.TotalDiscount = item.TotalDiscount
			existing.SKU = item.SKU
			*item = existing
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (r *orderLineItemRepo) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	var items []model.OrderLineItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}
