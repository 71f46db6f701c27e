package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// Upsert 按自然键 (store_id, shopify_product_id) 创建或整体替换
	Upsert(ctx context.Context, product *model.Product) (int64, error)

	GetByShopifyID(ctx context.Context, storeID int64, shopifyProductID string) (*model.Product, error)

	ListByStore(ctx context.Context, storeID int64) ([]model.Product, error)
	ListByStorePaged(ctx context.Context, storeID int64, page, pageSize int) ([]model.Product, int64, error)
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Upsert(ctx context.Context, product *model.Product) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		err := tx.Where("store_id = ? AND shopify_product_id = ?",
			product.StoreID, product.ShopifyProductID).
			First(&existing).Error

		if err == nil {
			product.ID = existing.ID
			product.CreatedAt = existing.CreatedAt
			product.ShopifyCreatedAt = existing.ShopifyCreatedAt
			return tx.Save(product).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(product).Error
	})
	if err != nil {
		return 0, err
	}
	return product.ID, nil
}

// GetByShopifyID 按自然键点查，不存在时返回 (nil, nil)
func (r *productRepo) GetByShopifyID(ctx context.Context, storeID int64, shopifyProductID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND shopify_product_id = ?", storeID, shopifyProductID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ListByStore(ctx context.Context, storeID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListByStorePaged(ctx context.Context, storeID int64, page, pageSize int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
