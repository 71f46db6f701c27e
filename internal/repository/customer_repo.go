package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// CustomerRepository 客户仓储接口
type CustomerRepository interface {
	// Upsert 按自然键 (store_id, shopify_customer_id) 创建或整体替换
	// 返回记录 ID；同一自然键重复调用返回同一 ID
	Upsert(ctx context.Context, customer *model.Customer) (int64, error)

	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetByShopifyID(ctx context.Context, storeID int64, shopifyCustomerID string) (*model.Customer, error)

	ListByStore(ctx context.Context, storeID int64) ([]model.Customer, error)
	ListByStorePaged(ctx context.Context, storeID int64, page, pageSize int) ([]model.Customer, int64, error)
}

// ==================== 仓储实现 ====================

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepo{db: db}
}

// Upsert 查找后整体替换或插入
// lookup + write 包在一个事务里，保证单条 upsert 的原子性；
// 联合唯一索引兜底并发下的重复插入
func (r *customerRepo) Upsert(ctx context.Context, customer *model.Customer) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Customer
		err := tx.Where("store_id = ? AND shopify_customer_id = ?",
			customer.StoreID, customer.ShopifyCustomerID).
			First(&existing).Error

		if err == nil {
			// 整体替换可变字段，shopify_created_at 不随更新变化
			customer.ID = existing.ID
			customer.CreatedAt = existing.CreatedAt
			customer.ShopifyCreatedAt = existing.ShopifyCreatedAt
			return tx.Save(customer).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(customer).Error
	})
	if err != nil {
		return 0, err
	}
	return customer.ID, nil
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByShopifyID 按自然键点查，不存在时返回 (nil, nil)
func (r *customerRepo) GetByShopifyID(ctx context.Context, storeID int64, shopifyCustomerID string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND shopify_customer_id = ?", storeID, shopifyCustomerID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) ListByStore(ctx context.Context, storeID int64) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) ListByStorePaged(ctx context.Context, storeID int64, page, pageSize int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Customer{}).Where("store_id = ?", storeID)
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
	err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
