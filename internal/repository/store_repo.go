package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// StoreRepository 店铺仓储接口
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	GetByDomain(ctx context.Context, domain string) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// 列表查询
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Store, error)
	ListActiveStores(ctx context.Context) ([]model.Store, error)

	// 同步状态
	UpdateLastSync(ctx context.Context, id int64, at time.Time) error
}

// ==================== 仓储实现 ====================

type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	// 域名统一小写，webhook 按域名解析时不区分大小写
	store.ShopifyDomain = strings.ToLower(store.ShopifyDomain)
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// GetByDomain 按域名查找店铺（大小写不敏感）
func (r *storeRepo) GetByDomain(ctx context.Context, domain string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Where("LOWER(shopify_domain) = ?", strings.ToLower(domain)).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).Updates(fields).Error
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Store{}, id).Error
}

func (r *storeRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&stores).Error
	return stores, err
}

// ListActiveStores 获取所有启用的店铺（定时同步使用）
func (r *storeRepo) ListActiveStores(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&stores).Error
	return stores, err
}

// UpdateLastSync 更新最后同步时间
func (r *storeRepo) UpdateLastSync(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error
}
