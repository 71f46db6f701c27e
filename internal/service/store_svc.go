package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
)

// ==================== StoreService 店铺服务 ====================

// StoreService 店铺服务
type StoreService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService 创建店铺服务
func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// ==================== 店铺 CRUD ====================

// CreateStore 创建店铺
// 同一用户名下不允许重复域名；域名被其他用户占用时不报错（原样沿用既有行为）
func (s *StoreService) CreateStore(ctx context.Context, ownerID int64, req *dto.CreateStoreRequest) (*dto.StoreInfo, error) {
	domain := strings.ToLower(req.ShopifyDomain)

	existing, err := s.storeRepo.GetByDomain(ctx, domain)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.OwnerID == ownerID {
		return nil, ErrDomainExists
	}

	store := &model.Store{
		Name:               req.Name,
		ShopifyDomain:      domain,
		ShopifyAccessToken: req.ShopifyAccessToken,
		WebhookSecret:      req.WebhookSecret,
		OwnerID:            ownerID,
		IsActive:           true,
		Currency:           defaultString(req.Currency, "USD"),
		Timezone:           defaultString(req.Timezone, "UTC"),
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	return s.toStoreInfo(store), nil
}

// GetStore 获取店铺详情（校验归属）
func (s *StoreService) GetStore(ctx context.Context, ownerID, storeID int64) (*dto.StoreInfo, error) {
	store, err := s.AuthorizeStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}
	return s.toStoreInfo(store), nil
}

// ListStores 当前用户的店铺列表
func (s *StoreService) ListStores(ctx context.Context, ownerID int64) (*dto.StoreListResponse, error) {
	stores, err := s.storeRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.StoreInfo, len(stores))
	for i := range stores {
		list[i] = s.toStoreInfo(&stores[i])
	}
	return &dto.StoreListResponse{List: list, Total: len(list)}, nil
}

// UpdateStore 更新店铺设置
func (s *StoreService) UpdateStore(ctx context.Context, ownerID, storeID int64, req *dto.UpdateStoreRequest) (*dto.StoreInfo, error) {
	store, err := s.AuthorizeStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.ShopifyAccessToken != nil {
		fields["shopify_access_token"] = *req.ShopifyAccessToken
	}
	if req.WebhookSecret != nil {
		fields["webhook_secret"] = *req.WebhookSecret
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Currency != nil {
		fields["currency"] = *req.Currency
	}
	if req.Timezone != nil {
		fields["timezone"] = *req.Timezone
	}

	if len(fields) > 0 {
		if err := s.storeRepo.UpdateFields(ctx, store.ID, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.storeRepo.GetByID(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return s.toStoreInfo(updated), nil
}

// DeleteStore 删除店铺
func (s *StoreService) DeleteStore(ctx context.Context, ownerID, storeID int64) error {
	store, err := s.AuthorizeStore(ctx, ownerID, storeID)
	if err != nil {
		return err
	}
	return s.storeRepo.Delete(ctx, store.ID)
}

// ==================== 归属校验 ====================

// AuthorizeStore 校验店铺归属，供各业务服务复用
// 不存在与非本人返回同一个错误，避免通过错误码探测他人店铺 ID
func (s *StoreService) AuthorizeStore(ctx context.Context, ownerID, storeID int64) (*model.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}
	return store, nil
}

// ==================== 辅助方法 ====================

func (s *StoreService) toStoreInfo(store *model.Store) *dto.StoreInfo {
	return &dto.StoreInfo{
		ID:            store.ID,
		Name:          store.Name,
		ShopifyDomain: store.ShopifyDomain,
		IsActive:      store.IsActive,
		Currency:      store.Currency,
		Timezone:      store.Timezone,
		LastSyncAt:    store.LastSyncAt,
		CreatedAt:     store.CreatedAt,
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ==================== 错误定义 ====================

var (
	// ErrStoreNotFound 仅用于 webhook 域名解析，归属校验统一走 ErrAccessDenied
	ErrStoreNotFound = errors.New("店铺不存在")
	ErrAccessDenied  = errors.New("店铺不存在或无权访问")
	ErrDomainExists  = errors.New("该域名的店铺已存在")
)
