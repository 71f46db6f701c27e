package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shoplytics_v1_202601/internal/api/dto"
	"shoplytics_v1_202601/internal/model"
	"shoplytics_v1_202601/internal/repository"
)

func setupStoreTestSvc(t *testing.T) *StoreService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.SysUser{}, &model.Store{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return NewStoreService(repository.NewStoreRepository(db))
}

func TestCreateStore_NormalizesDomain(t *testing.T) {
	svc := setupStoreTestSvc(t)

	info, err := svc.CreateStore(context.Background(), 1, &dto.CreateStoreRequest{
		Name:          "My Store",
		ShopifyDomain: "MyStore.MyShopify.COM",
	})
	if err != nil {
		t.Fatalf("CreateStore() error = %v", err)
	}
	if info.ShopifyDomain != "mystore.myshopify.com" {
		t.Errorf("域名应统一小写, 实际 %s", info.ShopifyDomain)
	}
	if info.Currency != "USD" || info.Timezone != "UTC" {
		t.Errorf("未指定时应落默认值: currency=%s timezone=%s", info.Currency, info.Timezone)
	}
	if !info.IsActive {
		t.Error("新建店铺应默认启用")
	}
}

func TestCreateStore_DuplicateDomain(t *testing.T) {
	svc := setupStoreTestSvc(t)
	ctx := context.Background()

	req := &dto.CreateStoreRequest{Name: "Store", ShopifyDomain: "dup.myshopify.com"}
	if _, err := svc.CreateStore(ctx, 1, req); err != nil {
		t.Fatalf("首次 CreateStore() error = %v", err)
	}

	// 同一用户重复域名被拒
	if _, err := svc.CreateStore(ctx, 1, req); !errors.Is(err, ErrDomainExists) {
		t.Errorf("同用户重复域名应返回 ErrDomainExists, 实际 %v", err)
	}

	// 其他用户沿用同一域名不报错
	if _, err := svc.CreateStore(ctx, 2, req); err != nil {
		t.Errorf("其他用户注册同域名应放行, 实际 %v", err)
	}
}

func TestUpdateStore_PartialFields(t *testing.T) {
	svc := setupStoreTestSvc(t)
	ctx := context.Background()

	created, err := svc.CreateStore(ctx, 1, &dto.CreateStoreRequest{
		Name:          "Before",
		ShopifyDomain: "update.myshopify.com",
		Currency:      "EUR",
	})
	if err != nil {
		t.Fatalf("CreateStore() error = %v", err)
	}

	name := "After"
	inactive := false
	updated, err := svc.UpdateStore(ctx, 1, created.ID, &dto.UpdateStoreRequest{
		Name:     &name,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateStore() error = %v", err)
	}
	if updated.Name != "After" || updated.IsActive {
		t.Errorf("指定字段应被更新: %+v", updated)
	}
	if updated.Currency != "EUR" {
		t.Errorf("未指定字段不应变化, 实际 currency=%s", updated.Currency)
	}
}

func TestAuthorizeStore(t *testing.T) {
	svc := setupStoreTestSvc(t)
	ctx := context.Background()

	created, err := svc.CreateStore(ctx, 1, &dto.CreateStoreRequest{
		Name:          "Owned",
		ShopifyDomain: "owned.myshopify.com",
	})
	if err != nil {
		t.Fatalf("CreateStore() error = %v", err)
	}

	if _, err := svc.AuthorizeStore(ctx, 1, created.ID); err != nil {
		t.Errorf("归属用户应放行, 实际 %v", err)
	}
	if _, err := svc.AuthorizeStore(ctx, 2, created.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("非归属用户应返回 ErrAccessDenied, 实际 %v", err)
	}
	// 不存在与非本人不可区分
	if _, err := svc.AuthorizeStore(ctx, 1, 9999); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("不存在的店铺应返回 ErrAccessDenied, 实际 %v", err)
	}

	if err := svc.DeleteStore(ctx, 2, created.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("非归属用户删除应被拒, 实际 %v", err)
	}
	if err := svc.DeleteStore(ctx, 1, created.ID); err != nil {
		t.Errorf("归属用户删除应成功, 实际 %v", err)
	}
}
